package llm

import "strings"

// CleanJSONBlock strips markdown code fences and surrounding prose from a
// model response, returning the first complete JSON object or array it
// contains. LLMs often wrap JSON in ```json fences or add a conversational
// preamble even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if idx := strings.Index(text, "```json"); idx >= 0 {
		start := idx + len("```json")
		if end := strings.Index(text[start:], "```"); end >= 0 {
			text = text[start : start+end]
		} else {
			text = text[start:]
		}
		return strings.TrimSpace(text)
	}

	if idx := strings.Index(text, "```"); idx >= 0 {
		start := idx + len("```")
		// Skip a language identifier on the fence line.
		if nl := strings.Index(text[start:], "\n"); nl >= 0 {
			firstLine := text[start : start+nl]
			if len(firstLine) < 20 && !strings.ContainsAny(firstLine, " {[") {
				start += nl + 1
			}
		}
		if end := strings.Index(text[start:], "```"); end >= 0 {
			text = text[start : start+end]
		} else {
			text = text[start:]
		}
		return strings.TrimSpace(text)
	}

	if extracted := extractBalanced(text); extracted != "" {
		return extracted
	}
	return text
}

// extractBalanced scans for the first balanced {...} or [...] span, ignoring
// brackets inside JSON string literals.
func extractBalanced(text string) string {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return ""
	}
	open := text[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == open:
			depth++
		case c == closer:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
