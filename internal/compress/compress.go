// Package compress packs scored content items into a bounded text blob for
// use as grounding material in a generation prompt. Selection is greedy by
// relevance under a character budget derived from a token limit.
package compress

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/jd-agent/internal/types"
)

// Compressor defaults. MaxTokens leaves a safety buffer below a 4k context
// window; CharsPerToken is the rough English-text ratio.
const (
	DefaultMaxTokens         = 3000
	DefaultCharLimitPerPiece = 350
	DefaultMinRelevance      = 0.3
	DefaultCharsPerToken     = 4

	// minShortenedBudget is the smallest remaining budget worth filling
	// with a further-shortened piece instead of stopping.
	minShortenedBudget = 100
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
	// \w would be ASCII-only here; the explicit classes keep non-ASCII letters.
	specialRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s.,!?;:()\-]`)
	sentenceRe = regexp.MustCompile(`[.!?]+`)
)

// Compressor selects and trims content items under a token budget.
type Compressor struct {
	MaxTokens         int
	CharLimitPerPiece int
	MinRelevance      float64
	CharsPerToken     int
}

// DefaultCompressor returns a compressor with the standard budget.
func DefaultCompressor() *Compressor {
	return &Compressor{
		MaxTokens:         DefaultMaxTokens,
		CharLimitPerPiece: DefaultCharLimitPerPiece,
		MinRelevance:      DefaultMinRelevance,
		CharsPerToken:     DefaultCharsPerToken,
	}
}

// Compress filters items below the relevance threshold, orders the rest by
// descending score, trims each piece, and accumulates pieces until the
// character budget is reached. Empty or fully-filtered input yields a
// well-formed empty result, never an error.
func (c *Compressor) Compress(items []types.ContentItem) types.CompressionResult {
	empty := types.CompressionResult{
		EffectiveThreshold: c.MinRelevance,
		SourcesUsed:        []string{},
	}
	if len(items) == 0 {
		return empty
	}

	eligible := make([]types.ContentItem, 0, len(items))
	for _, item := range items {
		if item.RelevanceScore >= c.MinRelevance {
			eligible = append(eligible, item)
		}
	}
	empty.OriginalCount = len(items)
	if len(eligible) == 0 {
		return empty
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].RelevanceScore > eligible[j].RelevanceScore
	})

	maxChars := c.MaxTokens * c.CharsPerToken
	pieces := make([]string, 0, len(eligible))
	sources := make([]string, 0, len(eligible))
	effectiveThreshold := c.MinRelevance
	currentLength := 0

	for _, item := range eligible {
		if currentLength >= maxChars {
			break
		}

		piece := extractText(item)
		if piece == "" {
			continue
		}
		piece = c.trim(piece)

		if currentLength+len(piece) > maxChars {
			remaining := maxChars - currentLength
			if remaining <= minShortenedBudget {
				break
			}
			piece = piece[:remaining-50] + "..."
		}

		pieces = append(pieces, piece)
		currentLength += len(piece)
		effectiveThreshold = item.RelevanceScore

		if !contains(sources, item.Source) {
			sources = append(sources, item.Source)
		}
	}

	text := combine(pieces)
	return types.CompressionResult{
		Text:               text,
		OriginalCount:      len(items),
		AcceptedCount:      len(pieces),
		EstimatedTokens:    len(text) / c.CharsPerToken,
		EffectiveThreshold: effectiveThreshold,
		SourcesUsed:        sources,
	}
}

// extractText prefers a curated snippet over the full body.
func extractText(item types.ContentItem) string {
	for _, candidate := range []string{item.Snippet, item.Body} {
		if text := strings.TrimSpace(candidate); text != "" {
			return cleanText(text)
		}
	}
	return ""
}

// cleanText strips markup, collapses whitespace, drops characters that
// disturb prompt formatting, and normalizes curly quotes and long dashes.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, "")
	text = specialRe.ReplaceAllString(text, "")
	text = strings.NewReplacer(
		"“", `"`,
		"”", `"`,
		"–", "-",
		"—", "-",
	).Replace(text)
	return strings.TrimSpace(text)
}

// trim cuts a piece to the per-piece limit, preferring whole sentences and
// falling back to a hard truncation with an ellipsis.
func (c *Compressor) trim(text string) string {
	if len(text) <= c.CharLimitPerPiece {
		return text
	}

	var b strings.Builder
	for _, sentence := range sentenceRe.Split(text, -1) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if b.Len()+len(sentence) > c.CharLimitPerPiece {
			break
		}
		b.WriteString(sentence)
		b.WriteString(". ")
	}

	if b.Len() == 0 {
		return text[:c.CharLimitPerPiece-3] + "..."
	}
	return strings.TrimSpace(b.String())
}

func combine(pieces []string) string {
	if len(pieces) == 0 {
		return ""
	}
	labeled := make([]string, len(pieces))
	for i, piece := range pieces {
		labeled[i] = fmt.Sprintf("Source %d: %s", i+1, piece)
	}
	return strings.Join(labeled, "\n\n")
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
