// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jd-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintJobProfile outputs a human-readable summary of the job profile.
func (p *Printer) PrintJobProfile(profile *types.JobProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Company:     %s\n", profile.Company))
	sb.WriteString(fmt.Sprintf("Role:        %s\n", profile.Role))
	sb.WriteString(fmt.Sprintf("Experience:  %d years\n", profile.ExperienceYears))

	if len(profile.Skills) > 0 {
		sb.WriteString("\nSkills:\n")
		count := min(len(profile.Skills), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", profile.Skills[i]))
		}
		if len(profile.Skills) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Skills)-maxItemsToShow))
		}
	}

	p.printBox("JOB PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTopContent outputs the highest-scoring fetched content items.
func (p *Printer) PrintTopContent(items []types.ContentItem) {
	if len(items) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Retained %d content items:\n\n", len(items)))

	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		item := items[i]
		title := item.Title
		if len(title) > 45 {
			title = title[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Score: %.2f  Source: %s\n", item.RelevanceScore, item.Source))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more items", len(items)-maxItemsToShow))
	}

	p.printBox("TOP RANKED CONTENT", sb.String())
}

// PrintCompression outputs the context compression summary.
func (p *Printer) PrintCompression(result types.CompressionResult) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pieces:     %d of %d\n", result.AcceptedCount, result.OriginalCount))
	sb.WriteString(fmt.Sprintf("Tokens:     ~%d\n", result.EstimatedTokens))
	sb.WriteString(fmt.Sprintf("Threshold:  %.2f\n", result.EffectiveThreshold))

	if len(result.SourcesUsed) > 0 {
		sources := strings.Join(result.SourcesUsed, ", ")
		if len(sources) > 40 {
			sources = sources[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("Sources:    %s", sources))
	}

	p.printBox("COMPRESSED CONTEXT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintQuestionStats outputs per-difficulty and per-category counts for the
// final question set.
func (p *Printer) PrintQuestionStats(items []types.CandidateItem) {
	if len(items) == 0 {
		p.printBox("GENERATED QUESTIONS", "No questions generated")
		return
	}

	byDifficulty := make(map[types.Difficulty]int)
	byCategory := make(map[string]int)
	var categories []string
	for _, item := range items {
		byDifficulty[item.Difficulty]++
		if byCategory[item.Category] == 0 {
			categories = append(categories, item.Category)
		}
		byCategory[item.Category]++
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total questions: %d\n\n", len(items)))

	sb.WriteString("By difficulty:\n")
	for _, difficulty := range types.Difficulties() {
		if count := byDifficulty[difficulty]; count > 0 {
			sb.WriteString(fmt.Sprintf("  %-8s %d\n", difficulty, count))
		}
	}

	sb.WriteString("\nBy category:\n")
	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("  %-16s %d\n", category, byCategory[category]))
	}

	p.printBox("GENERATED QUESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}
