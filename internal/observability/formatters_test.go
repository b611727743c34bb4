package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jd-agent/internal/types"
)

func TestPrintJobProfile(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	profile := &types.JobProfile{
		Company:         "Acme Corp",
		Role:            "Data Scientist",
		Skills:          []string{"Python", "SQL", "Spark", "Pandas", "NumPy", "Airflow"},
		ExperienceYears: 4,
	}

	p.PrintJobProfile(profile)
	output := buf.String()

	assert.Contains(t, output, "JOB PROFILE")
	assert.Contains(t, output, "Acme Corp")
	assert.Contains(t, output, "Data Scientist")
	assert.Contains(t, output, "Python")
	assert.Contains(t, output, "and 1 more")
}

func TestPrintJobProfile_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintJobProfile(nil)

	assert.Empty(t, buf.String())
}

func TestPrintTopContent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	items := []types.ContentItem{
		{Title: "Interview Guide", Source: "GitHub", RelevanceScore: 0.91},
		{Title: "Practice Problems", Source: "LeetCode", RelevanceScore: 0.72},
	}

	p.PrintTopContent(items)
	output := buf.String()

	assert.Contains(t, output, "TOP RANKED CONTENT")
	assert.Contains(t, output, "Interview Guide")
	assert.Contains(t, output, "0.91")
	assert.Contains(t, output, "LeetCode")
}

func TestPrintTopContent_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintTopContent(nil)

	assert.Empty(t, buf.String())
}

func TestPrintCompression(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCompression(types.CompressionResult{
		OriginalCount:      12,
		AcceptedCount:      7,
		EstimatedTokens:    2400,
		EffectiveThreshold: 0.45,
		SourcesUsed:        []string{"GitHub", "Medium"},
	})
	output := buf.String()

	assert.Contains(t, output, "COMPRESSED CONTEXT")
	assert.Contains(t, output, "7 of 12")
	assert.Contains(t, output, "2400")
	assert.Contains(t, output, "GitHub, Medium")
}

func TestPrintQuestionStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	items := []types.CandidateItem{
		{Question: "q1", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "q2", Difficulty: types.DifficultyEasy, Category: "Behavioral"},
		{Question: "q3", Difficulty: types.DifficultyHard, Category: "Technical"},
	}

	p.PrintQuestionStats(items)
	output := buf.String()

	assert.Contains(t, output, "GENERATED QUESTIONS")
	assert.Contains(t, output, "Total questions: 3")
	assert.Contains(t, output, "easy")
	assert.Contains(t, output, "hard")
	assert.Contains(t, output, "Technical")
	assert.NotContains(t, output, "medium")
}

func TestPrintQuestionStats_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintQuestionStats(nil)

	assert.Contains(t, buf.String(), "No questions generated")
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 200))

	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), boxWidth)
	}
}
