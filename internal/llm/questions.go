package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/jd-agent/internal/prompts"
	"github.com/jonathan/jd-agent/internal/schemas"
	"github.com/jonathan/jd-agent/internal/types"
)

// DefaultQuestionsPerDifficulty is the batch size requested per difficulty
// level.
const DefaultQuestionsPerDifficulty = 5

// difficultyFocus steers generation toward topics appropriate for each
// difficulty level.
var difficultyFocus = map[types.Difficulty]string{
	types.DifficultyEasy:   "basic concepts, fundamental knowledge, and entry-level topics",
	types.DifficultyMedium: "intermediate concepts, practical applications, and problem-solving",
	types.DifficultyHard:   "advanced concepts, system design, complex algorithms, and senior-level topics",
}

type questionBatch struct {
	Questions []types.CandidateItem `json:"questions"`
}

// GenerateQuestions asks the model for a batch of interview questions at one
// difficulty level, grounded in the compressed context. The response is
// schema-validated before any item is trusted; malformed optional fields on
// individual items are defaulted rather than rejected.
func GenerateQuestions(ctx context.Context, client Client, profile types.JobProfile, contextText string, difficulty types.Difficulty, count int) ([]types.CandidateItem, error) {
	if count <= 0 {
		count = DefaultQuestionsPerDifficulty
	}

	template, err := prompts.Get("generation.json", "generate-questions")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Role":            profile.Role,
		"Company":         profile.Company,
		"ExperienceYears": strconv.Itoa(profile.ExperienceYears),
		"Skills":          strings.Join(profile.Skills, ", "),
		"Difficulty":      string(difficulty),
		"DifficultyFocus": difficultyFocus[difficulty],
		"Context":         contextText,
		"Count":           strconv.Itoa(count),
	})

	raw, err := client.GenerateJSON(ctx, prompt, TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s questions: %w", difficulty, err)
	}

	if err := schemas.ValidateQuestionBatch([]byte(raw)); err != nil {
		return nil, fmt.Errorf("generated %s questions failed validation: %w", difficulty, err)
	}

	var batch questionBatch
	if err := json.Unmarshal([]byte(raw), &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal question batch: %w", err)
	}

	items := batch.Questions
	for i := range items {
		items[i].Difficulty = difficulty
		items[i].Normalize()
	}
	return items, nil
}

// EnhanceQuestion rewrites an item's answer using relevant fetched content
// as grounding material. The question itself is never altered.
func EnhanceQuestion(ctx context.Context, client Client, item types.CandidateItem, contextText string) (types.CandidateItem, error) {
	template, err := prompts.Get("generation.json", "enhance-question")
	if err != nil {
		return item, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Question": item.Question,
		"Answer":   item.Answer,
		"Context":  contextText,
	})

	answer, err := client.GenerateContent(ctx, prompt, TierLite)
	if err != nil {
		return item, fmt.Errorf("failed to enhance question: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return item, fmt.Errorf("enhancement produced an empty answer")
	}

	enhanced := item
	enhanced.Answer = answer
	return enhanced, nil
}
