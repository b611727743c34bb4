package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-agent/internal/types"
)

// stubClient returns canned responses without touching the network.
type stubClient struct {
	jsonResponse string
	textResponse string
	err          error
	lastPrompt   string
}

func (s *stubClient) GenerateContent(_ context.Context, prompt string, _ ModelTier) (string, error) {
	s.lastPrompt = prompt
	return s.textResponse, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, prompt string, _ ModelTier) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return CleanJSONBlock(s.jsonResponse), nil
}

func (s *stubClient) Close() error { return nil }

func generationProfile() types.JobProfile {
	return types.JobProfile{
		Role:            "Data Scientist",
		Company:         "Acme",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 3,
	}
}

func TestGenerateQuestions_ValidBatch(t *testing.T) {
	client := &stubClient{jsonResponse: `{
		"questions": [
			{"question": "What is Python?", "answer": "A language.", "category": "Technical", "skills": ["Python"]},
			{"question": "Describe a conflict you resolved.", "answer": "Example answer.", "category": "Behavioral"}
		]
	}`}

	items, err := GenerateQuestions(context.Background(), client, generationProfile(), "Source 1: context", types.DifficultyEasy, 5)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, types.DifficultyEasy, items[0].Difficulty)
	assert.Equal(t, types.DifficultyEasy, items[1].Difficulty)
	// Missing skills default to an empty set, never nil.
	assert.NotNil(t, items[1].Skills)

	assert.Contains(t, client.lastPrompt, "Data Scientist")
	assert.Contains(t, client.lastPrompt, "Acme")
	assert.Contains(t, client.lastPrompt, "Source 1: context")
	assert.Contains(t, client.lastPrompt, "easy")
}

func TestGenerateQuestions_FencedResponse(t *testing.T) {
	client := &stubClient{jsonResponse: "```json\n" + `{"questions": [{"question": "q", "answer": "a"}]}` + "\n```"}

	items, err := GenerateQuestions(context.Background(), client, generationProfile(), "", types.DifficultyMedium, 5)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestGenerateQuestions_SchemaViolation(t *testing.T) {
	client := &stubClient{jsonResponse: `{"questions": [{"question": "missing answer"}]}`}

	_, err := GenerateQuestions(context.Background(), client, generationProfile(), "", types.DifficultyHard, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestGenerateQuestions_ClientError(t *testing.T) {
	client := &stubClient{err: errors.New("quota exceeded")}

	_, err := GenerateQuestions(context.Background(), client, generationProfile(), "", types.DifficultyEasy, 5)
	require.Error(t, err)
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestEnhanceQuestion_ReplacesAnswerOnly(t *testing.T) {
	client := &stubClient{textResponse: "A richer answer with examples."}
	item := types.CandidateItem{Question: "What is SQL?", Answer: "A query language."}

	enhanced, err := EnhanceQuestion(context.Background(), client, item, "Source 1: sql notes")
	require.NoError(t, err)
	assert.Equal(t, "What is SQL?", enhanced.Question)
	assert.Equal(t, "A richer answer with examples.", enhanced.Answer)
	assert.Equal(t, "A query language.", item.Answer)
}

func TestEnhanceQuestion_EmptyAnswerIsError(t *testing.T) {
	client := &stubClient{textResponse: "   "}
	item := types.CandidateItem{Question: "q", Answer: "a"}

	_, err := EnhanceQuestion(context.Background(), client, item, "")
	require.Error(t, err)
}
