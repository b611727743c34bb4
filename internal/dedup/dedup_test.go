package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-agent/internal/types"
)

func TestDeduplicate_VerbatimPair(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
	}
	out := Deduplicate(items, DefaultThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "What is Python?", out[0].Question)
}

func TestDeduplicate_ExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "what is python", Difficulty: types.DifficultyEasy, Category: "Technical"},
	}
	out := Deduplicate(items, DefaultThreshold)
	assert.Len(t, out, 1)
}

func TestDeduplicate_NearDuplicateDiscarded(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is a Python decorator?", Difficulty: types.DifficultyMedium, Category: "Technical"},
		{Question: "What is a decorator in Python?", Difficulty: types.DifficultyMedium, Category: "Technical"},
	}
	out := Deduplicate(items, DefaultThreshold)
	require.Len(t, out, 1)
	assert.Equal(t, "What is a Python decorator?", out[0].Question)
}

func TestDeduplicate_DistinctQuestionsSurvive(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "Explain SQL window functions with an example", Difficulty: types.DifficultyEasy, Category: "Technical"},
	}
	out := Deduplicate(items, DefaultThreshold)
	assert.Len(t, out, 2)
}

func TestDeduplicate_CrossPartitionSurvival(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "What is Python?", Difficulty: types.DifficultyMedium, Category: "Technical"},
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Behavioral"},
	}
	out := Deduplicate(items, DefaultThreshold)
	assert.Len(t, out, 3)
}

func TestDeduplicate_PreservesOrder(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "Describe a gradient boosting model", Difficulty: types.DifficultyHard, Category: "Technical"},
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "Explain SQL joins to a beginner", Difficulty: types.DifficultyEasy, Category: "Technical"},
	}
	out := Deduplicate(items, DefaultThreshold)
	require.Len(t, out, 3)
	assert.Equal(t, "Describe a gradient boosting model", out[0].Question)
	assert.Equal(t, "What is Python?", out[1].Question)
	assert.Equal(t, "Explain SQL joins to a beginner", out[2].Question)
}

func TestDeduplicate_Idempotent(t *testing.T) {
	items := []types.CandidateItem{
		{Question: "What is Python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "what is python?", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "Explain SQL window functions", Difficulty: types.DifficultyEasy, Category: "Technical"},
		{Question: "Describe overfitting and regularization", Difficulty: types.DifficultyHard, Category: "Technical"},
	}
	once := Deduplicate(items, DefaultThreshold)
	twice := Deduplicate(once, DefaultThreshold)
	assert.Equal(t, once, twice)
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil, DefaultThreshold))
}
