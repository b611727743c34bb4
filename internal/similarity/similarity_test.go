package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenSetRatio_Identical(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("data scientist", "data scientist"))
}

func TestTokenSetRatio_Empty(t *testing.T) {
	assert.Equal(t, 0, TokenSetRatio("", ""))
	assert.Equal(t, 0, TokenSetRatio("data scientist", ""))
	assert.Equal(t, 0, TokenSetRatio("", "data scientist"))
}

func TestTokenSetRatio_OrderIndependent(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("scientist data", "data scientist"))
}

func TestTokenSetRatio_PartialOverlap(t *testing.T) {
	// {what, is, python} vs {what, is, golang}: 2 shared of 3 per side.
	assert.Equal(t, 66, TokenSetRatio("what is python", "what is golang"))
}

func TestTokenSetRatio_SubsetScoresFull(t *testing.T) {
	body := "python is a popular language for interviews and python questions come up often"
	assert.Equal(t, 100, TokenSetRatio("python", body))
}

func TestTokenSetRatio_CaseAndPunctuation(t *testing.T) {
	assert.Equal(t, 100, TokenSetRatio("What is Python?", "what is python"))
}

func TestTokenSetRatio_Symmetric(t *testing.T) {
	a, b := "machine learning interview", "interview questions for machine learning"
	assert.Equal(t, TokenSetRatio(a, b), TokenSetRatio(b, a))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what is python", Normalize("  What is   Python?!  "))
	assert.Equal(t, "", Normalize("?!,."))
	assert.Equal(t, "a b", Normalize("A\n\tB"))
}
