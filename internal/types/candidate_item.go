package types

import "strings"

// Difficulty is the difficulty level of a candidate item.
type Difficulty string

// Difficulty levels for candidate items
const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists all difficulty levels in generation order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// CandidateItem represents a generated question/answer unit awaiting
// deduplication and scoring. Produced by the generation step; never mutated
// except to attach RelevanceScore.
type CandidateItem struct {
	Question       string     `json:"question"`
	Answer         string     `json:"answer"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Skills         []string   `json:"skills"`
	RelevanceScore float64    `json:"relevance_score"`
}

// Normalize substitutes defaults for missing optional fields so that a
// malformed item never propagates as an error: empty skill set, zero score,
// lowercase difficulty defaulting to medium.
func (c *CandidateItem) Normalize() {
	if c.Skills == nil {
		c.Skills = []string{}
	}
	if c.RelevanceScore < 0 {
		c.RelevanceScore = 0
	}
	switch Difficulty(strings.ToLower(string(c.Difficulty))) {
	case DifficultyEasy:
		c.Difficulty = DifficultyEasy
	case DifficultyHard:
		c.Difficulty = DifficultyHard
	default:
		c.Difficulty = DifficultyMedium
	}
}
