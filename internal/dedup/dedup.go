// Package dedup removes duplicate and near-duplicate candidate items.
// Comparison happens strictly within a (difficulty, category) partition;
// identical questions under different difficulties or categories both
// survive.
package dedup

import (
	"github.com/jonathan/jd-agent/internal/similarity"
	"github.com/jonathan/jd-agent/internal/types"
)

// DefaultThreshold is the fuzzy similarity (0-100) at or above which a
// candidate is treated as a near-duplicate of an already-accepted item.
const DefaultThreshold = 85

type partitionKey struct {
	difficulty types.Difficulty
	category   string
}

// Deduplicate filters items in a single ordered pass, keeping the first
// occurrence of each question within its partition and discarding later
// items whose similarity to any accepted item in the same partition meets
// the threshold. Relative order of survivors is preserved. The result
// depends only on input order and the threshold, not on scores.
func Deduplicate(items []types.CandidateItem, threshold int) []types.CandidateItem {
	seen := make(map[partitionKey]map[string]bool)
	accepted := make(map[partitionKey][]string)

	out := make([]types.CandidateItem, 0, len(items))
	for _, item := range items {
		key := partitionKey{difficulty: item.Difficulty, category: item.Category}
		normalized := similarity.Normalize(item.Question)

		if seen[key] == nil {
			seen[key] = make(map[string]bool)
		}
		if seen[key][normalized] {
			continue
		}
		seen[key][normalized] = true

		if nearDuplicate(normalized, accepted[key], threshold) {
			continue
		}

		accepted[key] = append(accepted[key], normalized)
		out = append(out, item)
	}
	return out
}

func nearDuplicate(question string, accepted []string, threshold int) bool {
	for _, prior := range accepted {
		if similarity.TokenSetRatio(question, prior) >= threshold {
			return true
		}
	}
	return false
}
