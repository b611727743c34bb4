// Package similarity provides the fuzzy set-similarity primitive shared by
// relevance scoring and deduplication.
package similarity

import (
	"strings"
	"unicode"
)

// TokenSetRatio returns an order-independent similarity between two strings
// on a 0-100 scale. Strings are normalized, split into token sets, and
// compared by overlap: intersection size over the smaller set, so a string
// whose tokens all appear in the other scores 100 regardless of extra
// surrounding text. Empty strings have similarity 0; identical strings have
// similarity 100.
func TokenSetRatio(a, b string) int {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for token := range setA {
		if setB[token] {
			intersection++
		}
	}

	smaller := min(len(setA), len(setB))
	return int(100 * float64(intersection) / float64(smaller))
}

// Normalize lowercases s, strips punctuation, and collapses whitespace.
// It is the canonical form used for exact-duplicate comparison.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenSet builds the set of normalized tokens in s.
func tokenSet(s string) map[string]bool {
	tokens := strings.Fields(Normalize(s))
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
