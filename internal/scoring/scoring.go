// Package scoring computes the relevance of content and candidate items to a
// job profile. Scoring is deterministic and side-effect-free; the same
// multi-factor function serves both scraped content and generated questions.
package scoring

import (
	"sort"
	"strings"

	"github.com/jonathan/jd-agent/internal/similarity"
	"github.com/jonathan/jd-agent/internal/types"
)

// Weights and thresholds for the scoring components.
const (
	roleWeight      = 0.4
	titleRatioShare = 0.6
	bodyRatioShare  = 0.4

	skillWeight = 0.2 // per matched skill, summed

	keywordBonus = 0.1 // per domain keyword found
	sourceBonus  = 0.1 // credible source

	longPageWordCount = 3000
	longPageScoreBar  = 0.5
	longPagePenalty   = 0.2
)

// Input is the scorable view of an item: a title, the main text, and a
// source label.
type Input struct {
	Title  string
	Body   string
	Source string
}

// Score maps an item and a job profile to a relevance score in [0, 1].
// Components accumulate in a fixed order and the result is clamped only at
// the end: fuzzy role match, per-skill matches, domain keyword bonuses,
// source credibility, and a penalty for long low-signal pages.
func Score(in Input, profile types.JobProfile) float64 {
	score := 0.0

	titleRatio := float64(similarity.TokenSetRatio(profile.Role, in.Title)) / 100
	bodyRatio := float64(similarity.TokenSetRatio(profile.Role, in.Body)) / 100
	score += roleWeight * (titleRatioShare*titleRatio + bodyRatioShare*bodyRatio)

	for _, skill := range profile.Skills {
		score += skillWeight * float64(similarity.TokenSetRatio(skill, in.Body)) / 100
	}

	text := strings.ToLower(in.Body)
	for _, keyword := range interviewKeywords {
		if strings.Contains(text, keyword) {
			score += keywordBonus
		}
	}

	source := strings.ToLower(in.Source)
	for _, credible := range credibleSources {
		if strings.Contains(source, credible) {
			score += sourceBonus
			break
		}
	}

	if len(strings.Fields(in.Body)) > longPageWordCount && score < longPageScoreBar {
		score -= longPagePenalty
	}

	return clamp(score)
}

// ScoreContent scores a content item in place and returns the score.
func ScoreContent(item *types.ContentItem, profile types.JobProfile) float64 {
	item.RelevanceScore = Score(Input{
		Title:  item.Title,
		Body:   item.Body,
		Source: item.Source,
	}, profile)
	return item.RelevanceScore
}

// ScoreCandidates attaches relevance scores to candidate items and returns
// them sorted descending by score. The sort is stable: ties preserve input
// order. Candidate items expose the question as title and question plus
// answer as body.
func ScoreCandidates(items []types.CandidateItem, profile types.JobProfile) []types.CandidateItem {
	scored := make([]types.CandidateItem, len(items))
	copy(scored, items)

	for i := range scored {
		scored[i].RelevanceScore = Score(Input{
			Title: scored[i].Question,
			Body:  scored[i].Question + " " + scored[i].Answer,
		}, profile)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].RelevanceScore > scored[j].RelevanceScore
	})
	return scored
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
