// Package enhance enriches generated question answers with grounding
// material from fetched content, fanning work out over a bounded pool.
package enhance

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-agent/internal/llm"
	"github.com/jonathan/jd-agent/internal/types"
)

// DefaultWorkers bounds concurrent enhancement calls.
const DefaultWorkers = 5

// maxContextChars limits how much of a content item's body is handed to the
// model as grounding material.
const maxContextChars = 1000

// minMatchScore is the heuristic relevance floor below which no content is
// considered related to a question.
const minMatchScore = 2

// matchKeywords earn a point each when present in a content body.
var matchKeywords = []string{"interview", "question", "technical", "coding", "programming"}

// Pool runs answer enhancement over a fixed number of workers.
type Pool struct {
	Client  llm.Client
	Workers int
}

// NewPool creates a pool with the default worker count.
func NewPool(client llm.Client) *Pool {
	return &Pool{Client: client, Workers: DefaultWorkers}
}

// Run enhances each item's answer using the most relevant fetched content.
// Input order is preserved. An item with no sufficiently related content, or
// whose enhancement call fails, passes through unmodified; a single failing
// call never fails the batch.
func (p *Pool) Run(ctx context.Context, items []types.CandidateItem, content []types.ContentItem) []types.CandidateItem {
	out := make([]types.CandidateItem, len(items))
	copy(out, items)

	workers := p.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range out {
		g.Go(func() error {
			grounding := findRelevantContent(out[i], content)
			if grounding == "" {
				return nil
			}

			enhanced, err := llm.EnhanceQuestion(gCtx, p.Client, out[i], grounding)
			if err != nil {
				log.Printf("enhancement failed for %q: %v", out[i].Question, err)
				return nil
			}
			out[i] = enhanced
			return nil
		})
	}

	// Workers only ever return nil.
	_ = g.Wait()
	return out
}

// findRelevantContent picks the single best content body for a question by a
// cheap keyword heuristic: two points per matched skill, one per domain
// keyword, one when any of the question's leading words appears.
func findRelevantContent(item types.CandidateItem, content []types.ContentItem) string {
	questionWords := strings.Fields(strings.ToLower(item.Question))
	if len(questionWords) > 5 {
		questionWords = questionWords[:5]
	}

	best := ""
	bestScore := 0
	for _, c := range content {
		body := strings.ToLower(c.Body)
		title := strings.ToLower(c.Title)

		score := 0
		for _, skill := range item.Skills {
			skill = strings.ToLower(skill)
			if strings.Contains(body, skill) || strings.Contains(title, skill) {
				score += 2
			}
		}
		for _, keyword := range matchKeywords {
			if strings.Contains(body, keyword) {
				score++
			}
		}
		for _, word := range questionWords {
			if strings.Contains(body, word) {
				score++
				break
			}
		}

		if score > bestScore {
			bestScore = score
			best = c.Body
		}
	}

	if bestScore < minMatchScore {
		return ""
	}
	if runes := []rune(best); len(runes) > maxContextChars {
		best = string(runes[:maxContextChars])
	}
	return best
}
