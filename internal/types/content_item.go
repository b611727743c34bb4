package types

import "time"

// MaxBodyLength caps the normalized body text of a fetched content item.
const MaxBodyLength = 5000

// ContentItem represents a single fetched and normalized unit of web text
// with provenance and a relevance score. Created by the fetcher; scored by
// the scoring engine; owned by the caller once returned.
type ContentItem struct {
	URL            string    `json:"url"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Snippet        string    `json:"snippet,omitempty"`
	Source         string    `json:"source"`
	RelevanceScore float64   `json:"relevance_score"`
	FetchedAt      time.Time `json:"fetched_at"`
}
