package types

// CompressionResult is the immutable output of one context compression call.
// Text never exceeds the configured character budget beyond a small per-item
// label overhead.
type CompressionResult struct {
	Text               string   `json:"text"`
	OriginalCount      int      `json:"original_count"`
	AcceptedCount      int      `json:"accepted_count"`
	EstimatedTokens    int      `json:"estimated_tokens"`
	EffectiveThreshold float64  `json:"effective_threshold"`
	SourcesUsed        []string `json:"sources_used"`
}
