// Package pipeline orchestrates the mining run: fetch seed content, score
// and rank it, compress it into grounding context, generate questions, and
// refine them through deduplication, re-scoring, and enhancement.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-agent/internal/compress"
	"github.com/jonathan/jd-agent/internal/dedup"
	"github.com/jonathan/jd-agent/internal/enhance"
	"github.com/jonathan/jd-agent/internal/fetch"
	"github.com/jonathan/jd-agent/internal/llm"
	"github.com/jonathan/jd-agent/internal/observability"
	"github.com/jonathan/jd-agent/internal/scoring"
	"github.com/jonathan/jd-agent/internal/types"
)

// MaxRetainedContent caps how many scored content items feed compression and
// persistence.
const MaxRetainedContent = 20

// ResultSink receives the retained content items, one row per item.
type ResultSink interface {
	InsertSearchResult(ctx context.Context, role, company string, item types.ContentItem) error
}

// Options holds configuration for a mining run.
type Options struct {
	Profile types.JobProfile

	// Fetcher retrieves seed URLs. Required.
	Fetcher *fetch.Fetcher
	// Client generates and enhances questions. Optional; when nil the run
	// stops after compression.
	Client llm.Client
	// Store persists retained content items. Optional.
	Store ResultSink

	// SeedURLs overrides the built-in source list when non-empty.
	SeedURLs []string
	// SearchURLTemplate, when set, adds search-result pages for the profile's
	// queries to the fetch list. Must contain %s for the escaped query.
	SearchURLTemplate string
	// UseBrowser enables the rendered-fetch fallback for script-driven pages.
	UseBrowser bool
	Verbose    bool

	// MinRelevance is the score floor for retained content. Zero uses the
	// compressor default.
	MinRelevance float64
	// DedupThreshold is the near-duplicate similarity bar. Zero uses the
	// default.
	DedupThreshold int
	// QuestionsPerDifficulty is the batch size per difficulty level.
	QuestionsPerDifficulty int
	// EnhanceWorkers bounds concurrent enhancement calls.
	EnhanceWorkers int
}

// Result is the output of one mining run.
type Result struct {
	Content     []types.ContentItem
	Compression types.CompressionResult
	Questions   []types.CandidateItem
}

// Mine runs the mining pipeline end to end. Fetch failures degrade to
// missing items and generation failures degrade to smaller question sets;
// only an unusable configuration returns an error.
func Mine(ctx context.Context, opts Options) (*Result, error) {
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}

	printer := observability.NewPrinter(os.Stdout)
	if opts.Verbose {
		printer.PrintJobProfile(&opts.Profile)
	}

	minRelevance := opts.MinRelevance
	if minRelevance == 0 {
		minRelevance = compress.DefaultMinRelevance
	}
	threshold := opts.DedupThreshold
	if threshold == 0 {
		threshold = dedup.DefaultThreshold
	}

	seeds := opts.SeedURLs
	if len(seeds) == 0 {
		seeds = append(fetch.DirectSourceURLs(), fetch.RoleSourceURLs(opts.Profile)...)
	}
	if opts.SearchURLTemplate != "" {
		seeds = append(seeds, fetch.SearchURLs(opts.SearchURLTemplate, opts.Profile)...)
	}

	fmt.Printf("Step 1/6: Fetching %d sources...\n", len(seeds))
	content := fetchAll(ctx, opts, seeds)

	fmt.Printf("Step 2/6: Scoring %d content items...\n", len(content))
	retained := rankContent(content, opts.Profile, minRelevance)
	if opts.Verbose {
		printer.PrintTopContent(retained)
	}

	if opts.Store != nil {
		// Persistence is append-only and best-effort; a bad row never stops
		// the rest of the batch.
		for _, item := range retained {
			if err := opts.Store.InsertSearchResult(ctx, opts.Profile.Role, opts.Profile.Company, item); err != nil {
				fmt.Printf("Warning: failed to persist result %s: %v\n", item.URL, err)
			}
		}
	}

	fmt.Printf("Step 3/6: Compressing context...\n")
	compressor := compress.DefaultCompressor()
	compressor.MinRelevance = minRelevance
	compression := compressor.Compress(retained)
	if opts.Verbose {
		printer.PrintCompression(compression)
	}

	result := &Result{Content: retained, Compression: compression}
	if opts.Client == nil {
		return result, nil
	}

	fmt.Printf("Step 4/6: Generating questions...\n")
	var candidates []types.CandidateItem
	for _, difficulty := range types.Difficulties() {
		batch, err := llm.GenerateQuestions(ctx, opts.Client, opts.Profile, compression.Text, difficulty, opts.QuestionsPerDifficulty)
		if err != nil {
			fmt.Printf("Warning: %s question generation failed: %v\n", difficulty, err)
			continue
		}
		candidates = append(candidates, batch...)
	}

	fmt.Printf("Step 5/6: Deduplicating and re-scoring %d questions...\n", len(candidates))
	candidates = dedup.Deduplicate(candidates, threshold)
	candidates = scoring.ScoreCandidates(candidates, opts.Profile)

	fmt.Printf("Step 6/6: Enhancing answers...\n")
	pool := &enhance.Pool{Client: opts.Client, Workers: opts.EnhanceWorkers}
	result.Questions = pool.Run(ctx, candidates, retained)
	if opts.Verbose {
		printer.PrintQuestionStats(result.Questions)
	}

	return result, nil
}

// fetchAll fans out over the seed URLs. Each seed is fetched lightweight
// first; when the browser is enabled, pages that come back absent or too
// thin to be real content are retried with the rendered strategy.
func fetchAll(ctx context.Context, opts Options, seeds []string) []types.ContentItem {
	var mu sync.Mutex
	var content []types.ContentItem

	g, gCtx := errgroup.WithContext(ctx)
	for _, seed := range seeds {
		g.Go(func() error {
			item := opts.Fetcher.TryFetch(gCtx, seed, fetch.StrategyLight)

			if opts.UseBrowser && (item == nil || fetch.NeedsRendering(item.Body)) {
				if rendered := opts.Fetcher.TryFetch(gCtx, seed, fetch.StrategyRendered); rendered != nil {
					item = rendered
				}
			}
			if item == nil {
				return nil
			}

			mu.Lock()
			content = append(content, *item)
			mu.Unlock()
			return nil
		})
	}

	// Fetch failures are absorbed per seed.
	_ = g.Wait()
	return content
}

// rankContent scores items against the profile, drops those under the floor,
// and keeps the best MaxRetainedContent in descending score order.
func rankContent(content []types.ContentItem, profile types.JobProfile, minRelevance float64) []types.ContentItem {
	retained := make([]types.ContentItem, 0, len(content))
	for i := range content {
		scoring.ScoreContent(&content[i], profile)
		if content[i].RelevanceScore >= minRelevance {
			retained = append(retained, content[i])
		}
	}

	sort.SliceStable(retained, func(i, j int) bool {
		return retained[i].RelevanceScore > retained[j].RelevanceScore
	})
	if len(retained) > MaxRetainedContent {
		retained = retained[:MaxRetainedContent]
	}
	return retained
}
