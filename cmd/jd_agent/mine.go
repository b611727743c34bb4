package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-agent/internal/cache"
	"github.com/jonathan/jd-agent/internal/config"
	"github.com/jonathan/jd-agent/internal/db"
	"github.com/jonathan/jd-agent/internal/fetch"
	"github.com/jonathan/jd-agent/internal/llm"
	"github.com/jonathan/jd-agent/internal/pipeline"
	"github.com/jonathan/jd-agent/internal/types"
)

var mineCommand = &cobra.Command{
	Use:   "mine",
	Short: "Mine content and generate interview questions for a role",
	Long: `Fetches interview preparation content from seed sources, ranks it against the job profile, compresses it into grounding context, and generates a deduplicated question set.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runMineCmd,
}

var (
	mineConfigPath     string
	mineRole           string
	mineCompany        string
	mineSkills         []string
	mineExperience     int
	mineSeeds          []string
	mineSearchURL      string
	mineUseBrowser     bool
	mineVerbose        bool
	mineAPIKey         string
	mineDatabaseURL    string
	mineCacheTTLDays   int
	mineMinRelevance   float64
	mineDedupThreshold int
	mineQuestions      int
	mineOutput         string
	mineTimeout        time.Duration
)

func init() {
	// Config file flag (processed first)
	mineCommand.Flags().StringVar(&mineConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	mineCommand.Flags().StringVarP(&mineRole, "role", "r", "", "Target role title")
	mineCommand.Flags().StringVarP(&mineCompany, "company", "c", "", "Target company name")
	mineCommand.Flags().StringSliceVarP(&mineSkills, "skill", "s", nil, "Key skill for the role (repeatable)")
	mineCommand.Flags().IntVar(&mineExperience, "experience-years", 0, "Required years of experience")
	mineCommand.Flags().StringSliceVar(&mineSeeds, "seed", nil, "Seed URL to mine (repeatable, overrides the built-in list)")
	mineCommand.Flags().StringVar(&mineSearchURL, "search-url", "", "HTML search front-end template with %s for the query, e.g. https://html.duckduckgo.com/html/?q=%s")
	mineCommand.Flags().BoolVar(&mineUseBrowser, "use-browser", false, "Use headless browser for script-driven sites (requires Chrome)")
	mineCommand.Flags().BoolVarP(&mineVerbose, "verbose", "v", false, "Print detailed debug information")
	mineCommand.Flags().IntVar(&mineCacheTTLDays, "cache-ttl-days", 0, "Page cache freshness window in days (0 uses the default)")
	mineCommand.Flags().Float64Var(&mineMinRelevance, "min-relevance", 0, "Relevance floor for retained content (0 uses the default)")
	mineCommand.Flags().IntVar(&mineDedupThreshold, "dedup-threshold", 0, "Near-duplicate similarity threshold, 0-100 (0 uses the default)")
	mineCommand.Flags().IntVar(&mineQuestions, "questions", 0, "Questions to generate per difficulty (0 uses the default)")
	mineCommand.Flags().StringVarP(&mineOutput, "output", "o", "", "Write the question set as JSON to this file (default stdout)")
	mineCommand.Flags().DurationVar(&mineTimeout, "timeout", 0, "Wall-clock budget for the whole run (0 means no deadline)")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	mineCommand.Flags().StringVar(&mineAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for the durable page cache and result sink
	mineCommand.Flags().StringVar(&mineDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(mineCommand)
}

// buildMineConfig merges the config file with explicitly set CLI flags and
// environment fallbacks. Flags take priority over the file.
func buildMineConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if mineConfigPath != "" {
		loaded, err := config.LoadConfig(mineConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("role") {
		cfg.Role = mineRole
	}
	if cmd.Flags().Changed("company") {
		cfg.Company = mineCompany
	}
	if cmd.Flags().Changed("skill") {
		cfg.Skills = mineSkills
	}
	if cmd.Flags().Changed("experience-years") {
		cfg.ExperienceYears = mineExperience
	}
	if cmd.Flags().Changed("seed") {
		cfg.SeedURLs = mineSeeds
	}
	if cmd.Flags().Changed("search-url") {
		cfg.SearchURL = mineSearchURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = mineUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = mineVerbose
	}
	if cmd.Flags().Changed("cache-ttl-days") {
		cfg.CacheTTLDays = mineCacheTTLDays
	}
	if cmd.Flags().Changed("min-relevance") {
		cfg.MinRelevance = mineMinRelevance
	}
	if cmd.Flags().Changed("dedup-threshold") {
		cfg.DedupThreshold = mineDedupThreshold
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = mineAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = mineDatabaseURL
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if cfg.Role == "" {
		return cfg, fmt.Errorf("--role is required (via flag or config)")
	}
	return cfg, nil
}

func runMineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	if mineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mineTimeout)
		defer cancel()
	}

	cfg, err := buildMineConfig(cmd)
	if err != nil {
		return err
	}

	// The page cache and result sink are optional: without a database the
	// run uses an in-memory cache and skips persistence.
	var store *db.Store
	var pages cache.PageCache
	ttl := cache.DefaultTTL
	if cfg.CacheTTLDays > 0 {
		ttl = time.Duration(cfg.CacheTTLDays) * 24 * time.Hour
	}
	if cfg.DatabaseURL != "" {
		store, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without persistence...\n")
		} else {
			defer store.Close()
			if err := store.EnsureSchema(ctx); err != nil {
				return err
			}
			pages = store.PageCache(ttl)
		}
	}
	if pages == nil {
		pages = cache.NewMemory(ttl)
	}

	fetcher := fetch.New(pages, fetch.DefaultOptions())
	defer func() { _ = fetcher.Close() }()

	var client llm.Client
	if cfg.APIKey != "" {
		client, err = llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer func() { _ = client.Close() }()
	} else {
		fmt.Printf("Warning: no API key configured; stopping after content compression\n")
	}

	// A typed-nil store must not reach the interface field.
	var sink pipeline.ResultSink
	if store != nil {
		sink = store
	}

	result, err := pipeline.Mine(ctx, pipeline.Options{
		Profile: types.JobProfile{
			Role:            cfg.Role,
			Company:         cfg.Company,
			Skills:          cfg.Skills,
			ExperienceYears: cfg.ExperienceYears,
		},
		Fetcher:           fetcher,
		Client:            client,
		Store:             sink,
		SeedURLs:          cfg.SeedURLs,
		SearchURLTemplate: cfg.SearchURL,
		UseBrowser:        cfg.UseBrowser,
		Verbose:           cfg.Verbose,
		MinRelevance:      cfg.MinRelevance,
		DedupThreshold:    cfg.DedupThreshold,

		QuestionsPerDifficulty: mineQuestions,
	})
	if err != nil {
		return err
	}

	return writeQuestions(result, mineOutput)
}

// writeQuestions emits the final question set as JSON to a file or stdout.
func writeQuestions(result *pipeline.Result, path string) error {
	payload, err := json.MarshalIndent(struct {
		Questions   []types.CandidateItem   `json:"questions"`
		Compression types.CompressionResult `json:"compression"`
	}{result.Questions, result.Compression}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if path == "" {
		fmt.Println(string(payload))
		return nil
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Printf("Wrote %d questions to %s\n", len(result.Questions), path)
	return nil
}
