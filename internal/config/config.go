// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Job profile
	Role            string   `json:"role,omitempty"`             // Target role title
	Company         string   `json:"company,omitempty"`          // Target company name
	Skills          []string `json:"skills,omitempty"`           // Key skills for the role
	ExperienceYears int      `json:"experience_years,omitempty"` // Required years of experience

	// Mining
	SeedURLs       []string `json:"seed_urls,omitempty"`       // Override the built-in seed URL list
	SearchURL      string   `json:"search_url,omitempty"`      // HTML search front-end template with %s for the query
	UseBrowser     bool     `json:"use_browser,omitempty"`     // Use headless browser for script-driven sites
	CacheTTLDays   int      `json:"cache_ttl_days,omitempty"`  // Page cache freshness window; 0 uses the default
	MinRelevance   float64  `json:"min_relevance,omitempty"`   // Relevance floor for retained content (0.0-1.0)
	DedupThreshold int      `json:"dedup_threshold,omitempty"` // Near-duplicate similarity threshold (0-100)

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("config error: 'min_relevance' must be between 0.0 and 1.0")
	}
	if c.DedupThreshold < 0 || c.DedupThreshold > 100 {
		return fmt.Errorf("config error: 'dedup_threshold' must be between 0 and 100")
	}
	if c.SearchURL != "" && !strings.Contains(c.SearchURL, "%s") {
		return fmt.Errorf("config error: 'search_url' must contain %%s for the query")
	}
	if c.CacheTTLDays < 0 {
		return fmt.Errorf("config error: 'cache_ttl_days' must be non-negative")
	}
	if c.ExperienceYears < 0 {
		return fmt.Errorf("config error: 'experience_years' must be non-negative")
	}
	return nil
}
