// Package db provides PostgreSQL persistence: the durable page cache used by
// the fetcher and the append-only sink for retained search results.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/jd-agent/internal/cache"
	"github.com/jonathan/jd-agent/internal/types"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables this store uses if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS page_cache (
			url TEXT PRIMARY KEY,
			payload BYTEA NOT NULL,
			stored_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS search_results (
			id UUID PRIMARY KEY,
			role TEXT NOT NULL,
			company TEXT NOT NULL,
			url TEXT NOT NULL,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			source TEXT NOT NULL,
			relevance_score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// InsertSearchResult appends one retained content item to the search_results
// sink. Rows are never updated or deleted by this core.
func (s *Store) InsertSearchResult(ctx context.Context, role, company string, item types.ContentItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO search_results (id, role, company, url, title, body, source, relevance_score)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), role, company, item.URL, item.Title, item.Body, item.Source, item.RelevanceScore,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search result for %s: %w", item.URL, err)
	}
	return nil
}

// PageCache returns a cache.PageCache view over the page_cache table. A TTL
// of zero keeps entries indefinitely.
func (s *Store) PageCache(ttl time.Duration) *PageCache {
	return &PageCache{pool: s.pool, ttl: ttl}
}

// PageCache is the durable page cache backed by the page_cache table.
type PageCache struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

var _ cache.PageCache = (*PageCache)(nil)

// Get returns the cached payload for a URL, or (nil, nil) when the URL is
// absent or the entry has outlived the TTL.
func (c *PageCache) Get(ctx context.Context, url string) ([]byte, error) {
	var payload []byte
	var storedAt time.Time
	err := c.pool.QueryRow(ctx,
		`SELECT payload, stored_at FROM page_cache WHERE url = $1`,
		url,
	).Scan(&payload, &storedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached page %s: %w", url, err)
	}

	if c.ttl > 0 && time.Since(storedAt) > c.ttl {
		return nil, nil
	}
	return payload, nil
}

// Put stores or replaces the payload for a URL (last-writer-wins).
func (c *PageCache) Put(ctx context.Context, url string, payload []byte) error {
	_, err := c.pool.Exec(ctx,
		`INSERT INTO page_cache (url, payload, stored_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (url) DO UPDATE SET payload = $2, stored_at = NOW()`,
		url, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to cache page %s: %w", url, err)
	}
	return nil
}
