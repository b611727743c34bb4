// Package cache defines the page cache consumed by the fetcher and provides
// an in-memory implementation for tests and cacheless runs.
package cache

import (
	"context"
	"sync"
	"time"
)

// PageCache is an opaque key/value store keyed by URL. Get returns (nil, nil)
// on a miss. Put overwrites any existing entry (last-writer-wins).
type PageCache interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Put(ctx context.Context, url string, payload []byte) error
}

// DefaultTTL is how long cached pages stay fresh. Zero means cache forever.
const DefaultTTL = 7 * 24 * time.Hour

type memoryEntry struct {
	payload  []byte
	storedAt time.Time
}

// Memory is an in-process PageCache. It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an in-memory cache with the given TTL. A TTL of zero
// keeps entries indefinitely.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload for url, or (nil, nil) when absent or stale.
func (m *Memory) Get(_ context.Context, url string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[url]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && time.Since(entry.storedAt) > m.ttl {
		return nil, nil
	}
	return entry.payload, nil
}

// Put stores payload under url, replacing any existing entry.
func (m *Memory) Put(_ context.Context, url string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[url] = memoryEntry{payload: payload, storedAt: time.Now()}
	return nil
}

// Len returns the number of entries currently stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
