// Package fetch retrieves and normalizes web content for the mining pipeline.
// It centralizes the two fetch strategies, cache-first lookup, and
// HTML-to-text processing.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/jonathan/jd-agent/internal/cache"
	"github.com/jonathan/jd-agent/internal/throttle"
	"github.com/jonathan/jd-agent/internal/types"
)

// Strategy selects how a URL is fetched.
type Strategy string

// Fetch strategies
const (
	// StrategyLight is a direct HTTP request through the shared pool and throttle.
	StrategyLight Strategy = "light"
	// StrategyRendered opens the page in a shared headless browser context.
	StrategyRendered Strategy = "rendered"
)

// Defaults for the fetcher configuration.
const (
	DefaultTimeout         = 10 * time.Second
	DefaultNavTimeout      = 30 * time.Second
	DefaultSettleDelay     = 2 * time.Second
	DefaultMaxConns        = 10
	DefaultMaxConnsPerHost = 5
	DefaultRatePerSecond   = 2.0
	DefaultUserAgent       = "Mozilla/5.0 (compatible; JDAgent/1.0)"
)

// cacheSchemaVersion tags serialized cache payloads. Entries with a different
// version are treated as misses.
const cacheSchemaVersion = 1

// cacheEnvelope is the versioned serialized form of a cached content item.
type cacheEnvelope struct {
	Version int               `json:"v"`
	Item    types.ContentItem `json:"item"`
}

// Error represents a failure during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures fetch behavior.
type Options struct {
	Timeout         time.Duration // total timeout per lightweight request
	NavTimeout      time.Duration // per-navigation timeout for rendered fetches
	SettleDelay     time.Duration // post-navigation wait for scripts to render
	RetryDelays     []time.Duration
	MaxConns        int
	MaxConnsPerHost int
	RatePerSecond   float64
	UserAgent       string
	Navigator       Navigator // optional; a shared browser is created on demand when nil
}

// DefaultOptions returns the fetcher defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:         DefaultTimeout,
		NavTimeout:      DefaultNavTimeout,
		SettleDelay:     DefaultSettleDelay,
		RetryDelays:     DefaultRetryDelays(),
		MaxConns:        DefaultMaxConns,
		MaxConnsPerHost: DefaultMaxConnsPerHost,
		RatePerSecond:   DefaultRatePerSecond,
		UserAgent:       DefaultUserAgent,
	}
}

// DefaultRetryDelays is the backoff table for rendered fetches.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 3 * time.Second, 7 * time.Second}
}

// Fetcher retrieves single URLs cache-first. Both strategies share one
// connection pool, one rate limiter, and (for rendered fetches) one browser
// context. Safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	pages   cache.PageCache
	limiter *throttle.Limiter
	conns   *semaphore.Weighted
	opts    *Options

	navMu sync.Mutex
	nav   Navigator
}

// New creates a Fetcher backed by the given page cache. A nil cache disables
// caching entirely. The caller's Options value is not modified.
func New(pages cache.PageCache, opts *Options) *Fetcher {
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.NavTimeout == 0 {
		o.NavTimeout = DefaultNavTimeout
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if len(o.RetryDelays) == 0 {
		o.RetryDelays = DefaultRetryDelays()
	}
	if o.MaxConns == 0 {
		o.MaxConns = DefaultMaxConns
	}
	if o.MaxConnsPerHost == 0 {
		o.MaxConnsPerHost = DefaultMaxConnsPerHost
	}
	if o.RatePerSecond == 0 {
		o.RatePerSecond = DefaultRatePerSecond
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}

	transport := &http.Transport{
		MaxConnsPerHost:     o.MaxConnsPerHost,
		MaxIdleConns:        o.MaxConns,
		MaxIdleConnsPerHost: o.MaxConnsPerHost,
	}

	return &Fetcher{
		client: &http.Client{
			Timeout:   o.Timeout,
			Transport: transport,
		},
		pages:   pages,
		limiter: throttle.NewLimiter(o.RatePerSecond, 1),
		conns:   semaphore.NewWeighted(int64(o.MaxConns)),
		opts:    &o,
		nav:     o.Navigator,
	}
}

// Fetch retrieves a single URL with the given strategy, cache-first. On a
// cache hit the stored item is returned without any network activity. On a
// miss the live result is cached before returning. Every failure mode
// returns a non-nil error and no item; the caller never sees a partial item.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string, strategy Strategy) (*types.ContentItem, error) {
	if item := f.fromCache(ctx, urlStr); item != nil {
		return item, nil
	}

	var item *types.ContentItem
	var err error
	switch strategy {
	case StrategyRendered:
		item, err = f.fetchRendered(ctx, urlStr)
	default:
		item, err = f.fetchLight(ctx, urlStr)
	}
	if err != nil {
		return nil, err
	}

	f.toCache(ctx, urlStr, item)
	return item, nil
}

// TryFetch is Fetch with failure converted to absence: errors are logged
// with the URL and cause, and nil is returned.
func (f *Fetcher) TryFetch(ctx context.Context, urlStr string, strategy Strategy) *types.ContentItem {
	item, err := f.Fetch(ctx, urlStr, strategy)
	if err != nil {
		log.Printf("[FETCH] %s fetch failed for %s: %v", strategy, urlStr, err)
		return nil
	}
	return item
}

// Close releases the shared browser context, if one was created.
func (f *Fetcher) Close() error {
	f.navMu.Lock()
	defer f.navMu.Unlock()
	if f.nav != nil {
		return f.nav.Close()
	}
	return nil
}

// fetchLight performs a direct HTTP request through the shared pool,
// throttled by the process-wide token bucket and bounded by the total
// connection semaphore. No retries: a timeout or non-success status is final.
func (f *Fetcher) fetchLight(ctx context.Context, urlStr string) (*types.ContentItem, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &Error{URL: urlStr, Message: "throttle wait canceled", Cause: err}
	}

	// The per-host cap lives on the transport; the total in-flight cap is
	// enforced here, spanning the request and body read.
	if err := f.conns.Acquire(ctx, 1); err != nil {
		return nil, &Error{URL: urlStr, Message: "connection slot wait canceled", Cause: err}
	}
	defer f.conns.Release(1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	return Normalize(urlStr, string(body))
}

// fetchRendered opens the page in the shared browser context. Each attempt
// gets its own navigation timeout plus a settle delay; failures retry over
// the delay table before converging to absence.
func (f *Fetcher) fetchRendered(ctx context.Context, urlStr string) (*types.ContentItem, error) {
	nav, err := f.navigator(ctx)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "browser unavailable", Cause: err}
	}

	var lastErr error
	for attempt, delay := range f.opts.RetryDelays {
		navCtx, cancel := context.WithTimeout(ctx, f.opts.NavTimeout)
		html, navErr := nav.Navigate(navCtx, urlStr)
		cancel()

		if navErr == nil {
			return Normalize(urlStr, html)
		}
		lastErr = navErr
		log.Printf("[FETCH] rendered attempt %d/%d failed for %s: %v",
			attempt+1, len(f.opts.RetryDelays), urlStr, navErr)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &Error{URL: urlStr, Message: "rendered fetch canceled", Cause: ctx.Err()}
		case <-timer.C:
		}
	}

	return nil, &Error{
		URL:     urlStr,
		Message: fmt.Sprintf("all %d rendered attempts failed", len(f.opts.RetryDelays)),
		Cause:   lastErr,
	}
}

// navigator returns the configured Navigator, creating the shared browser
// on first use.
func (f *Fetcher) navigator(ctx context.Context) (Navigator, error) {
	f.navMu.Lock()
	defer f.navMu.Unlock()

	if f.nav != nil {
		return f.nav, nil
	}
	browser, err := NewBrowser(ctx, f.opts.SettleDelay)
	if err != nil {
		return nil, err
	}
	f.nav = browser
	return browser, nil
}

// fromCache returns the cached item for urlStr, treating every failure
// (store error, bad payload, version mismatch) as a miss.
func (f *Fetcher) fromCache(ctx context.Context, urlStr string) *types.ContentItem {
	if f.pages == nil {
		return nil
	}

	payload, err := f.pages.Get(ctx, urlStr)
	if err != nil || payload == nil {
		return nil
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Version != cacheSchemaVersion {
		return nil
	}
	return &envelope.Item
}

// toCache stores item keyed by its URL, best-effort.
func (f *Fetcher) toCache(ctx context.Context, urlStr string, item *types.ContentItem) {
	if f.pages == nil || item == nil {
		return
	}

	payload, err := json.Marshal(cacheEnvelope{Version: cacheSchemaVersion, Item: *item})
	if err != nil {
		return
	}
	if err := f.pages.Put(ctx, urlStr, payload); err != nil {
		log.Printf("[FETCH] cache write failed for %s: %v", urlStr, err)
	}
}
