// Package fetch - browser.go provides the rendered fetch strategy backed by
// a shared headless browser context.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// MinContentLength is the minimum extracted text length to consider a
// lightweight fetch sufficient. Shorter results suggest a script-driven page
// that needs the rendered strategy.
const MinContentLength = 500

// NeedsRendering reports whether extracted text is too short to be the real
// page content.
func NeedsRendering(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Navigator opens pages and returns their rendered HTML. Implementations
// share one long-lived browsing context across navigations.
type Navigator interface {
	Navigate(ctx context.Context, url string) (html string, err error)
	Close() error
}

// Browser is the chromedp-backed Navigator. One Browser holds a single
// headless Chrome instance; each Navigate opens a fresh tab in it.
// Requires Chrome/Chromium to be installed on the system.
type Browser struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	settle        time.Duration
}

// NewBrowser launches the shared headless browser.
func NewBrowser(ctx context.Context, settle time.Duration) (*Browser, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so failures surface here rather than
	// on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Browser{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		settle:        settle,
	}, nil
}

// Navigate opens url in a new tab of the shared browser, waits for the body
// plus the settle delay, and returns the rendered HTML. The caller's context
// deadline bounds the navigation.
func (b *Browser) Navigate(ctx context.Context, url string) (string, error) {
	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		tabCtx, cancelDeadline = context.WithDeadline(tabCtx, deadline)
		defer cancelDeadline()
	}

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	return html, nil
}

// Close shuts down the shared browser.
func (b *Browser) Close() error {
	b.browserCancel()
	b.allocCancel()
	return nil
}
