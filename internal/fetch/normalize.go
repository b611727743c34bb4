// Package fetch - normalize.go turns raw HTML into a normalized ContentItem.
package fetch

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jd-agent/internal/types"
)

// noiseSelector matches the non-content markup stripped before text
// extraction.
const noiseSelector = "script, style, nav, footer, header, noscript"

// sourceLabels maps well-known domains to short source labels. Unknown
// domains fall back to the raw host.
var sourceLabels = []struct {
	domain string
	label  string
}{
	{"github.com", "GitHub"},
	{"medium.com", "Medium"},
	{"reddit.com", "Reddit"},
	{"leetcode.com", "LeetCode"},
	{"hackerrank.com", "HackerRank"},
	{"stratascratch.com", "StrataScratch"},
	{"geeksforgeeks.org", "GeeksforGeeks"},
	{"w3schools.com", "W3Schools"},
	{"kaggle.com", "Kaggle"},
}

// Normalize parses html and builds a ContentItem: noise elements removed,
// whitespace collapsed, title extracted (falling back to "No Title"), body
// capped at types.MaxBodyLength, and the source label derived from the URL.
func Normalize(urlStr, html string) (*types.ContentItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(noiseSelector).Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No Title"
	}

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}
	body := strings.Join(strings.Fields(text), " ")
	if runes := []rune(body); len(runes) > types.MaxBodyLength {
		body = string(runes[:types.MaxBodyLength])
	}

	return &types.ContentItem{
		URL:       urlStr,
		Title:     title,
		Body:      body,
		Source:    SourceLabel(urlStr),
		FetchedAt: time.Now(),
	}, nil
}

// SourceLabel derives a short source label from a URL's domain via the
// static lookup table, falling back to the raw host.
func SourceLabel(urlStr string) string {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Host == "" {
		return urlStr
	}

	host := strings.ToLower(parsed.Host)
	for _, entry := range sourceLabels {
		if strings.Contains(host, entry.domain) {
			return entry.label
		}
	}
	return host
}
