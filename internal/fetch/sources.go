// Package fetch - sources.go holds the curated seed URLs and search query
// construction used to initialize a mining run.
package fetch

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonathan/jd-agent/internal/types"
)

// DirectSourceURLs returns the curated interview-resource URLs scraped on
// every run, independent of the job profile.
func DirectSourceURLs() []string {
	return []string{
		"https://github.com/topics/data-science-interview",
		"https://github.com/topics/machine-learning-interview",
		"https://github.com/topics/python-interview",
		"https://github.com/topics/sql-interview",
		"https://leetcode.com/problemset/all/",
		"https://www.hackerrank.com/domains",
		"https://www.geeksforgeeks.org/data-science-interview-questions/",
		"https://www.geeksforgeeks.org/machine-learning-interview-questions/",
		"https://www.geeksforgeeks.org/python-interview-questions/",
		"https://www.w3schools.com/python/",
		"https://www.w3schools.com/sql/",
	}
}

// RoleSourceURLs returns question-bank URLs derived from the profile's role,
// following the common "<role>-interview-questions" path convention. Pages
// that do not exist simply come back absent.
func RoleSourceURLs(profile types.JobProfile) []string {
	slug := strings.ToLower(strings.Join(strings.Fields(profile.Role), "-"))
	if slug == "" {
		return nil
	}
	return []string{
		fmt.Sprintf("https://www.geeksforgeeks.org/%s-interview-questions/", slug),
		fmt.Sprintf("https://www.interviewbit.com/%s-interview-questions/", slug),
		fmt.Sprintf("https://www.tutorialspoint.com/%s-interview-questions/", slug),
	}
}

// SearchURLs expands the profile's search queries against an HTML search
// front-end. template must contain a single %s, which receives the escaped
// query, e.g. "https://html.duckduckgo.com/html/?q=%s".
func SearchURLs(template string, profile types.JobProfile) []string {
	if !strings.Contains(template, "%s") {
		return nil
	}
	queries := BuildSearchQueries(profile)
	urls := make([]string, 0, len(queries))
	for _, q := range queries {
		urls = append(urls, fmt.Sprintf(template, url.QueryEscape(q)))
	}
	return urls
}

// searchDomains are the site-restricted targets for profile-driven queries.
var searchDomains = []string{
	"github.com",
	"medium.com",
	"reddit.com",
	"leetcode.com",
	"geeksforgeeks.org",
}

// maxSearchQueries bounds the query list per run.
const maxSearchQueries = 10

// BuildSearchQueries produces role- and skill-specific search queries for a
// job profile, deduplicated and capped at maxSearchQueries.
func BuildSearchQueries(profile types.JobProfile) []string {
	queries := []string{
		fmt.Sprintf("%q interview questions", profile.Role),
		fmt.Sprintf("%q technical interview", profile.Role),
		fmt.Sprintf("%q coding interview questions", profile.Role),
	}

	skills := profile.Skills
	if len(skills) > 3 {
		skills = skills[:3]
	}
	for _, skill := range skills {
		queries = append(queries,
			fmt.Sprintf("%q interview questions", skill),
			fmt.Sprintf("%q technical interview", skill),
		)
	}

	for _, domain := range searchDomains {
		queries = append(queries, fmt.Sprintf("site:%s %q interview questions", domain, profile.Role))
	}

	seen := make(map[string]bool, len(queries))
	unique := queries[:0]
	for _, q := range queries {
		key := strings.ToLower(q)
		if !seen[key] {
			seen[key] = true
			unique = append(unique, q)
		}
	}

	if len(unique) > maxSearchQueries {
		unique = unique[:maxSearchQueries]
	}
	return unique
}
