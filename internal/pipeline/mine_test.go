package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-agent/internal/cache"
	"github.com/jonathan/jd-agent/internal/fetch"
	"github.com/jonathan/jd-agent/internal/llm"
	"github.com/jonathan/jd-agent/internal/types"
)

const minedPage = `<html>
<head><title>Data Scientist Interview Questions</title></head>
<body>
  <p>Data scientist interview question practice covering python and sql
  problem solving, coding exercises, and preparation tips.</p>
</body>
</html>`

// scriptedClient serves one fixed question batch per difficulty and a fixed
// enhancement answer.
type scriptedClient struct{}

func (scriptedClient) GenerateJSON(context.Context, string, llm.ModelTier) (string, error) {
	return `{
		"questions": [
			{"question": "What is Python?", "answer": "A language.", "category": "Technical", "skills": ["Python"]},
			{"question": "What is Python?", "answer": "Duplicate.", "category": "Technical", "skills": ["Python"]},
			{"question": "Explain SQL joins", "answer": "They combine rows.", "category": "Technical", "skills": ["SQL"]}
		]
	}`, nil
}

func (scriptedClient) GenerateContent(context.Context, string, llm.ModelTier) (string, error) {
	return "enhanced answer", nil
}

func (scriptedClient) Close() error { return nil }

func miningProfile() types.JobProfile {
	return types.JobProfile{
		Role:            "Data Scientist",
		Company:         "Acme",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 3,
	}
}

func newTestFetcher(t *testing.T) *fetch.Fetcher {
	t.Helper()
	opts := fetch.DefaultOptions()
	opts.RatePerSecond = 1000
	fetcher := fetch.New(cache.NewMemory(0), opts)
	t.Cleanup(func() { _ = fetcher.Close() })
	return fetcher
}

func TestMine_EndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(minedPage))
	}))
	defer server.Close()

	result, err := Mine(context.Background(), Options{
		Profile: miningProfile(),
		Fetcher: newTestFetcher(t),
		Client:  scriptedClient{},
		SeedURLs: []string{
			server.URL + "/a",
			server.URL + "/b",
			server.URL + "/missing",
		},
	})
	require.NoError(t, err)

	// The 404 seed degrades to absence; the two good pages survive scoring.
	require.Len(t, result.Content, 2)
	for _, item := range result.Content {
		assert.GreaterOrEqual(t, item.RelevanceScore, 0.3)
		assert.Equal(t, "Data Scientist Interview Questions", item.Title)
	}

	assert.Equal(t, 2, result.Compression.AcceptedCount)
	assert.Contains(t, result.Compression.Text, "Source 1: ")

	// Per difficulty: the verbatim duplicate collapses, two questions
	// survive; the same pair appears at each of the three difficulties.
	require.Len(t, result.Questions, 6)
	for _, q := range result.Questions {
		assert.Equal(t, "enhanced answer", q.Answer)
		assert.Greater(t, q.RelevanceScore, 0.0)
	}
	for i := 1; i < len(result.Questions); i++ {
		assert.GreaterOrEqual(t, result.Questions[i-1].RelevanceScore, result.Questions[i].RelevanceScore)
	}
}

func TestMine_NoClientStopsAfterCompression(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(minedPage))
	}))
	defer server.Close()

	result, err := Mine(context.Background(), Options{
		Profile:  miningProfile(),
		Fetcher:  newTestFetcher(t),
		SeedURLs: []string{server.URL},
	})
	require.NoError(t, err)

	assert.Len(t, result.Content, 1)
	assert.NotEmpty(t, result.Compression.Text)
	assert.Empty(t, result.Questions)
}

// flakySink fails every other insert and records the URLs it saw.
type flakySink struct {
	mu   sync.Mutex
	seen []string
}

func (s *flakySink) InsertSearchResult(_ context.Context, _, _ string, item types.ContentItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, item.URL)
	if len(s.seen)%2 == 1 {
		return fmt.Errorf("insert failed")
	}
	return nil
}

func TestMine_PersistenceFailureDoesNotStopBatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(minedPage))
	}))
	defer server.Close()

	sink := &flakySink{}
	result, err := Mine(context.Background(), Options{
		Profile: miningProfile(),
		Fetcher: newTestFetcher(t),
		Store:   sink,
		SeedURLs: []string{
			server.URL + "/a",
			server.URL + "/b",
			server.URL + "/c",
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Content, 3)

	// The first insert fails; the remaining items are still attempted.
	assert.Len(t, sink.seen, 3)
}

func TestMine_SearchTemplateExpandsQueries(t *testing.T) {
	var mu sync.Mutex
	searchHits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			mu.Lock()
			searchHits++
			mu.Unlock()
		}
		_, _ = w.Write([]byte(minedPage))
	}))
	defer server.Close()

	profile := miningProfile()
	_, err := Mine(context.Background(), Options{
		Profile:           profile,
		Fetcher:           newTestFetcher(t),
		SeedURLs:          []string{server.URL + "/page"},
		SearchURLTemplate: server.URL + "/search?q=%s",
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, len(fetch.BuildSearchQueries(profile)), searchHits)
}

func TestMine_RequiresFetcher(t *testing.T) {
	_, err := Mine(context.Background(), Options{Profile: miningProfile()})
	assert.Error(t, err)
}

func TestRankContent_FiltersSortsAndCaps(t *testing.T) {
	profile := miningProfile()
	items := make([]types.ContentItem, 0, 30)
	for i := 0; i < 25; i++ {
		items = append(items, types.ContentItem{
			Title:  "Data Scientist Interview Questions",
			Body:   "data scientist python sql interview question practice",
			Source: "GitHub",
		})
	}
	items = append(items, types.ContentItem{Title: "Gardening", Body: "soil"})

	retained := rankContent(items, profile, 0.3)
	assert.Len(t, retained, MaxRetainedContent)
	for i := 1; i < len(retained); i++ {
		assert.GreaterOrEqual(t, retained[i-1].RelevanceScore, retained[i].RelevanceScore)
	}
}
