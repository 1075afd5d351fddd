// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pdiddy/websearch/pkg/types"
)

// --- fakes shared across provider and orchestrator tests ---

type fakeProvider struct {
	name string

	mu      sync.Mutex
	calls   int
	results []*types.ResultSet
	errs    []error
}

func (f *fakeProvider) Name() string { return f.name }

// Search returns the configured outcome for the current call, repeating the
// last one once the list runs out.
func (f *fakeProvider) Search(_ context.Context, _ string, _ types.SearchOptions) (*types.ResultSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++

	var err error
	if len(f.errs) > 0 {
		err = f.errs[min(i, len(f.errs)-1)]
	}
	if err != nil {
		return nil, err
	}
	if len(f.results) == 0 {
		return &types.ResultSet{Results: []types.SearchResult{}, Provider: f.name}, nil
	}
	return f.results[min(i, len(f.results)-1)], nil
}

func (f *fakeProvider) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func resultSet(provider string, n int) *types.ResultSet {
	rs := &types.ResultSet{Provider: provider}
	for i := 0; i < n; i++ {
		rs.Results = append(rs.Results, types.SearchResult{
			Title:          fmt.Sprintf("%s result %d", provider, i+1),
			URL:            fmt.Sprintf("https://example.com/%s/%d", provider, i+1),
			Source:         provider,
			Type:           types.TypeWebResult,
			RelevanceScore: decayScore(0.9, 0.05, i),
		})
	}
	rs.Total = n
	return rs
}

type countingClassifier struct {
	intent types.Intent
	calls  int
}

func (c *countingClassifier) Classify(string) types.Intent {
	c.calls++
	return c.intent
}

// newJSONServer serves body with status for every request and records the
// last request seen.
func newJSONServer(t *testing.T, status int, body string) (*httptest.Server, **http.Request) {
	t.Helper()
	var captured *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts, &captured
}

// newStallingServer holds every request for d or until the client gives up.
func newStallingServer(t *testing.T, d time.Duration) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stall(r, d)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func stall(r *http.Request, d time.Duration) {
	select {
	case <-time.After(d):
	case <-r.Context().Done():
	}
}
