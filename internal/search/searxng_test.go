// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/pkg/types"
)

const sampleSearXNG = `{"results": [
  {"title": "The Go Programming Language", "url": "https://go.dev/", "content": "Build simple systems.", "engine": "bing"},
  {"title": "", "url": "https://untitled.example/"},
  {"title": "Go Packages", "url": "https://pkg.go.dev/", "description": "Discover packages.", "publishedDate": "2026-10-01"}
]}`

func TestSearXNGTriesMirrorsInOrder(t *testing.T) {
	failing, _ := newJSONServer(t, http.StatusInternalServerError, `oops`)
	empty, _ := newJSONServer(t, http.StatusOK, `{"results": []}`)
	working, req := newJSONServer(t, http.StatusOK, sampleSearXNG)

	s := NewSearXNG(http.DefaultClient, "", []string{failing.URL, empty.URL + "/", working.URL})
	rs, err := s.Search(context.Background(), "golang", types.SearchOptions{})
	require.NoError(t, err)

	q := (*req).URL.Query()
	assert.Equal(t, "/search", (*req).URL.Path)
	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "google,bing,duckduckgo", q.Get("engines"))

	assert.Equal(t, NameSearXNG, rs.Provider)
	assert.Equal(t, working.URL, rs.Metadata["instance"])
	require.Len(t, rs.Results, 2, "untitled results are dropped")
	assert.Equal(t, "bing", rs.Results[0].Metadata["engine"])
	assert.Equal(t, working.URL, rs.Results[0].Metadata["instance"])
	assert.Equal(t, "unknown", rs.Results[1].Metadata["engine"])
	assert.Equal(t, "Discover packages.", rs.Results[1].Description)
	assert.InDelta(t, 0.85, rs.Results[1].RelevanceScore, 1e-9)
}

func TestSearXNGSkipsSlowMirror(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	working, _ := newJSONServer(t, http.StatusOK, sampleSearXNG)

	s := NewSearXNG(http.DefaultClient, "", []string{slow.URL, working.URL})
	s.MirrorTimeout = 50 * time.Millisecond

	rs, err := s.Search(context.Background(), "golang", types.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, working.URL, rs.Metadata["instance"])
}

func TestSearXNGAllMirrorsExhausted(t *testing.T) {
	a, _ := newJSONServer(t, http.StatusBadGateway, `bad`)
	b, _ := newJSONServer(t, http.StatusOK, `{"results": []}`)

	s := NewSearXNG(http.DefaultClient, "", []string{a.URL, b.URL})
	_, err := s.Search(context.Background(), "golang", types.SearchOptions{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))
}

func TestSearXNGDefaultInstances(t *testing.T) {
	s := NewSearXNG(http.DefaultClient, "", nil)
	assert.Equal(t, types.DefaultSearXNGInstances, s.Instances())
}
