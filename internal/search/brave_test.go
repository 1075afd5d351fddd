// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/pkg/types"
)

const sampleBraveWeb = `{
  "web": {"results": [
    {"title": "The Go Programming Language", "url": "https://go.dev/", "description": "Build simple, secure systems.", "age": "2 days ago", "language": "en", "family_friendly": true},
    {"title": "Go (programming language)", "url": "https://en.wikipedia.org/wiki/Go_(programming_language)", "description": "Go is a statically typed language."},
    {"title": "A Tour of Go", "url": "https://go.dev/tour/", "description": "Welcome to a tour."},
    {"title": "Effective Go", "url": "https://go.dev/doc/effective_go", "description": "Tips for writing clear Go."}
  ]}
}`

func TestBraveWebSearch(t *testing.T) {
	ts, req := newJSONServer(t, http.StatusOK, sampleBraveWeb)
	p := &BraveWeb{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "golang", types.SearchOptions{MaxResults: 3, Country: "us", Language: "en"})
	require.NoError(t, err)

	r := *req
	assert.Equal(t, "/web/search", r.URL.Path)
	assert.Equal(t, "secret", r.Header.Get("X-Subscription-Token"))
	q := r.URL.Query()
	assert.Equal(t, "golang", q.Get("q"))
	assert.Equal(t, "3", q.Get("count"))
	assert.Equal(t, "us", q.Get("country"))
	assert.Equal(t, "en", q.Get("search_lang"))

	assert.Equal(t, NameBraveWeb, rs.Provider)
	require.Len(t, rs.Results, 3)
	first := rs.Results[0]
	assert.Equal(t, "The Go Programming Language", first.Title)
	assert.Equal(t, types.TypeWebResult, first.Type)
	assert.InDelta(t, 0.9, first.RelevanceScore, 1e-9)
	assert.InDelta(t, 0.85, rs.Results[1].RelevanceScore, 1e-9)
	assert.Equal(t, "2 days ago", first.Metadata["age"])
}

func TestBraveMissingKeyIsInvalidAPIKey(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))
	defer ts.Close()

	p := &BraveWeb{NewBraveClient(ts.Client(), "", ts.URL)}
	_, err := p.Search(context.Background(), "golang", types.SearchOptions{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidAPIKey, apperr.KindOf(err))
	assert.False(t, called, "no request should be sent without a key")
}

func TestBraveStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   apperr.Kind
	}{
		{http.StatusUnauthorized, apperr.KindInvalidAPIKey},
		{http.StatusForbidden, apperr.KindInvalidAPIKey},
		{http.StatusTooManyRequests, apperr.KindRateLimit},
		{http.StatusBadGateway, apperr.KindProvider},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ts, _ := newJSONServer(t, tt.status, `{"message":"upstream says no"}`)
			p := &BraveNews{NewBraveClient(ts.Client(), "secret", ts.URL)}

			_, err := p.Search(context.Background(), "q", types.SearchOptions{})
			require.Error(t, err)
			assert.Equal(t, tt.want, apperr.KindOf(err))
			assert.Contains(t, err.Error(), "upstream says no")
			assert.Contains(t, err.Error(), NameBraveNews)
		})
	}
}

func TestBraveRichStructuredResults(t *testing.T) {
	ts, _ := newJSONServer(t, http.StatusOK, `{
	  "infobox": {"title": "Bitcoin", "description": "BTC price", "url": "https://example.com/btc", "category": "finance"},
	  "graph": {"title": "BTC chart", "type": "line"},
	  "locations": {"results": [
	    {"title": "Exchange A", "url": "https://a.example"},
	    {"title": "Exchange B", "url": "https://b.example"}
	  ]},
	  "web": {"results": [{"title": "ignored", "url": "https://ignored.example"}]}
	}`)
	p := &BraveRich{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "bitcoin price", types.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, rs.Results, 4)

	assert.Equal(t, types.TypeRichResult, rs.Results[0].Type)
	assert.Equal(t, 1.0, rs.Results[0].RelevanceScore)
	assert.Equal(t, types.TypeGraphResult, rs.Results[1].Type)
	assert.Equal(t, 0.95, rs.Results[1].RelevanceScore)
	assert.Equal(t, types.TypeLocationResult, rs.Results[2].Type)
	assert.InDelta(t, 0.85, rs.Results[3].RelevanceScore, 1e-9)
	assert.Equal(t, true, rs.Metadata["hasRichResults"])
}

func TestBraveRichFallsBackToThreeWebResults(t *testing.T) {
	ts, _ := newJSONServer(t, http.StatusOK, sampleBraveWeb)
	p := &BraveRich{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "golang", types.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, rs.Results, 3)
	assert.InDelta(t, 0.8, rs.Results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.7, rs.Results[2].RelevanceScore, 1e-9)
	assert.Equal(t, false, rs.Metadata["hasRichResults"])
}

func TestBraveNewsSearch(t *testing.T) {
	ts, req := newJSONServer(t, http.StatusOK, `{"results": [
	  {"title": "AI story", "url": "https://news.example/1", "description": "d1", "source": {"name": "Example News"}, "age": "1 hour ago", "breaking": true},
	  {"title": "Second", "url": "https://news.example/2", "snippet": "d2", "source": "Wire"},
	  {"title": "Third", "url": "https://news.example/3"}
	]}`)
	p := &BraveNews{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "ai", types.SearchOptions{Language: "en", SafeSearch: "strict"})
	require.NoError(t, err)

	q := (*req).URL.Query()
	assert.Equal(t, "/news/search", (*req).URL.Path)
	assert.Equal(t, "pd", q.Get("freshness"))
	assert.Empty(t, q.Get("search_lang"))
	assert.Empty(t, q.Get("safesearch"))

	require.Len(t, rs.Results, 3)
	assert.Equal(t, "Example News", rs.Results[0].Source)
	assert.Equal(t, "Wire", rs.Results[1].Source)
	assert.Equal(t, "d2", rs.Results[1].Description)
	assert.Equal(t, "News Source", rs.Results[2].Source)
	assert.Equal(t, types.TypeNewsArticle, rs.Results[0].Type)
	assert.InDelta(t, 0.95, rs.Results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.89, rs.Results[2].RelevanceScore, 1e-9)
	assert.Equal(t, "1 hour ago", rs.Results[0].Metadata["published_date"])
	assert.Equal(t, true, rs.Results[0].Metadata["breaking"])
}

func TestBraveNewsFreshnessOverride(t *testing.T) {
	ts, req := newJSONServer(t, http.StatusOK, `{"results": []}`)
	p := &BraveNews{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "ai", types.SearchOptions{Freshness: "pw"})
	require.NoError(t, err)
	assert.True(t, rs.Empty())
	assert.Equal(t, "pw", (*req).URL.Query().Get("freshness"))
}

func TestBraveVideoSearch(t *testing.T) {
	ts, req := newJSONServer(t, http.StatusOK, `{"results": [
	  {"title": "Cat video", "url": "https://video.example/1", "duration": "03:12", "views": 1200, "channel": "Cats"}
	]}`)
	p := &BraveVideo{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "cats", types.SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, "/videos/search", (*req).URL.Path)
	require.Len(t, rs.Results, 1)
	r := rs.Results[0]
	assert.Equal(t, types.TypeVideoResult, r.Type)
	assert.Equal(t, "Video Source", r.Source)
	assert.Equal(t, "03:12", r.Metadata["duration"])
	assert.Equal(t, "Cats", r.Metadata["channel"])
}

func TestBraveImageSearch(t *testing.T) {
	ts, req := newJSONServer(t, http.StatusOK, `{"results": [
	  {"title": "Cat", "url": "https://img.example/page", "source": "img.example",
	   "properties": {"url": "https://img.example/cat.jpg", "width": 640, "height": 480, "format": "jpeg"}}
	]}`)
	p := &BraveImage{NewBraveClient(ts.Client(), "secret", ts.URL)}

	rs, err := p.Search(context.Background(), "cat", types.SearchOptions{SafeSearch: "strict"})
	require.NoError(t, err)
	assert.Equal(t, "/images/search", (*req).URL.Path)
	assert.Equal(t, "strict", (*req).URL.Query().Get("safesearch"))
	require.Len(t, rs.Results, 1)
	props, ok := rs.Results[0].Metadata["properties"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "https://img.example/cat.jpg", props["url"])
	assert.Equal(t, "jpeg", props["format"])
}
