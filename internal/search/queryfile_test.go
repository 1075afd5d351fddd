// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/pkg/types"
)

func TestQueryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`queries:
  - query: golang generics
    options:
      provider: ddg
      max_results: 3
  - query: breaking news about AI
`), 0o644))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	require.Len(t, qf.Queries, 2)
	assert.Equal(t, "ddg", qf.Queries[0].Options.Provider)
	assert.Equal(t, 3, qf.Queries[0].Options.MaxResults)

	qf.Record(0, &types.SearchResponse{Provider: NameDuckDuckGo, Results: resultSet(NameDuckDuckGo, 2).Results}, nil)
	qf.Record(1, nil, errors.New("all providers failed"))
	qf.Summarize(time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, 2, qf.Summary.Total)
	assert.Equal(t, 1, qf.Summary.Failed)

	out := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteQueryFile(out, qf))

	back, err := ReadQueryFile(out)
	require.NoError(t, err)
	assert.Equal(t, NameDuckDuckGo, back.Queries[0].Provider)
	assert.Len(t, back.Queries[0].Results, 2)
	assert.Equal(t, "all providers failed", back.Queries[1].Error)
	assert.Equal(t, 1, back.Summary.Failed)
}

func TestReadQueryFileRejectsBlankQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queries:\n  - query: \"  \"\n"), 0o644))

	_, err := ReadQueryFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query 1 is empty")
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(&types.SearchResponse{
		Results:   resultSet(NameBraveWeb, 2).Results,
		Provider:  NameBraveWeb,
		Cached:    true,
		ElapsedMs: 12,
	}, &buf)

	out := buf.String()
	assert.Contains(t, out, "brave-web result 1")
	assert.Contains(t, out, "2 results from brave-web in 12ms (cached)")

	buf.Reset()
	FormatTable(&types.SearchResponse{}, &buf)
	assert.Equal(t, "No results found.\n", buf.String())
}

func TestFormatNewsTable(t *testing.T) {
	var buf bytes.Buffer
	FormatNewsTable(&types.NewsResponse{
		Articles: []types.NewsArticle{{Title: strings.Repeat("x", 80), Source: "Wire", PublishedAt: "2026-10-18"}},
		Total:    7,
	}, &buf)
	out := buf.String()
	assert.Contains(t, out, strings.Repeat("x", 57)+"...")
	assert.Contains(t, out, "1 of 7 articles")
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatJSON(resultSet(NameSearXNG, 1), &buf))
	assert.Contains(t, buf.String(), `"provider": "searxng"`)
	assert.Contains(t, buf.String(), `"relevanceScore": 0.9`)
}
