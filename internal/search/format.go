// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/websearch/pkg/types"
)

// FormatTable writes a search response as a human-readable table to w.
func FormatTable(resp *types.SearchResponse, w io.Writer) {
	if resp == nil || len(resp.Results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-50s  %-40s  %-6s  %s\n",
		"Rank", "Title", "URL", "Score", "Type")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range resp.Results {
		fmt.Fprintf(w, "%-4d  %-50s  %-40s  %-6.2f  %s\n",
			i+1, truncate(r.Title, 50), truncate(r.URL, 40), r.RelevanceScore, r.Type)
	}

	fmt.Fprintf(w, "\n%d results from %s in %dms", len(resp.Results), resp.Provider, resp.ElapsedMs)
	if resp.Cached {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
}

// FormatNewsTable writes a news response as a table to w.
func FormatNewsTable(resp *types.NewsResponse, w io.Writer) {
	if resp == nil || len(resp.Articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-60s  %-20s  %s\n", "Rank", "Title", "Source", "Published")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for i, a := range resp.Articles {
		fmt.Fprintf(w, "%-4d  %-60s  %-20s  %s\n",
			i+1, truncate(a.Title, 60), truncate(a.Source, 20), a.PublishedAt)
	}

	fmt.Fprintf(w, "\n%d of %d articles in %dms", len(resp.Articles), resp.Total, resp.ElapsedMs)
	if resp.Cached {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
