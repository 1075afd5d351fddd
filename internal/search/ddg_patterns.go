// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import "regexp"

// Markup the DuckDuckGo scrape strategies look for. When DuckDuckGo changes
// its pages, only this file should need editing.

// Full HTML results page, parsed with goquery.
const (
	htmlResultSelector  = "div.result"
	htmlAdSelector      = ".result--ad"
	htmlTitleSelector   = "a.result__a"
	htmlSnippetSelector = ".result__snippet"
)

// Full HTML results page, parsed with regular expressions. Blocks are split
// on the result body marker and each block is matched independently.
const htmlBlockMarker = "result__body"

var (
	htmlLinkPattern    = regexp.MustCompile(`(?s)<a[^>]*class="result__a"[^>]*href="([^"]*)"[^>]*>(.*?)</a>`)
	htmlLinkAltPattern = regexp.MustCompile(`(?s)<a[^>]*href="([^"]*)"[^>]*class="result__a"[^>]*>(.*?)</a>`)
	htmlSnippetPattern = regexp.MustCompile(`(?s)class="result__snippet"[^>]*>(.*?)</(?:a|div|span|td)>`)
	uddgPattern        = regexp.MustCompile(`uddg=([^&"]+)`)
)

// Lite results page, a table layout parsed with goquery.
const (
	liteLinkSelector    = "a.result-link"
	liteSnippetSelector = "td.result-snippet"
)
