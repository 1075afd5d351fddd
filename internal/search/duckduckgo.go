// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/httputil"
	"github.com/pdiddy/websearch/pkg/types"
)

const (
	defaultDDGHTMLURL    = "https://html.duckduckgo.com/html/"
	defaultDDGLiteURL    = "https://lite.duckduckgo.com/lite/"
	defaultDDGInstantURL = "https://api.duckduckgo.com"
	defaultUserAgent     = "Mozilla/5.0 (compatible; websearch/1.0)"

	defaultRequestTimeout = 5 * time.Second
)

// page identifies which upstream document a strategy reads.
type page int

const (
	pageHTML page = iota
	pageLite
	pageInstant
)

// strategy extracts results from one fetched page. Extraction is pure: the
// same body always yields the same results.
type strategy struct {
	name    string
	page    page
	extract func(body []byte) ([]types.SearchResult, error)
}

// scrapeChain is tried in order until a strategy yields results. A strategy
// that errors (fetch or parse) hands over to the next one.
var scrapeChain = []strategy{
	{name: "html-selectors", page: pageHTML, extract: extractHTMLSelectors},
	{name: "html-patterns", page: pageHTML, extract: extractHTMLPatterns},
	{name: "lite", page: pageLite, extract: extractLite},
	{name: "instant-answer", page: pageInstant, extract: extractInstantAnswer},
}

// DuckDuckGo is the free, keyless provider. It scrapes the HTML results
// pages and falls back to the instant-answer API.
type DuckDuckGo struct {
	client    *http.Client
	userAgent string

	HTMLURL    string
	LiteURL    string
	InstantURL string

	// RequestTimeout bounds each page fetch on its own.
	RequestTimeout time.Duration
}

// NewDuckDuckGo returns the scrape provider. instantURL overrides the
// instant-answer endpoint when non-empty.
func NewDuckDuckGo(client *http.Client, userAgent, instantURL string) *DuckDuckGo {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &DuckDuckGo{
		client:         client,
		userAgent:      userAgent,
		HTMLURL:        defaultDDGHTMLURL,
		LiteURL:        defaultDDGLiteURL,
		InstantURL:     orDefault(strings.TrimSpace(instantURL), defaultDDGInstantURL),
		RequestTimeout: defaultRequestTimeout,
	}
}

// Name returns the provider identifier.
func (d *DuckDuckGo) Name() string { return NameDuckDuckGo }

// Stages returns the number of distinct pages Search may fetch.
func (d *DuckDuckGo) Stages() int {
	seen := make(map[page]bool)
	for _, s := range scrapeChain {
		seen[s.page] = true
	}
	return len(seen)
}

type fetched struct {
	body []byte
	err  error
}

// Search walks scrapeChain. It fails only when every strategy failed; if
// some strategies simply found nothing, the result is an empty set.
func (d *DuckDuckGo) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	maxResults := opts.WithDefaults().MaxResults
	pages := make(map[page]fetched)

	var lastErr error
	failures := 0
	for _, s := range scrapeChain {
		f, ok := pages[s.page]
		if !ok {
			f.body, f.err = d.fetch(ctx, s.page, query, opts)
			pages[s.page] = f
		}
		if f.err != nil {
			lastErr = f.err
			failures++
			continue
		}

		results, err := s.extract(f.body)
		if err != nil {
			lastErr = apperr.Wrap(apperr.KindProvider, err, "%s parse failed", s.name)
			failures++
			continue
		}
		if len(results) == 0 {
			continue
		}

		results = limit(results, maxResults)
		return &types.ResultSet{
			Results:   results,
			Total:     len(results),
			Provider:  d.Name(),
			ElapsedMs: elapsedMs(start),
			Metadata:  map[string]any{"strategy": s.name},
		}, nil
	}

	if failures == len(scrapeChain) {
		return nil, attribute(d.Name(), lastErr)
	}
	return &types.ResultSet{Results: []types.SearchResult{}, Provider: d.Name(), ElapsedMs: elapsedMs(start)}, nil
}

func (d *DuckDuckGo) fetch(ctx context.Context, p page, query string, opts types.SearchOptions) ([]byte, error) {
	params := url.Values{"q": {query}}
	var endpoint string
	switch p {
	case pageHTML:
		endpoint = d.HTMLURL
		if opts.Country != "" {
			params.Set("kl", opts.Country)
		}
	case pageLite:
		endpoint = d.LiteURL
	case pageInstant:
		endpoint = strings.TrimRight(d.InstantURL, "/") + "/"
		params.Set("format", "json")
		params.Set("no_html", "1")
		params.Set("skip_disambig", "1")
	}
	ctx, cancel := withDeadline(ctx, d.RequestTimeout)
	defer cancel()
	return httputil.Get(ctx, d.client, endpoint+"?"+params.Encode(), map[string]string{
		"User-Agent": d.userAgent,
		"Accept":     "text/html,application/json",
	})
}

// hit is a scraped link before normalization. Title and snippet are plain
// text; each extractor decodes its own markup.
type hit struct {
	title, url, snippet string
}

// webResults normalizes scraped hits: unwraps redirects, drops links back
// into DuckDuckGo and untitled entries, and assigns positional scores.
func webResults(hits []hit) []types.SearchResult {
	results := make([]types.SearchResult, 0, len(hits))
	for _, h := range hits {
		u := resolveResultURL(h.url)
		if u == "" || h.title == "" || isSelfLink(u) {
			continue
		}
		results = append(results, types.SearchResult{
			Title:          h.title,
			Description:    h.snippet,
			URL:            u,
			Source:         "DuckDuckGo",
			Type:           types.TypeWebResult,
			RelevanceScore: decayScore(0.9, 0.05, len(results)),
		})
	}
	return results
}

func extractHTMLSelectors(body []byte) ([]types.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var hits []hit
	doc.Find(htmlResultSelector).Each(func(_ int, s *goquery.Selection) {
		if s.Is(htmlAdSelector) {
			return
		}
		link := s.Find(htmlTitleSelector).First()
		href, _ := link.Attr("href")
		hits = append(hits, hit{
			title:   collapseSpace(link.Text()),
			url:     href,
			snippet: collapseSpace(s.Find(htmlSnippetSelector).First().Text()),
		})
	})
	return webResults(hits), nil
}

func extractHTMLPatterns(body []byte) ([]types.SearchResult, error) {
	blocks := strings.Split(string(body), htmlBlockMarker)
	var hits []hit
	for _, block := range blocks[1:] {
		m := htmlLinkPattern.FindStringSubmatch(block)
		if m == nil {
			m = htmlLinkAltPattern.FindStringSubmatch(block)
		}
		if m == nil {
			continue
		}
		h := hit{url: m[1], title: cleanText(m[2])}
		if !strings.Contains(h.url, "uddg=") {
			if u := uddgPattern.FindStringSubmatch(block); u != nil {
				if decoded, err := url.QueryUnescape(u[1]); err == nil {
					h.url = decoded
				}
			}
		}
		if s := htmlSnippetPattern.FindStringSubmatch(block); s != nil {
			h.snippet = cleanText(s[1])
		}
		hits = append(hits, h)
	}
	return webResults(hits), nil
}

func extractLite(body []byte) ([]types.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	// A snippet row belongs to the nearest link row above it.
	var hits []hit
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		if link := row.Find(liteLinkSelector).First(); link.Length() > 0 {
			href, _ := link.Attr("href")
			hits = append(hits, hit{title: collapseSpace(link.Text()), url: href})
			return
		}
		snippet := row.Find(liteSnippetSelector).First()
		if snippet.Length() == 0 || len(hits) == 0 {
			return
		}
		if last := &hits[len(hits)-1]; last.snippet == "" {
			last.snippet = collapseSpace(snippet.Text())
		}
	})
	return webResults(hits), nil
}

type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type relatedTopic struct {
	Text     string         `json:"Text"`
	FirstURL string         `json:"FirstURL"`
	Topics   []relatedTopic `json:"Topics"`
}

func extractInstantAnswer(body []byte) ([]types.SearchResult, error) {
	var ia instantAnswer
	if err := httputil.DecodeJSON(body, &ia); err != nil {
		return nil, err
	}

	var results []types.SearchResult
	if ia.AbstractText != "" {
		results = append(results, types.SearchResult{
			Title:          decodeEntities(orDefault(ia.Heading, "Instant Answer")),
			Description:    decodeEntities(ia.AbstractText),
			URL:            ia.AbstractURL,
			Source:         "DuckDuckGo",
			Type:           types.TypeInstantAnswer,
			RelevanceScore: 0.95,
		})
	}
	for _, t := range flattenTopics(ia.RelatedTopics) {
		if t.Text == "" || t.FirstURL == "" {
			continue
		}
		title, _, _ := strings.Cut(t.Text, " - ")
		results = append(results, types.SearchResult{
			Title:          decodeEntities(title),
			Description:    decodeEntities(t.Text),
			URL:            t.FirstURL,
			Source:         "DuckDuckGo",
			Type:           types.TypeRelatedTopic,
			RelevanceScore: 0.7,
		})
	}
	return results, nil
}

// flattenTopics expands grouped related topics in place.
func flattenTopics(topics []relatedTopic) []relatedTopic {
	var out []relatedTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flattenTopics(t.Topics)...)
			continue
		}
		out = append(out, t)
	}
	return out
}
