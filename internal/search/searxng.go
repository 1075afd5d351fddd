// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/httputil"
	"github.com/pdiddy/websearch/pkg/types"
)

const (
	searxngEngines        = "google,bing,duckduckgo"
	searxngMirrorDeadline = 5 * time.Second
)

// SearXNG queries a list of public metasearch mirrors in order and returns
// the first mirror that answers with results.
type SearXNG struct {
	client    *http.Client
	userAgent string
	instances []string

	// MirrorTimeout bounds each mirror attempt.
	MirrorTimeout time.Duration
}

// NewSearXNG returns a provider over instances, or the default mirror list
// when instances is empty.
func NewSearXNG(client *http.Client, userAgent string, instances []string) *SearXNG {
	if len(instances) == 0 {
		instances = types.DefaultSearXNGInstances
	}
	clean := make([]string, 0, len(instances))
	for _, in := range instances {
		if in = strings.TrimRight(strings.TrimSpace(in), "/"); in != "" {
			clean = append(clean, in)
		}
	}
	return &SearXNG{
		client:        client,
		userAgent:     orDefault(userAgent, defaultUserAgent),
		instances:     clean,
		MirrorTimeout: searxngMirrorDeadline,
	}
}

// Name returns the provider identifier.
func (s *SearXNG) Name() string { return NameSearXNG }

// Stages returns the number of mirrors Search may try.
func (s *SearXNG) Stages() int { return len(s.instances) }

// Instances returns the mirrors in the order they are tried.
func (s *SearXNG) Instances() []string {
	return append([]string(nil), s.instances...)
}

type searxngResponse struct {
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Description   string  `json:"description"`
		Engine        string  `json:"engine"`
		Score         float64 `json:"score"`
		PublishedDate *string `json:"publishedDate"`
	} `json:"results"`
}

// Search tries each mirror in turn. A mirror that fails, times out or
// returns nothing is skipped. Exhausting the list is a PROVIDER_ERROR.
func (s *SearXNG) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	opts = opts.WithDefaults()

	for _, instance := range s.instances {
		if ctx.Err() != nil {
			break
		}
		results, err := s.searchInstance(ctx, instance, query, opts)
		if err != nil || len(results) == 0 {
			continue
		}
		return &types.ResultSet{
			Results:   limit(results, opts.MaxResults),
			Total:     len(results),
			Provider:  s.Name(),
			ElapsedMs: elapsedMs(start),
			Metadata:  map[string]any{"instance": instance},
		}, nil
	}
	return nil, apperr.New(apperr.KindProvider, "all SearXNG instances failed or returned empty results").ForProvider(s.Name())
}

func (s *SearXNG) searchInstance(ctx context.Context, instance, query string, opts types.SearchOptions) ([]types.SearchResult, error) {
	ctx, cancel := withDeadline(ctx, s.MirrorTimeout)
	defer cancel()

	params := url.Values{
		"q":          {query},
		"format":     {"json"},
		"engines":    {searxngEngines},
		"language":   {orDefault(opts.Language, "en")},
		"safesearch": {"0"},
	}
	body, err := httputil.Get(ctx, s.client, instance+"/search?"+params.Encode(), map[string]string{
		"Accept":     "application/json",
		"User-Agent": s.userAgent,
	})
	if err != nil {
		return nil, err
	}
	var resp searxngResponse
	if err := httputil.DecodeJSON(body, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.Title == "" || r.URL == "" {
			continue
		}
		meta := map[string]any{
			"engine":   orDefault(r.Engine, "unknown"),
			"instance": instance,
		}
		if r.PublishedDate != nil && *r.PublishedDate != "" {
			meta["publishedDate"] = *r.PublishedDate
		}
		results = append(results, types.SearchResult{
			Title:          cleanText(r.Title),
			Description:    cleanText(orDefault(r.Content, r.Description)),
			URL:            r.URL,
			Source:         NameSearXNG,
			Type:           types.TypeWebResult,
			RelevanceScore: decayScore(0.9, 0.05, len(results)),
			Metadata:       meta,
		})
	}
	return results, nil
}
