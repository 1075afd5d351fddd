// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/httputil"
	"github.com/pdiddy/websearch/pkg/types"
)

const defaultBraveURL = "https://api.search.brave.com/res/v1"

// BraveClient is the shared transport for the brave-* providers. Each
// provider hits a different endpoint and normalizes a different shape.
type BraveClient struct {
	client  *http.Client
	apiKey  string
	baseURL string

	// RequestTimeout bounds each request.
	RequestTimeout time.Duration
}

// NewBraveClient returns a client for the Brave Search API. An empty baseURL
// means the public endpoint.
func NewBraveClient(client *http.Client, apiKey, baseURL string) *BraveClient {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBraveURL
	}
	return &BraveClient{
		client:         client,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(baseURL, "/"),
		RequestTimeout: defaultRequestTimeout,
	}
}

func (b *BraveClient) get(ctx context.Context, provider, path string, params url.Values, out any) error {
	if b.apiKey == "" {
		return apperr.New(apperr.KindInvalidAPIKey, "BRAVE_API_WEB_KEY is not configured").ForProvider(provider)
	}
	ctx, cancel := withDeadline(ctx, b.RequestTimeout)
	defer cancel()
	body, err := httputil.Get(ctx, b.client, b.baseURL+path+"?"+params.Encode(), map[string]string{
		"Accept":               "application/json",
		"X-Subscription-Token": b.apiKey,
	})
	if err != nil {
		return attribute(provider, err)
	}
	if err := httputil.DecodeJSON(body, out); err != nil {
		return attribute(provider, err)
	}
	return nil
}

// braveParams builds the query string shared by every endpoint.
func braveParams(query string, opts types.SearchOptions) url.Values {
	params := url.Values{"q": {query}}
	params.Set("count", strconv.Itoa(opts.WithDefaults().MaxResults))
	if opts.Country != "" {
		params.Set("country", opts.Country)
	}
	if opts.Language != "" {
		params.Set("search_lang", opts.Language)
	}
	if opts.SafeSearch != "" {
		params.Set("safesearch", opts.SafeSearch)
	}
	return params
}

// attribute tags err with the provider that produced it.
func attribute(provider string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae.ForProvider(provider)
	}
	return apperr.Wrap(apperr.KindProvider, err, "search failed").ForProvider(provider)
}

type braveWebResult struct {
	Title          string `json:"title"`
	URL            string `json:"url"`
	Description    string `json:"description"`
	Age            string `json:"age"`
	Language       string `json:"language"`
	FamilyFriendly *bool  `json:"family_friendly"`
}

type braveWebResponse struct {
	Web struct {
		Results []braveWebResult `json:"results"`
	} `json:"web"`
	Infobox *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Category    string `json:"category"`
		Data        any    `json:"data"`
	} `json:"infobox"`
	Graph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Type        string `json:"type"`
		Data        any    `json:"data"`
	} `json:"graph"`
	Locations struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Coordinates any    `json:"coordinates"`
			Address     any    `json:"address"`
		} `json:"results"`
	} `json:"locations"`
}

// --- brave-web ---

// BraveWeb is the general-web provider.
type BraveWeb struct{ *BraveClient }

// Name returns the provider identifier.
func (p *BraveWeb) Name() string { return NameBraveWeb }

// Search queries the web endpoint.
func (p *BraveWeb) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	var resp braveWebResponse
	if err := p.get(ctx, p.Name(), "/web/search", braveParams(query, opts), &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Web.Results))
	for i, r := range resp.Web.Results {
		results = append(results, types.SearchResult{
			Title:          r.Title,
			Description:    r.Description,
			URL:            r.URL,
			Source:         "Brave Search",
			Type:           types.TypeWebResult,
			RelevanceScore: decayScore(0.9, 0.05, i),
			Metadata: map[string]any{
				"age":             r.Age,
				"language":        r.Language,
				"family_friendly": r.FamilyFriendly,
			},
		})
	}
	results = limit(results, opts.WithDefaults().MaxResults)
	return &types.ResultSet{Results: results, Total: len(results), Provider: p.Name(), ElapsedMs: elapsedMs(start)}, nil
}

// --- brave-rich ---

// BraveRich extracts structured answers (infobox, graph, locations) from the
// web endpoint.
type BraveRich struct{ *BraveClient }

// Name returns the provider identifier.
func (p *BraveRich) Name() string { return NameBraveRich }

// richFillCount is how many plain web results stand in when the response
// has no structured data.
const richFillCount = 3

// Search queries the web endpoint and keeps structured results first.
func (p *BraveRich) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	var resp braveWebResponse
	if err := p.get(ctx, p.Name(), "/web/search", braveParams(query, opts), &resp); err != nil {
		return nil, err
	}

	var results []types.SearchResult
	if ib := resp.Infobox; ib != nil {
		results = append(results, types.SearchResult{
			Title:          orDefault(ib.Title, "Rich Result"),
			Description:    ib.Description,
			URL:            ib.URL,
			Source:         "Brave Rich Search",
			Type:           types.TypeRichResult,
			RelevanceScore: 1.0,
			Metadata:       map[string]any{"category": ib.Category, "data": orEmptyMap(ib.Data)},
		})
	}
	if g := resp.Graph; g != nil {
		results = append(results, types.SearchResult{
			Title:          orDefault(g.Title, "Graph Data"),
			Description:    g.Description,
			URL:            g.URL,
			Source:         "Brave Rich Search",
			Type:           types.TypeGraphResult,
			RelevanceScore: 0.95,
			Metadata:       map[string]any{"type": g.Type, "data": orEmptyMap(g.Data)},
		})
	}
	for i, loc := range resp.Locations.Results {
		results = append(results, types.SearchResult{
			Title:          loc.Title,
			Description:    loc.Description,
			URL:            loc.URL,
			Source:         "Brave Rich Search",
			Type:           types.TypeLocationResult,
			RelevanceScore: decayScore(0.9, 0.05, i),
			Metadata:       map[string]any{"coordinates": loc.Coordinates, "address": loc.Address},
		})
	}

	if len(results) == 0 {
		for i, r := range resp.Web.Results {
			if i == richFillCount {
				break
			}
			results = append(results, types.SearchResult{
				Title:          r.Title,
				Description:    r.Description,
				URL:            r.URL,
				Source:         "Brave Search",
				Type:           types.TypeWebResult,
				RelevanceScore: decayScore(0.8, 0.05, i),
			})
		}
	}

	hasRich := false
	for _, r := range results {
		if r.Type == types.TypeRichResult || r.Type == types.TypeGraphResult {
			hasRich = true
			break
		}
	}
	if results == nil {
		results = []types.SearchResult{}
	}
	return &types.ResultSet{
		Results:   results,
		Total:     len(results),
		Provider:  p.Name(),
		ElapsedMs: elapsedMs(start),
		Metadata:  map[string]any{"hasRichResults": hasRich},
	}, nil
}

// --- brave-news ---

// BraveNews is the news provider.
type BraveNews struct{ *BraveClient }

// Name returns the provider identifier.
func (p *BraveNews) Name() string { return NameBraveNews }

// defaultFreshness limits news to the past day.
const defaultFreshness = "pd"

type braveNewsResponse struct {
	Results []struct {
		Title         string          `json:"title"`
		Description   string          `json:"description"`
		Snippet       string          `json:"snippet"`
		URL           string          `json:"url"`
		Source        json.RawMessage `json:"source"`
		PublishedDate string          `json:"published_date"`
		Age           string          `json:"age"`
		Thumbnail     any             `json:"thumbnail"`
		Breaking      bool            `json:"breaking"`
	} `json:"results"`
}

// Search queries the news endpoint.
func (p *BraveNews) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	params := braveParams(query, opts)
	params.Del("search_lang")
	params.Del("safesearch")
	params.Set("freshness", orDefault(opts.Freshness, defaultFreshness))

	var resp braveNewsResponse
	if err := p.get(ctx, p.Name(), "/news/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for i, a := range resp.Results {
		results = append(results, types.SearchResult{
			Title:          a.Title,
			Description:    orDefault(a.Description, a.Snippet),
			URL:            a.URL,
			Source:         orDefault(sourceName(a.Source), "News Source"),
			Type:           types.TypeNewsArticle,
			RelevanceScore: decayScore(0.95, 0.03, i),
			Metadata: map[string]any{
				"published_date": orDefault(a.PublishedDate, a.Age),
				"thumbnail":      a.Thumbnail,
				"breaking":       a.Breaking,
			},
		})
	}
	results = limit(results, opts.WithDefaults().MaxResults)
	return &types.ResultSet{Results: results, Total: len(results), Provider: p.Name(), ElapsedMs: elapsedMs(start)}, nil
}

// sourceName reads a news source given either as {"name": ...} or as a
// bare string.
func sourceName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var obj struct {
		Name string `json:"name"`
	}
	if json.Unmarshal(raw, &obj) == nil && obj.Name != "" {
		return obj.Name
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return ""
}

// --- brave-video ---

// BraveVideo is the video provider.
type BraveVideo struct{ *BraveClient }

// Name returns the provider identifier.
func (p *BraveVideo) Name() string { return NameBraveVideo }

type braveVideoResponse struct {
	Results []struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		URL           string `json:"url"`
		Source        string `json:"source"`
		Thumbnail     any    `json:"thumbnail"`
		Duration      any    `json:"duration"`
		Views         any    `json:"views"`
		PublishedDate string `json:"published_date"`
		Age           string `json:"age"`
		Channel       any    `json:"channel"`
	} `json:"results"`
}

// Search queries the video endpoint.
func (p *BraveVideo) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	params := braveParams(query, opts)
	params.Del("search_lang")
	params.Del("safesearch")

	var resp braveVideoResponse
	if err := p.get(ctx, p.Name(), "/videos/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for i, v := range resp.Results {
		results = append(results, types.SearchResult{
			Title:          v.Title,
			Description:    v.Description,
			URL:            v.URL,
			Source:         orDefault(v.Source, "Video Source"),
			Type:           types.TypeVideoResult,
			RelevanceScore: decayScore(0.95, 0.03, i),
			Metadata: map[string]any{
				"thumbnail":      v.Thumbnail,
				"duration":       v.Duration,
				"views":          v.Views,
				"published_date": orDefault(v.PublishedDate, v.Age),
				"channel":        v.Channel,
			},
		})
	}
	results = limit(results, opts.WithDefaults().MaxResults)
	return &types.ResultSet{Results: results, Total: len(results), Provider: p.Name(), ElapsedMs: elapsedMs(start)}, nil
}

// --- brave-image ---

// BraveImage is the image provider.
type BraveImage struct{ *BraveClient }

// Name returns the provider identifier.
func (p *BraveImage) Name() string { return NameBraveImage }

type braveImageResponse struct {
	Results []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Source      string `json:"source"`
		Thumbnail   any    `json:"thumbnail"`
		Properties  struct {
			URL    string `json:"url"`
			Width  any    `json:"width"`
			Height any    `json:"height"`
			Format string `json:"format"`
		} `json:"properties"`
	} `json:"results"`
}

// Search queries the image endpoint.
func (p *BraveImage) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	params := braveParams(query, opts)
	params.Del("search_lang")

	var resp braveImageResponse
	if err := p.get(ctx, p.Name(), "/images/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]types.SearchResult, 0, len(resp.Results))
	for i, img := range resp.Results {
		results = append(results, types.SearchResult{
			Title:          img.Title,
			Description:    img.Description,
			URL:            img.URL,
			Source:         orDefault(img.Source, "Image Source"),
			Type:           types.TypeImageResult,
			RelevanceScore: decayScore(0.95, 0.03, i),
			Metadata: map[string]any{
				"thumbnail": img.Thumbnail,
				"properties": map[string]any{
					"url":    img.Properties.URL,
					"width":  img.Properties.Width,
					"height": img.Properties.Height,
					"format": img.Properties.Format,
				},
			},
		})
	}
	results = limit(results, opts.WithDefaults().MaxResults)
	return &types.ResultSet{Results: results, Total: len(results), Provider: p.Name(), ElapsedMs: elapsedMs(start)}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orEmptyMap(v any) any {
	if v == nil {
		return map[string]any{}
	}
	return v
}
