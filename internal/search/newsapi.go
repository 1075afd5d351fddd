// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/httputil"
	"github.com/pdiddy/websearch/pkg/types"
)

const defaultNewsAPIURL = "https://newsapi.org/v2"

// newsAPIScore is the static relevance given to every NewsAPI article.
const newsAPIScore = 0.9

// NewsAPI is the secondary news provider. It authenticates with its own key;
// a rejected key surfaces as INVALID_API_KEY and quota exhaustion as
// RATE_LIMIT_EXCEEDED.
type NewsAPI struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	userAgent string

	// RequestTimeout bounds each request, including Headlines calls made
	// outside the orchestrator.
	RequestTimeout time.Duration
}

// NewNewsAPI returns a NewsAPI provider. An empty baseURL means the public
// endpoint.
func NewNewsAPI(client *http.Client, apiKey, baseURL, userAgent string) *NewsAPI {
	return &NewsAPI{
		client:         client,
		apiKey:         apiKey,
		baseURL:        strings.TrimRight(orDefault(strings.TrimSpace(baseURL), defaultNewsAPIURL), "/"),
		userAgent:      orDefault(userAgent, defaultUserAgent),
		RequestTimeout: defaultRequestTimeout,
	}
}

// Name returns the provider identifier.
func (n *NewsAPI) Name() string { return NameNewsAPI }

type newsAPIResponse struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func (r newsAPIResponse) articles() []types.NewsArticle {
	out := make([]types.NewsArticle, 0, len(r.Articles))
	for _, a := range r.Articles {
		out = append(out, types.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      orDefault(a.Source.Name, "Unknown"),
			Author:      a.Author,
			PublishedAt: a.PublishedAt,
			URLToImage:  a.URLToImage,
			Content:     a.Content,
		})
	}
	return out
}

func (n *NewsAPI) get(ctx context.Context, path string, params url.Values) (*newsAPIResponse, error) {
	if n.apiKey == "" {
		return nil, apperr.New(apperr.KindInvalidAPIKey, "NEWSAPI_KEY is not configured").ForProvider(n.Name())
	}
	ctx, cancel := withDeadline(ctx, n.RequestTimeout)
	defer cancel()
	body, err := httputil.Get(ctx, n.client, n.baseURL+path+"?"+params.Encode(), map[string]string{
		"X-Api-Key":  n.apiKey,
		"User-Agent": n.userAgent,
	})
	if err != nil {
		return nil, attribute(n.Name(), err)
	}
	var resp newsAPIResponse
	if err := httputil.DecodeJSON(body, &resp); err != nil {
		return nil, attribute(n.Name(), err)
	}
	return &resp, nil
}

// Search queries the /everything endpoint.
func (n *NewsAPI) Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error) {
	start := time.Now()
	opts = opts.WithDefaults()
	params := url.Values{
		"q":        {query},
		"pageSize": {strconv.Itoa(opts.MaxResults)},
		"language": {orDefault(opts.Language, "en")},
		"sortBy":   {orDefault(opts.SortBy, "publishedAt")},
	}
	if opts.FromDate != "" {
		params.Set("from", opts.FromDate)
	}
	if opts.ToDate != "" {
		params.Set("to", opts.ToDate)
	}
	if src := opts.Filters["sources"]; src != "" {
		params.Set("sources", src)
	}

	resp, err := n.get(ctx, "/everything", params)
	if err != nil {
		return nil, err
	}

	articles := resp.articles()
	results := make([]types.SearchResult, 0, len(articles))
	for _, a := range articles {
		results = append(results, a.ToResult(newsAPIScore))
	}
	total := resp.TotalResults
	if total == 0 {
		total = len(results)
	}
	return &types.ResultSet{Results: results, Total: total, Provider: n.Name(), ElapsedMs: elapsedMs(start)}, nil
}

// Headlines queries /top-headlines. query may be empty.
func (n *NewsAPI) Headlines(ctx context.Context, query string, opts types.NewsOptions) (*types.ResultSet, error) {
	start := time.Now()
	opts = opts.WithDefaults()
	params := url.Values{
		"pageSize": {strconv.Itoa(opts.MaxResults)},
		"country":  {opts.Country},
	}
	if query != "" {
		params.Set("q", query)
	}
	if opts.Category != "" {
		params.Set("category", opts.Category)
	}
	if opts.SortBy != "" {
		params.Set("sortBy", opts.SortBy)
	}
	if opts.FromDate != "" {
		params.Set("from", opts.FromDate)
	}
	if opts.ToDate != "" {
		params.Set("to", opts.ToDate)
	}

	resp, err := n.get(ctx, "/top-headlines", params)
	if err != nil {
		return nil, err
	}

	articles := resp.articles()
	results := make([]types.SearchResult, 0, len(articles))
	for _, a := range articles {
		results = append(results, a.ToResult(newsAPIScore))
	}
	total := resp.TotalResults
	if total == 0 {
		total = len(results)
	}
	return &types.ResultSet{Results: results, Total: total, Provider: n.Name(), ElapsedMs: elapsedMs(start)}, nil
}
