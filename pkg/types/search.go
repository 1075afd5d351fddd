// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the websearch service:
// normalized results, result sets, request options and the persisted cache
// and history records.
package types

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ResultType tags where a SearchResult came from inside an upstream response.
type ResultType string

const (
	TypeWebResult      ResultType = "web-result"
	TypeInstantAnswer  ResultType = "instant-answer"
	TypeRelatedTopic   ResultType = "related-topic"
	TypeRichResult     ResultType = "rich-result"
	TypeGraphResult    ResultType = "graph-result"
	TypeLocationResult ResultType = "location-result"
	TypeNewsArticle    ResultType = "news-article"
	TypeVideoResult    ResultType = "video-result"
	TypeImageResult    ResultType = "image-result"
)

// SearchResult is one normalized hit. Providers produce it once; the
// relevance score is a static heuristic and is never recomputed.
type SearchResult struct {
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	URL         string     `json:"url" yaml:"url"`
	Source      string     `json:"source" yaml:"source"`
	Type        ResultType `json:"type" yaml:"type"`

	// RelevanceScore is a value between 0.0 and 1.0 assigned by position.
	RelevanceScore float64 `json:"relevanceScore" yaml:"relevance_score"`

	Metadata map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// ResultSet is the output of a single provider call.
type ResultSet struct {
	Results   []SearchResult `json:"results" yaml:"results"`
	Total     int            `json:"total" yaml:"total"`
	Provider  string         `json:"provider" yaml:"provider"`
	ElapsedMs int64          `json:"elapsedMs" yaml:"elapsed_ms"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Empty reports whether the set carries no results.
func (rs *ResultSet) Empty() bool {
	return rs == nil || len(rs.Results) == 0
}

// Intent is the classifier's verdict on which specialized endpoint fits a query.
type Intent string

const (
	IntentRich  Intent = "rich"
	IntentNews  Intent = "news"
	IntentVideo Intent = "video"
	IntentImage Intent = "image"
	IntentWeb   Intent = "web"
)

// Intents lists every intent in ranking order. Ties in classifier scores
// resolve to the earlier entry.
var Intents = []Intent{IntentRich, IntentNews, IntentVideo, IntentImage, IntentWeb}

// ProviderAuto asks the orchestrator to pick providers itself.
const ProviderAuto = "auto"

const (
	DefaultMaxResults = 10
	MaxMaxResults     = 50
)

// SearchOptions enumerates every option recognized by the search operation.
type SearchOptions struct {
	// Provider is "auto" or a concrete provider name or alias.
	Provider   string            `json:"provider,omitempty" yaml:"provider,omitempty"`
	MaxResults int               `json:"maxResults,omitempty" yaml:"max_results,omitempty"`
	Filters    map[string]string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Language   string            `json:"language,omitempty" yaml:"language,omitempty"`
	SortBy     string            `json:"sortBy,omitempty" yaml:"sort_by,omitempty"`
	FromDate   string            `json:"fromDate,omitempty" yaml:"from_date,omitempty"`
	ToDate     string            `json:"toDate,omitempty" yaml:"to_date,omitempty"`
	Country    string            `json:"country,omitempty" yaml:"country,omitempty"`
	SafeSearch string            `json:"safeSearch,omitempty" yaml:"safe_search,omitempty"`
	// Freshness is the news time window (pd, pw, pm, py).
	Freshness string `json:"freshness,omitempty" yaml:"freshness,omitempty"`
}

// WithDefaults returns a copy with unset fields filled in.
func (o SearchOptions) WithDefaults() SearchOptions {
	if strings.TrimSpace(o.Provider) == "" {
		o.Provider = ProviderAuto
	}
	o.Provider = strings.ToLower(strings.TrimSpace(o.Provider))
	if o.MaxResults <= 0 {
		o.MaxResults = DefaultMaxResults
	}
	if o.MaxResults > MaxMaxResults {
		o.MaxResults = MaxMaxResults
	}
	return o
}

// KeyFields returns the options that distinguish cached result sets.
// Empty values are omitted so absent and blank options share a key.
func (o SearchOptions) KeyFields() map[string]string {
	fields := map[string]string{
		"provider":   o.Provider,
		"language":   o.Language,
		"sortBy":     o.SortBy,
		"fromDate":   o.FromDate,
		"toDate":     o.ToDate,
		"country":    o.Country,
		"safeSearch": o.SafeSearch,
		"freshness":  o.Freshness,
	}
	if o.MaxResults > 0 {
		fields["maxResults"] = strconv.Itoa(o.MaxResults)
	}
	for k, v := range o.Filters {
		fields["filter."+k] = v
	}
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

// RequestContext identifies who issued a request, when known.
type RequestContext struct {
	UserID    string `json:"userId,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

// SearchRequest is a validated search call.
type SearchRequest struct {
	Query   string
	Options SearchOptions
	Context RequestContext
}

// ErrEmptyQuery is returned by Validate for a blank query.
var ErrEmptyQuery = errors.New("query is required and must be a non-empty string")

// ErrMaxResults is returned by Validate for a negative result count.
var ErrMaxResults = errors.New("maxResults must be between 1 and 50")

// Validate checks the request and returns a copy with trimmed query and
// defaulted options.
func (r SearchRequest) Validate() (SearchRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, ErrEmptyQuery
	}
	if r.Options.MaxResults < 0 {
		return r, ErrMaxResults
	}
	r.Options = r.Options.WithDefaults()
	return r, nil
}

// NewsRequest is a validated news-only call.
type NewsRequest struct {
	Query   string
	Options NewsOptions
	Context RequestContext
}

// Validate checks the request and returns a copy with trimmed query and
// defaulted options.
func (r NewsRequest) Validate() (NewsRequest, error) {
	r.Query = strings.TrimSpace(r.Query)
	if r.Query == "" {
		return r, ErrEmptyQuery
	}
	if r.Options.MaxResults < 0 {
		return r, ErrMaxResults
	}
	r.Options = r.Options.WithDefaults()
	return r, nil
}

// SearchResponse is returned by the search operation.
type SearchResponse struct {
	Results   []SearchResult `json:"results" yaml:"results"`
	Total     int            `json:"total" yaml:"total"`
	Query     string         `json:"query" yaml:"query"`
	Provider  string         `json:"provider" yaml:"provider"`
	Cached    bool           `json:"cached" yaml:"cached"`
	ElapsedMs int64          `json:"elapsedMs" yaml:"elapsed_ms"`

	// ProviderMs and CacheMs split ElapsedMs for the response envelope.
	ProviderMs int64 `json:"-" yaml:"-"`
	CacheMs    int64 `json:"-" yaml:"-"`
}

// CacheEntry is one persisted row of the result cache.
type CacheEntry struct {
	ID             string
	Query          string
	NormalizedKey  string
	Provider       string
	Payload        string
	CreatedAt      time.Time
	ExpiresAt      time.Time
	HitCount       int
	LastAccessedAt time.Time
}

// CacheStats summarizes the result cache.
type CacheStats struct {
	Enabled     bool    `json:"enabled"`
	ActiveCount int64   `json:"activeCount"`
	TotalCount  int64   `json:"totalCount"`
	TotalHits   int64   `json:"totalHits"`
	HitRate     float64 `json:"hitRate"`
}

// SearchHistoryEntry is an append-only audit record of one search.
type SearchHistoryEntry struct {
	ID           string
	Query        string
	Provider     string
	ResultsCount int
	Cached       bool
	ElapsedMs    int64
	UserID       string
	SessionID    string
	CreatedAt    time.Time
}
