// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/search"
	"github.com/pdiddy/websearch/pkg/types"
)

// Action names, which double as route paths.
const (
	ActionSearch       = "web.search"
	ActionNews         = "web.news"
	ActionScrape       = "web.scrape"
	ActionHealth       = "service.health"
	ActionCapabilities = "service.capabilities"

	pathHealth       = "/" + ActionHealth
	pathCapabilities = "/" + ActionCapabilities
	pathMetrics      = "/metrics"
)

// Version is reported by service.health.
const Version = "1.0.0"

// actionRequest is the body accepted by every POST action.
type actionRequest struct {
	RequestID string               `json:"requestId"`
	Payload   actionPayload        `json:"payload"`
	Context   types.RequestContext `json:"context"`
}

type actionPayload struct {
	Query      string            `json:"query"`
	URL        string            `json:"url"`
	Provider   string            `json:"provider"`
	MaxResults int               `json:"maxResults"`
	Filters    map[string]string `json:"filters"`
	Language   string            `json:"language"`
	SortBy     string            `json:"sortBy"`
	FromDate   string            `json:"fromDate"`
	ToDate     string            `json:"toDate"`
	Country    string            `json:"country"`
	Category   string            `json:"category"`
	SafeSearch string            `json:"safeSearch"`
	Freshness  string            `json:"freshness"`
}

// actionFunc runs one action and returns its data and timing split.
type actionFunc func(ctx context.Context, req actionRequest) (data any, providerMs, cacheMs int64, err error)

// action binds the request body, runs fn and writes the envelope.
func (s *Server) action(name string, fn actionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		var req actionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			s.fail(c, name, c.GetString(requestIDKey), start,
				apperr.Wrap(apperr.KindInvalidRequest, err, "invalid request body"))
			return
		}
		requestID := req.RequestID
		if requestID == "" {
			requestID = c.GetString(requestIDKey)
		}

		data, providerMs, cacheMs, err := fn(c.Request.Context(), req)
		if err != nil {
			s.fail(c, name, requestID, start, err)
			return
		}

		elapsed := time.Since(start)
		s.metrics.RecordRequest(name, true, elapsed)

		env := newEnvelope(name, requestID)
		env.Status = StatusOK
		env.Data = data
		env.Metrics = &EnvelopeMetrics{
			ElapsedMs:  elapsed.Milliseconds(),
			ProviderMs: providerMs,
			CacheMs:    cacheMs,
		}
		c.JSON(http.StatusOK, env)
	}
}

func (s *Server) fail(c *gin.Context, name, requestID string, start time.Time, err error) {
	kind := apperr.KindOf(err)
	elapsed := time.Since(start)
	s.metrics.RecordRequest(name, false, elapsed)
	s.metrics.RecordError(string(kind))

	s.log.WithFields(logging.Fields{
		"action":     name,
		"request_id": requestID,
		"code":       kind,
		"error":      err.Error(),
	}).Warn("action failed")

	env := newEnvelope(name, requestID)
	env.Status = StatusError
	env.Error = &ErrorBody{Code: string(kind), Message: apperr.Message(err)}
	env.Metrics = &EnvelopeMetrics{ElapsedMs: elapsed.Milliseconds()}
	c.JSON(statusFor(kind), env)
}

func missingQuery(p actionPayload) error {
	if p.Query == "" {
		return apperr.New(apperr.KindInvalidRequest, "Missing required field: query")
	}
	return nil
}

func (s *Server) handleSearch(ctx context.Context, req actionRequest) (any, int64, int64, error) {
	if err := missingQuery(req.Payload); err != nil {
		return nil, 0, 0, err
	}
	p := req.Payload
	language := p.Language
	if language == "" {
		language = "en"
	}
	resp, err := s.backend.Search(ctx, types.SearchRequest{
		Query: p.Query,
		Options: types.SearchOptions{
			Provider:   p.Provider,
			MaxResults: p.MaxResults,
			Filters:    p.Filters,
			Language:   language,
			SortBy:     p.SortBy,
			FromDate:   p.FromDate,
			ToDate:     p.ToDate,
			Country:    p.Country,
			SafeSearch: p.SafeSearch,
			Freshness:  p.Freshness,
		},
		Context: req.Context,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return resp, resp.ProviderMs, resp.CacheMs, nil
}

func (s *Server) handleNews(ctx context.Context, req actionRequest) (any, int64, int64, error) {
	if err := missingQuery(req.Payload); err != nil {
		return nil, 0, 0, err
	}
	p := req.Payload
	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "publishedAt"
	}
	resp, err := s.backend.SearchNewsOnly(ctx, types.NewsRequest{
		Query: p.Query,
		Options: types.NewsOptions{
			Category:   p.Category,
			Country:    p.Country,
			Language:   p.Language,
			MaxResults: p.MaxResults,
			SortBy:     sortBy,
			FromDate:   p.FromDate,
			ToDate:     p.ToDate,
		},
		Context: req.Context,
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return resp, resp.ProviderMs, resp.CacheMs, nil
}

func (s *Server) handleScrape(ctx context.Context, req actionRequest) (any, int64, int64, error) {
	return nil, 0, 0, s.backend.Scrape(ctx, req.Payload.URL)
}

// healthData is the service.health payload.
type healthData struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Uptime    float64           `json:"uptime"`
	Providers map[string]string `json:"providers"`
	Cache     types.CacheStats  `json:"cache"`
	Metrics   any               `json:"metrics"`
}

func (s *Server) handleHealth(c *gin.Context) {
	providers := make(map[string]string, len(search.KnownProviders))
	for _, name := range search.KnownProviders {
		providers[name] = "unavailable"
	}
	for _, name := range s.providers {
		providers[name] = "available"
	}

	status := "healthy"
	stats, err := s.backend.CacheStats(c.Request.Context())
	if err != nil {
		status = "degraded"
		s.log.WithError(err).Warn("cache stats unavailable")
	}

	env := newEnvelope(ActionHealth, c.GetString(requestIDKey))
	env.Status = StatusOK
	env.Data = healthData{
		Service:   logging.ServiceName,
		Version:   Version,
		Status:    status,
		Uptime:    s.metrics.Uptime().Seconds(),
		Providers: providers,
		Cache:     stats,
		Metrics:   s.metrics.Snapshot(),
	}
	c.JSON(http.StatusOK, env)
}

// actionInfo describes one action for service.capabilities.
type actionInfo struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	InputSchema  map[string]any `json:"inputSchema"`
	OutputSchema map[string]any `json:"outputSchema"`
}

type providerInfo struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type capabilitiesData struct {
	Actions   []actionInfo   `json:"actions"`
	Providers []providerInfo `json:"providers"`
	Features  []string       `json:"features"`
}

var features = []string{
	"multi-provider",
	"intelligent-caching",
	"fallback-mechanism",
	"rate-limiting",
	"result-enrichment",
}

func queryInput(extra map[string]any) map[string]any {
	props := map[string]any{
		"query":      map[string]any{"type": "string"},
		"maxResults": map[string]any{"type": "integer", "minimum": 1, "maximum": types.MaxMaxResults},
		"language":   map[string]any{"type": "string"},
		"sortBy":     map[string]any{"type": "string"},
		"fromDate":   map[string]any{"type": "string"},
		"toDate":     map[string]any{"type": "string"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]any{"type": "object", "required": []string{"query"}, "properties": props}
}

func listOutput(item string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			item:        map[string]any{"type": "array"},
			"total":     map[string]any{"type": "integer"},
			"cached":    map[string]any{"type": "boolean"},
			"elapsedMs": map[string]any{"type": "integer"},
		},
	}
}

func (s *Server) handleCapabilities(c *gin.Context) {
	active := make(map[string]bool, len(s.providers))
	for _, name := range s.providers {
		active[name] = true
	}
	providers := make([]providerInfo, 0, len(search.KnownProviders))
	for _, name := range search.KnownProviders {
		providers = append(providers, providerInfo{Name: name, Active: active[name]})
	}

	env := newEnvelope(ActionCapabilities, c.GetString(requestIDKey))
	env.Status = StatusOK
	env.Data = capabilitiesData{
		Actions: []actionInfo{
			{
				Name:        ActionSearch,
				Description: "Search the web with automatic provider fallback and caching",
				InputSchema: queryInput(map[string]any{
					"provider": map[string]any{"type": "string", "default": types.ProviderAuto},
					"filters":  map[string]any{"type": "object"},
				}),
				OutputSchema: listOutput("results"),
			},
			{
				Name:        ActionNews,
				Description: "Top headlines filtered by category and country",
				InputSchema: queryInput(map[string]any{
					"category": map[string]any{"type": "string"},
					"country":  map[string]any{"type": "string", "default": types.DefaultNewsCountry},
				}),
				OutputSchema: listOutput("articles"),
			},
			{
				Name:        ActionScrape,
				Description: "Fetch and extract content from a URL (not yet implemented)",
				InputSchema: map[string]any{
					"type":       "object",
					"required":   []string{"url"},
					"properties": map[string]any{"url": map[string]any{"type": "string"}},
				},
				OutputSchema: map[string]any{"type": "object"},
			},
		},
		Providers: providers,
		Features:  features,
	}
	c.JSON(http.StatusOK, env)
}

func handleNotFound(c *gin.Context) {
	abortWithError(c, http.StatusNotFound, "", CodeNotFound, "Endpoint "+c.Request.URL.Path+" not found")
}
