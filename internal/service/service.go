// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package service composes the result cache, the provider orchestrator, the
// search history and the counters into the two search operations.
package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pdiddy/websearch/internal/apperr"
	"github.com/pdiddy/websearch/internal/cache"
	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/metrics"
	"github.com/pdiddy/websearch/pkg/types"
)

// ScrapeNotImplemented is the message returned for URL scraping requests.
const ScrapeNotImplemented = "URL scraping is not yet implemented. This feature is planned for a future release."

// newsProvider is recorded in history and responses for news-only searches.
const newsProvider = "newsapi"

// Searcher runs a query through the configured providers.
type Searcher interface {
	Search(ctx context.Context, query string, opts types.SearchOptions) (*types.ResultSet, error)
}

// HeadlineSource answers news-only searches.
type HeadlineSource interface {
	Headlines(ctx context.Context, query string, opts types.NewsOptions) (*types.ResultSet, error)
}

// ResultCache stores result sets by normalized key.
type ResultCache interface {
	Get(ctx context.Context, key string) (*types.ResultSet, bool)
	Put(ctx context.Context, key, query string, rs *types.ResultSet, ttl time.Duration) error
	Stats(ctx context.Context) (types.CacheStats, error)
}

// HistoryRecorder appends search audit records.
type HistoryRecorder interface {
	Record(ctx context.Context, e types.SearchHistoryEntry) error
}

// Deps are the collaborators of a Service. News may be nil when no news
// credential is configured.
type Deps struct {
	Searcher Searcher
	News     HeadlineSource
	Cache    ResultCache
	History  HistoryRecorder
	TTL      cache.TTLPolicy
	Metrics  *metrics.Collector
	Log      logging.Logger
}

// Service implements the search and news-only operations.
type Service struct {
	searcher Searcher
	news     HeadlineSource
	cache    ResultCache
	history  HistoryRecorder
	ttl      cache.TTLPolicy
	metrics  *metrics.Collector
	log      logging.Logger

	// inflight collapses concurrent misses for the same normalized key.
	inflight singleflight.Group
}

// New returns a Service over d.
func New(d Deps) *Service {
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.TTL == (cache.TTLPolicy{}) {
		d.TTL = cache.DefaultTTLPolicy()
	}
	return &Service{
		searcher: d.Searcher,
		news:     d.News,
		cache:    d.Cache,
		history:  d.History,
		ttl:      d.TTL,
		metrics:  d.Metrics,
		log:      d.Log,
	}
}

// Metrics returns the service's counters.
func (s *Service) Metrics() *metrics.Collector { return s.metrics }

// NewsEnabled reports whether news-only searches can be served.
func (s *Service) NewsEnabled() bool { return s.news != nil }

// Search answers req from the cache when possible and from the providers
// otherwise. Cache writes and history records never fail the search.
func (s *Service) Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error) {
	start := time.Now()
	req, err := req.Validate()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidRequest, err, "invalid search request")
	}
	key := cache.NormalizeKey(req.Query, req.Options.KeyFields())

	rs, cached, providerMs, cacheMs, err := s.lookup(ctx, key, req.Query, func(ctx context.Context) (*types.ResultSet, error) {
		return s.searcher.Search(ctx, req.Query, req.Options)
	})
	if err != nil {
		return nil, err
	}

	resp := &types.SearchResponse{
		Results:    rs.Results,
		Total:      total(rs),
		Query:      req.Query,
		Provider:   orDefault(rs.Provider, "cache"),
		Cached:     cached,
		ElapsedMs:  time.Since(start).Milliseconds(),
		ProviderMs: providerMs,
		CacheMs:    cacheMs,
	}
	if resp.Results == nil {
		resp.Results = []types.SearchResult{}
	}
	s.record(ctx, req.Query, resp.Provider, len(resp.Results), cached, resp.ElapsedMs, req.Context)
	return resp, nil
}

// SearchNewsOnly answers req from the news source's headlines, with the same
// caching as Search under a news-scoped key.
func (s *Service) SearchNewsOnly(ctx context.Context, req types.NewsRequest) (*types.NewsResponse, error) {
	start := time.Now()
	req, err := req.Validate()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidRequest, err, "invalid news request")
	}
	if s.news == nil {
		return nil, apperr.New(apperr.KindInvalidAPIKey, "NEWSAPI_KEY is not configured").ForProvider(newsProvider)
	}
	key := cache.NormalizeKey(req.Query, req.Options.KeyFields())

	rs, cached, providerMs, cacheMs, err := s.lookup(ctx, key, req.Query, func(ctx context.Context) (*types.ResultSet, error) {
		return s.news.Headlines(ctx, req.Query, req.Options)
	})
	if err != nil {
		return nil, err
	}

	articles := make([]types.NewsArticle, 0, len(rs.Results))
	for _, r := range rs.Results {
		articles = append(articles, types.ArticleFromResult(r))
	}
	resp := &types.NewsResponse{
		Articles:   articles,
		Total:      total(rs),
		Query:      req.Query,
		Cached:     cached,
		ElapsedMs:  time.Since(start).Milliseconds(),
		ProviderMs: providerMs,
		CacheMs:    cacheMs,
	}
	s.record(ctx, req.Query, newsProvider, len(articles), cached, resp.ElapsedMs, req.Context)
	return resp, nil
}

// Scrape always fails: URL scraping is not offered.
func (s *Service) Scrape(context.Context, string) error {
	return apperr.New(apperr.KindNotImplemented, ScrapeNotImplemented)
}

// CacheStats reports the result cache summary.
func (s *Service) CacheStats(ctx context.Context) (types.CacheStats, error) {
	if s.cache == nil {
		return types.CacheStats{}, nil
	}
	return s.cache.Stats(ctx)
}

// lookup returns the cached set for key or runs fetch, caching a successful
// result with the query's TTL. Concurrent misses for one key share a fetch.
func (s *Service) lookup(ctx context.Context, key, query string, fetch func(context.Context) (*types.ResultSet, error)) (rs *types.ResultSet, cached bool, providerMs, cacheMs int64, err error) {
	if s.cache != nil {
		cacheStart := time.Now()
		hit, ok := s.cache.Get(ctx, key)
		cacheMs = time.Since(cacheStart).Milliseconds()
		if ok {
			s.metrics.RecordCacheHit()
			return hit, true, 0, cacheMs, nil
		}
		s.metrics.RecordCacheMiss()
	}

	providerStart := time.Now()
	v, err, shared := s.inflight.Do(key, func() (any, error) {
		rs, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if rs == nil {
			rs = &types.ResultSet{}
		}
		s.store(ctx, key, query, rs)
		return rs, nil
	})
	providerMs = time.Since(providerStart).Milliseconds()
	if err != nil {
		return nil, false, providerMs, cacheMs, normalize(err)
	}
	if shared {
		s.log.WithField("key", key).Debug("joined in-flight search")
	}
	return v.(*types.ResultSet), false, providerMs, cacheMs, nil
}

func (s *Service) store(ctx context.Context, key, query string, rs *types.ResultSet) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(context.WithoutCancel(ctx), key, query, rs, s.ttl.TTL(query)); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("cache write failed")
	}
}

func (s *Service) record(ctx context.Context, query, provider string, count int, cached bool, elapsedMs int64, rc types.RequestContext) {
	s.metrics.RecordSearch(provider, cached)
	if s.history == nil {
		return
	}
	err := s.history.Record(context.WithoutCancel(ctx), types.SearchHistoryEntry{
		Query:        query,
		Provider:     provider,
		ResultsCount: count,
		Cached:       cached,
		ElapsedMs:    elapsedMs,
		UserID:       rc.UserID,
		SessionID:    rc.SessionID,
	})
	if err != nil {
		s.log.WithError(err).Warn("search history write failed")
	}
}

// normalize makes sure every error leaving the service carries a Kind.
func normalize(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.KindOf(err), err, "search failed")
}

func total(rs *types.ResultSet) int {
	if rs.Total > 0 {
		return rs.Total
	}
	return len(rs.Results)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
