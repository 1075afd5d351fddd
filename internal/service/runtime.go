// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package service

import (
	"fmt"

	"github.com/pdiddy/websearch/internal/cache"
	"github.com/pdiddy/websearch/internal/intent"
	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/metrics"
	"github.com/pdiddy/websearch/internal/search"
	"github.com/pdiddy/websearch/internal/store"
	"github.com/pdiddy/websearch/pkg/types"
)

// Runtime is a fully wired Service together with the pieces the HTTP and
// CLI surfaces inspect directly.
type Runtime struct {
	*Service

	Config   types.ServiceConfig
	Store    *store.Store
	Cache    *cache.ResultCache
	History  *store.History
	Registry *search.Registry
}

// Open builds a Runtime from cfg: it opens the sqlite store, builds every
// provider whose credentials are present and wires the orchestrator.
func Open(cfg types.ServiceConfig, log logging.Logger, m *metrics.Collector) (*Runtime, error) {
	st, err := store.Open(cfg.Cache.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	rc := cache.New(st, cfg.Cache.Enabled, log)
	history := store.NewHistory(st)
	registry := search.NewRegistryFromConfig(cfg.Search)
	orch := search.NewOrchestrator(registry, intent.Lexicon{}, cfg.Search, log)

	d := Deps{
		Searcher: orch,
		Cache:    rc,
		History:  history,
		TTL:      cache.TTLPolicy{TimeSensitive: cfg.Cache.TTLTimeSensitive, General: cfg.Cache.TTLGeneral},
		Metrics:  m,
		Log:      log,
	}
	if p, ok := registry.Get(search.NameNewsAPI); ok {
		if news, ok := p.(*search.NewsAPI); ok {
			d.News = news
		}
	}

	log.WithFields(logging.Fields{
		"providers":     registry.Names(),
		"fallback_mode": orch.Mode(),
		"cache_enabled": rc.Enabled(),
		"db_path":       cfg.Cache.DBPath,
	}).Info("search service ready")

	return &Runtime{
		Service:  New(d),
		Config:   cfg,
		Store:    st,
		Cache:    rc,
		History:  history,
		Registry: registry,
	}, nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	return r.Store.Close()
}
