// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the search service over HTTP as a set of
// envelope-wrapped actions.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/metrics"
	"github.com/pdiddy/websearch/pkg/types"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Backend runs the actions the HTTP surface exposes.
type Backend interface {
	Search(ctx context.Context, req types.SearchRequest) (*types.SearchResponse, error)
	SearchNewsOnly(ctx context.Context, req types.NewsRequest) (*types.NewsResponse, error)
	Scrape(ctx context.Context, url string) error
	CacheStats(ctx context.Context) (types.CacheStats, error)
}

// Options configures a Server.
type Options struct {
	Backend Backend
	Metrics *metrics.Collector

	// Providers names the configured providers, reported as active.
	Providers []string

	Config types.ServerConfig
	Log    logging.Logger
}

// Server is the gin router plus the state its handlers share.
type Server struct {
	backend   Backend
	metrics   *metrics.Collector
	providers []string
	cfg       types.ServerConfig
	log       logging.Logger
	limiter   *RateLimiter
	engine    *gin.Engine
}

// New builds the router. Middleware order: request id, recovery, logging,
// CORS, auth, rate limit.
func New(o Options) *Server {
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	s := &Server{
		backend:   o.Backend,
		metrics:   o.Metrics,
		providers: o.Providers,
		cfg:       o.Config,
		log:       o.Log,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(s.log))
	router.Use(Logging(s.log))
	router.Use(CORS(s.cfg.AllowedOrigins))
	router.Use(BearerAuth(s.cfg.APIKey))
	if s.cfg.RateLimitEnabled {
		s.limiter = NewRateLimiter(s.cfg.RateLimitWindow, s.cfg.RateLimitMax)
		router.Use(s.limiter.Middleware())
	}

	router.POST("/"+ActionSearch, s.action(ActionSearch, s.handleSearch))
	router.POST("/"+ActionNews, s.action(ActionNews, s.handleNews))
	router.POST("/"+ActionScrape, s.action(ActionScrape, s.handleScrape))
	router.GET(pathHealth, s.handleHealth)
	router.GET(pathCapabilities, s.handleCapabilities)
	router.GET(pathMetrics, gin.WrapH(s.metrics.Handler()))
	router.NoRoute(handleNotFound)

	s.engine = router
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Addr is the listen address built from Host and Port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, s.cfg.Port)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.limiter != nil {
		go s.limiter.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("Server exited")
	return nil
}
