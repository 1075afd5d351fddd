// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the in-process request and search counters. Every
// counter is mirrored into a Prometheus registry owned by the Collector, so
// several collectors can coexist in one process (tests build their own).
package metrics

import (
	"math"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "websearch"

// Collector counts requests, errors, searches and cache outcomes.
type Collector struct {
	start time.Time

	requests      atomic.Int64
	errors        atomic.Int64
	searches      atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	responseNanos atomic.Int64

	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	searchesTotal   *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	providerErrors  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	TotalRequests int64   `json:"totalRequests"`
	TotalErrors   int64   `json:"totalErrors"`
	TotalSearches int64   `json:"totalSearches"`
	CacheHits     int64   `json:"cacheHits"`
	CacheMisses   int64   `json:"cacheMisses"`
	ErrorRate     float64 `json:"errorRate"`
	AvgResponseMs int64   `json:"avgResponseTime"`
	UptimeSeconds int64   `json:"uptime"`
}

// New returns a collector whose uptime starts now.
func New() *Collector {
	c := &Collector{
		start:    time.Now(),
		registry: prometheus.NewRegistry(),
	}

	c.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of handled requests",
		},
		[]string{"action", "status"},
	)
	c.searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches answered, by provider and cache outcome",
		},
		[]string{"provider", "cached"},
	)
	c.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups",
		},
		[]string{"result"},
	)
	c.providerErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Failed requests by error code",
		},
		[]string{"code"},
	)
	c.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	c.registry.MustRegister(
		c.requestsTotal,
		c.searchesTotal,
		c.cacheLookups,
		c.providerErrors,
		c.requestDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// RecordRequest counts one handled request and its duration.
func (c *Collector) RecordRequest(action string, ok bool, elapsed time.Duration) {
	c.requests.Add(1)
	c.responseNanos.Add(int64(elapsed))
	status := "ok"
	if !ok {
		status = "error"
	}
	c.requestsTotal.WithLabelValues(action, status).Inc()
	c.requestDuration.WithLabelValues(action).Observe(elapsed.Seconds())
}

// RecordError counts one failed request under code.
func (c *Collector) RecordError(code string) {
	c.errors.Add(1)
	c.providerErrors.WithLabelValues(code).Inc()
}

// RecordSearch counts one answered search.
func (c *Collector) RecordSearch(provider string, cached bool) {
	c.searches.Add(1)
	c.searchesTotal.WithLabelValues(provider, strconv.FormatBool(cached)).Inc()
}

// RecordCacheHit counts a cache hit.
func (c *Collector) RecordCacheHit() {
	c.cacheHits.Add(1)
	c.cacheLookups.WithLabelValues("hit").Inc()
}

// RecordCacheMiss counts a cache miss.
func (c *Collector) RecordCacheMiss() {
	c.cacheMisses.Add(1)
	c.cacheLookups.WithLabelValues("miss").Inc()
}

// Uptime returns how long the collector has existed.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.start)
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		TotalRequests: c.requests.Load(),
		TotalErrors:   c.errors.Load(),
		TotalSearches: c.searches.Load(),
		CacheHits:     c.cacheHits.Load(),
		CacheMisses:   c.cacheMisses.Load(),
		UptimeSeconds: int64(c.Uptime().Seconds()),
	}
	if s.TotalRequests > 0 {
		s.ErrorRate = math.Round(float64(s.TotalErrors)/float64(s.TotalRequests)*1000) / 1000
		s.AvgResponseMs = time.Duration(c.responseNanos.Load() / s.TotalRequests).Milliseconds()
	}
	return s
}

// Registry exposes the Prometheus registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the collector's metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
