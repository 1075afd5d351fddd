// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache stores provider result sets in sqlite, keyed by normalized
// query, with a per-entry expiry and hit counter. Expired rows are removed
// only when a later write runs its cleanup pass.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/store"
	"github.com/pdiddy/websearch/pkg/types"
)

// ResultCache is the sqlite-backed result cache. A disabled cache misses on
// every Get and ignores every Put.
type ResultCache struct {
	db      *sql.DB
	enabled bool
	log     logging.Logger
	now     func() time.Time
}

// New returns a cache writing through s.
func New(s *store.Store, enabled bool, log logging.Logger) *ResultCache {
	return &ResultCache{db: s.DB(), enabled: enabled, log: log, now: time.Now}
}

// Enabled reports whether the cache is active.
func (c *ResultCache) Enabled() bool { return c.enabled }

// Get returns the newest unexpired result set stored under key. Storage and
// decode failures count as misses. A hit bumps the entry's hit count; if
// that update fails the hit is still returned.
func (c *ResultCache) Get(ctx context.Context, key string) (*types.ResultSet, bool) {
	if !c.enabled {
		return nil, false
	}

	now := c.now()
	entry, err := c.lookup(ctx, key, now)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.log.WithError(err).Warn("cache lookup failed")
		}
		return nil, false
	}

	var rs types.ResultSet
	if err := json.Unmarshal([]byte(entry.Payload), &rs); err != nil {
		c.log.WithError(err).WithField("id", entry.ID).Warn("cache entry is not a result set")
		return nil, false
	}

	if _, err := c.db.ExecContext(ctx,
		`UPDATE search_cache SET hit_count = hit_count + 1, last_accessed = ? WHERE id = ?`,
		store.FormatTime(now), entry.ID,
	); err != nil {
		c.log.WithError(err).WithField("id", entry.ID).Warn("cache hit count update failed")
	}

	return &rs, true
}

func (c *ResultCache) lookup(ctx context.Context, key string, now time.Time) (*types.CacheEntry, error) {
	e := types.CacheEntry{NormalizedKey: key}
	err := c.db.QueryRowContext(ctx,
		`SELECT id, provider, results, hit_count FROM search_cache
		 WHERE normalized_query = ? AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		key, store.FormatTime(now),
	).Scan(&e.ID, &e.Provider, &e.Payload, &e.HitCount)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Put stores rs under key until now+ttl, then deletes every expired row.
// A failed cleanup is logged, not returned.
func (c *ResultCache) Put(ctx context.Context, key, query string, rs *types.ResultSet, ttl time.Duration) error {
	if !c.enabled || rs == nil {
		return nil
	}

	payload, err := json.Marshal(rs)
	if err != nil {
		return fmt.Errorf("encoding result set: %w", err)
	}

	now := c.now()
	e := types.CacheEntry{
		ID:             store.NewID("cache", now),
		Query:          query,
		NormalizedKey:  key,
		Provider:       rs.Provider,
		Payload:        string(payload),
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		LastAccessedAt: now,
	}
	if _, err := c.db.ExecContext(ctx,
		`INSERT INTO search_cache (id, query, normalized_query, provider, results, created_at, expires_at, hit_count, last_accessed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		e.ID, e.Query, e.NormalizedKey, e.Provider, e.Payload,
		store.FormatTime(e.CreatedAt), store.FormatTime(e.ExpiresAt), store.FormatTime(e.LastAccessedAt),
	); err != nil {
		return fmt.Errorf("inserting cache entry: %w", err)
	}

	if _, err := c.purgeBefore(ctx, now); err != nil {
		c.log.WithError(err).Warn("cache cleanup failed")
	}
	return nil
}

// Purge deletes every expired entry and returns how many went.
func (c *ResultCache) Purge(ctx context.Context) (int64, error) {
	return c.purgeBefore(ctx, c.now())
}

func (c *ResultCache) purgeBefore(ctx context.Context, now time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM search_cache WHERE expires_at < ?`, store.FormatTime(now))
	if err != nil {
		return 0, fmt.Errorf("deleting expired cache entries: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats summarizes the cache contents.
func (c *ResultCache) Stats(ctx context.Context) (types.CacheStats, error) {
	if !c.enabled {
		return types.CacheStats{Enabled: false}, nil
	}

	var total, active, hits int64
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(hit_count), 0)
		 FROM search_cache`,
		store.FormatTime(c.now()),
	).Scan(&total, &active, &hits)
	if err != nil {
		return types.CacheStats{Enabled: true}, fmt.Errorf("reading cache stats: %w", err)
	}

	return types.CacheStats{
		Enabled:     true,
		ActiveCount: active,
		TotalCount:  total,
		TotalHits:   hits,
		HitRate:     HitRate(hits, total),
	}, nil
}

// HitRate returns totalHits / (totalHits + totalEntries) rounded to two
// decimals, or 0 when there are no hits. It is a lifetime approximation,
// not a hit/miss ratio.
func HitRate(totalHits, totalEntries int64) float64 {
	if totalHits <= 0 {
		return 0
	}
	r := float64(totalHits) / float64(totalHits+totalEntries)
	return math.Round(r*100) / 100
}
