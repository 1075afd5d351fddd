// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/internal/logging"
	"github.com/pdiddy/websearch/internal/store"
	"github.com/pdiddy/websearch/pkg/types"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newTestCache(t *testing.T, enabled bool) (*ResultCache, *fakeClock) {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New(s, enabled, logging.Discard())
	c.now = clock.Now
	return c, clock
}

func sampleSet(provider string, n int) *types.ResultSet {
	rs := &types.ResultSet{Provider: provider, ElapsedMs: 42}
	for i := 0; i < n; i++ {
		rs.Results = append(rs.Results, types.SearchResult{
			Title:          "Result",
			URL:            "https://example.com/" + string(rune('a'+i)),
			Source:         "Example",
			Type:           types.TypeWebResult,
			RelevanceScore: 0.9 - float64(i)*0.05,
			Metadata:       map[string]any{"age": "2 days ago"},
		})
	}
	rs.Total = n
	return rs
}

// --- round trip ---

func TestPutGetRoundTrip(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()
	key := NormalizeKey("go generics", map[string]string{"provider": "auto"})

	want := sampleSet("duckduckgo", 3)
	require.NoError(t, c.Put(ctx, key, "go generics", want, 1000*time.Millisecond))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, want, got)

	clock.Advance(1001 * time.Millisecond)
	_, ok = c.Get(ctx, key)
	assert.False(t, ok, "entry should expire after its ttl")
}

func TestGetMissingKey(t *testing.T) {
	c, _ := newTestCache(t, true)
	_, ok := c.Get(context.Background(), "nothing|{}")
	assert.False(t, ok)
}

func TestGetReturnsNewestEntry(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", "q", sampleSet("brave-web", 1), time.Hour))
	clock.Advance(time.Second)
	require.NoError(t, c.Put(ctx, "k", "q", sampleSet("duckduckgo", 2), time.Hour))

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "duckduckgo", got.Provider)
}

func TestGetIncrementsHitCount(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "k", "q", sampleSet("brave-web", 1), time.Hour))

	clock.Advance(time.Minute)
	for i := 0; i < 3; i++ {
		_, ok := c.Get(ctx, "k")
		require.True(t, ok)
	}

	var hits int
	var last string
	require.NoError(t, c.db.QueryRow(`SELECT hit_count, last_accessed FROM search_cache`).Scan(&hits, &last))
	assert.Equal(t, 3, hits)
	assert.Equal(t, store.FormatTime(clock.Now()), last)
}

func TestPutCleansUpExpiredRows(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "old", "old", sampleSet("brave-web", 1), time.Second))
	clock.Advance(2 * time.Second)
	require.NoError(t, c.Put(ctx, "new", "new", sampleSet("brave-web", 1), time.Hour))

	var n int
	require.NoError(t, c.db.QueryRow(`SELECT COUNT(*) FROM search_cache WHERE normalized_query = 'old'`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestPurge(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "a", "a", sampleSet("p", 1), time.Second))
	require.NoError(t, c.Put(ctx, "b", "b", sampleSet("p", 1), time.Second))
	clock.Advance(time.Minute)

	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// --- disabled ---

func TestDisabledCache(t *testing.T) {
	c, _ := newTestCache(t, false)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "k", "q", sampleSet("p", 1), time.Hour))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.CacheStats{Enabled: false}, stats)
}

// --- stats ---

func TestStats(t *testing.T) {
	c, clock := newTestCache(t, true)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, "expiring", "q1", sampleSet("p", 1), time.Second))
	require.NoError(t, c.Put(ctx, "live", "q2", sampleSet("p", 1), time.Hour))
	for i := 0; i < 5; i++ {
		_, ok := c.Get(ctx, "live")
		require.True(t, ok)
	}
	clock.Advance(2 * time.Second)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Enabled)
	assert.Equal(t, int64(2), stats.TotalCount)
	assert.Equal(t, int64(1), stats.ActiveCount)
	assert.Equal(t, int64(5), stats.TotalHits)
	assert.Equal(t, 0.71, stats.HitRate)
}

func TestHitRate(t *testing.T) {
	tests := []struct {
		hits, entries int64
		want          float64
	}{
		{5, 2, 0.71},
		{0, 10, 0},
		{1, 0, 1},
		{1, 1, 0.5},
		{2, 1, 0.67},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HitRate(tt.hits, tt.entries), "hits=%d entries=%d", tt.hits, tt.entries)
	}
}

// --- storage failures ---

func newMockCache(t *testing.T) (*ResultCache, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(store.New(db), true, logging.Discard()), mock
}

func TestGetSurvivesHitCountFailure(t *testing.T) {
	c, mock := newMockCache(t)
	payload := `{"results":[{"title":"t","description":"","url":"u","source":"s","type":"web-result","relevanceScore":0.9}],"total":1,"provider":"brave-web","elapsedMs":5}`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, provider, results, hit_count FROM search_cache")).
		WithArgs("k", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider", "results", "hit_count"}).
			AddRow("cache_1_abcdef12", "brave-web", payload, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE search_cache SET hit_count")).
		WillReturnError(errors.New("database is locked"))

	rs, ok := c.Get(context.Background(), "k")
	require.True(t, ok)
	assert.Equal(t, "brave-web", rs.Provider)
	assert.Len(t, rs.Results, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTreatsQueryFailureAsMiss(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectQuery("SELECT id, provider, results").WillReturnError(errors.New("no such table"))

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTreatsCorruptPayloadAsMiss(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectQuery("SELECT id, provider, results").
		WillReturnRows(sqlmock.NewRows([]string{"id", "provider", "results", "hit_count"}).
			AddRow("cache_1_abcdef12", "brave-web", "{not json", 0))

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutSurvivesCleanupFailure(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_cache")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM search_cache")).
		WillReturnError(errors.New("database is locked"))

	err := c.Put(context.Background(), "k", "q", sampleSet("p", 1), time.Hour)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPutReturnsInsertFailure(t *testing.T) {
	c, mock := newMockCache(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_cache")).
		WillReturnError(errors.New("disk full"))

	err := c.Put(context.Background(), "k", "q", sampleSet("p", 1), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
