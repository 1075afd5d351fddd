// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/websearch/pkg/types"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "websearch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for _, table := range []string{"search_cache", "search_history"} {
		var name string
		err := s.DB().QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	rows, err := s.DB().QueryContext(ctx, `PRAGMA table_info(search_cache)`)
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var (
			cid      int
			name     string
			ctype    string
			notnull  int
			dflt     any
			primaryK int
		)
		require.NoError(t, rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &primaryK))
		cols = append(cols, name)
	}
	assert.Equal(t, []string{"id", "query", "normalized_query", "provider", "results",
		"created_at", "expires_at", "hit_count", "last_accessed"}, cols)
	require.NoError(t, s.Ping(ctx))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "websearch.db")
	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestTimeFormatSortsChronologically(t *testing.T) {
	a := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	b := a.Add(1500 * time.Millisecond)
	assert.Less(t, FormatTime(a), FormatTime(b))
	assert.Equal(t, "2026-01-02T03:04:05.000Z", FormatTime(a))

	parsed, err := ParseTime(FormatTime(b))
	require.NoError(t, err)
	assert.True(t, parsed.Equal(b))
}

// --- history ---

func TestHistoryRecord(t *testing.T) {
	s := openTemp(t)
	h := NewHistory(s)
	ctx := context.Background()

	require.NoError(t, h.Record(ctx, types.SearchHistoryEntry{
		Query: "go generics", Provider: "duckduckgo", ResultsCount: 4, ElapsedMs: 120, UserID: "u1",
	}))
	require.NoError(t, h.Record(ctx, types.SearchHistoryEntry{
		Query: "go generics", Provider: "cache", ResultsCount: 4, Cached: true,
	}))

	n, err := h.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var id string
	var user, session *string
	var cached bool
	err = s.DB().QueryRowContext(ctx,
		`SELECT id, user_id, session_id, cached FROM search_history WHERE provider = 'duckduckgo'`).
		Scan(&id, &user, &session, &cached)
	require.NoError(t, err)
	assert.Regexp(t, `^search_\d+_[0-9a-f]{8}$`, id)
	require.NotNil(t, user)
	assert.Equal(t, "u1", *user)
	assert.Nil(t, session)
	assert.False(t, cached)
}

func TestHistoryRecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO search_history")).
		WillReturnError(errors.New("disk I/O error"))

	h := NewHistory(New(db))
	err = h.Record(context.Background(), types.SearchHistoryEntry{Query: "q", Provider: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	id := NewID("cache", now)
	assert.Regexp(t, `^cache_1700000000123_[0-9a-f]{8}$`, id)
	assert.NotEqual(t, id, NewID("cache", now))
}
