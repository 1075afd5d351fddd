// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store opens the sqlite database that backs the result cache and
// the search history log, and owns their schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// TimeLayout is how timestamps are stored. Values are always UTC and fixed
// width so string comparison orders them chronologically.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime is the inverse of FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// Store wraps the database handle shared by the cache and the history log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and creates the schema if it
// does not exist.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := New(db)
	if err := s.createSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// New wraps an already open handle without touching the schema. Tests use
// it with sqlmock.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS search_cache (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			normalized_query TEXT NOT NULL,
			provider TEXT NOT NULL,
			results TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			hit_count INTEGER NOT NULL DEFAULT 0,
			last_accessed TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_normalized_query ON search_cache(normalized_query)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON search_cache(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_provider ON search_cache(provider)`,
		`CREATE TABLE IF NOT EXISTS search_history (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			provider TEXT NOT NULL,
			results_count INTEGER NOT NULL,
			cached INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			user_id TEXT,
			session_id TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_created_at ON search_history(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}
