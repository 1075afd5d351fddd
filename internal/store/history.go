// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/websearch/pkg/types"
)

// History appends search audit records. Nothing in the service reads them
// back except Count, which the CLI uses.
type History struct {
	db  *sql.DB
	now func() time.Time
}

// NewHistory returns a history log writing through s.
func NewHistory(s *Store) *History {
	return &History{db: s.db, now: time.Now}
}

// NewID returns an identifier of the form <prefix>_<unix ms>_<8 hex chars>.
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), uuid.NewString()[:8])
}

// Record inserts e. Empty ID and CreatedAt are filled in.
func (h *History) Record(ctx context.Context, e types.SearchHistoryEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = h.now()
	}
	if e.ID == "" {
		e.ID = NewID("search", e.CreatedAt)
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO search_history (id, query, provider, results_count, cached, elapsed_ms, user_id, session_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Query, e.Provider, e.ResultsCount, e.Cached, e.ElapsedMs,
		nullString(e.UserID), nullString(e.SessionID), FormatTime(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting search history: %w", err)
	}
	return nil
}

// Count returns the number of history rows.
func (h *History) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM search_history`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting search history: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
