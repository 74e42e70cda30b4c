package store

import (
	"context"
	"os"

	"github.com/rcliao/move-nudge/internal/model"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string          `json:"db_path"`
	DBSizeBytes   int64           `json:"db_size_bytes"`
	TotalEvents   int             `json:"total_events"`
	PendingUpload int             `json:"pending_upload"`
	Reminders     int             `json:"reminders"`
	FirstEventAt  model.Timestamp `json:"first_event_at,omitempty"`
	LastEventAt   model.Timestamp `json:"last_event_at,omitempty"`
	Kinds         []KindStats     `json:"kinds"`
}

// KindStats holds per-kind event counts.
type KindStats struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, Kinds: []KindStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&st.TotalEvents)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE status = ?`, model.StatusNew.String()).Scan(&st.PendingUpload)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reminders`).Scan(&st.Reminders)
	s.db.QueryRowContext(ctx, `SELECT COALESCE(MIN(occurred_at), 0), COALESCE(MAX(occurred_at), 0) FROM events`).
		Scan(&st.FirstEventAt, &st.LastEventAt)

	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*) AS cnt
		FROM events
		GROUP BY kind ORDER BY cnt DESC, kind`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var k KindStats
		rows.Scan(&k.Kind, &k.Count)
		st.Kinds = append(st.Kinds, k)
	}

	return st, nil
}
