package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcliao/move-nudge/internal/model"
)

// ExportAll returns every event, oldest first.
func (s *SQLiteStore) ExportAll(ctx context.Context) ([]model.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY occurred_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectEvents(rows)
}

// Import stores events from an export, keeping their upload status. IDs are
// reassigned. Events that repeat the preceding kind are skipped.
func (s *SQLiteStore) Import(ctx context.Context, events []model.Event) (int, error) {
	sorted := append([]model.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OccurredAt < sorted[j].OccurredAt })

	imported := 0
	for _, e := range sorted {
		var written bool
		err := retryOnContention(ctx, func() error {
			var err error
			_, written, err = s.appendOnce(ctx, e.Kind, e.OccurredAt, e.Status)
			return err
		})
		if err != nil {
			return imported, fmt.Errorf("import event %d: %w", e.ID, err)
		}
		if written {
			imported++
		}
	}
	return imported, nil
}
