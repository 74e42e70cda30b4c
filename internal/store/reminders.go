package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

const snoozeKey = "snooze_until"

func (s *SQLiteStore) RecordReminder(ctx context.Context, r model.Reminder) (*model.Reminder, error) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Second)
	r.ID = s.newID(r.CreatedAt)

	err := retryOnContention(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO reminders (id, still_since, still_secs, created_at) VALUES (?, ?, ?, ?)`,
			r.ID, int64(r.StillSince), r.StillSecs, r.CreatedAt.Format(time.RFC3339))
		return err
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLiteStore) ListReminders(ctx context.Context, limit int) ([]model.Reminder, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, still_since, still_secs, created_at FROM reminders
		 ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []model.Reminder{}
	for rows.Next() {
		var r model.Reminder
		var since int64
		var createdAt string
		if err := rows.Scan(&r.ID, &since, &r.StillSecs, &createdAt); err != nil {
			return nil, err
		}
		r.StillSince = model.Timestamp(since)
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("reminder %s: created_at: %w", r.ID, err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *SQLiteStore) SetSnooze(ctx context.Context, until time.Time) error {
	return retryOnContention(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			snoozeKey, strconv.FormatInt(until.Unix(), 10))
		return err
	})
}

func (s *SQLiteStore) SnoozedUntil(ctx context.Context) (time.Time, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, snoozeKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	secs, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s setting %q: %w", snoozeKey, value, err)
	}
	return time.Unix(secs, 0), nil
}

func (s *SQLiteStore) ClearSnooze(ctx context.Context) error {
	return retryOnContention(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, snoozeKey)
		return err
	})
}
