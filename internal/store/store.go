// Package store provides the activity event log interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// AppendParams holds parameters for recording a transition.
type AppendParams struct {
	Kind model.ActivityKind
	At   model.Timestamp
}

// Store defines the event log interface.
type Store interface {
	// Append records a transition. Returns the stored event and whether a
	// new row was written; a transition matching the preceding kind is
	// suppressed and the preceding event is returned instead.
	Append(ctx context.Context, p AppendParams) (*model.Event, bool, error)

	// AppendBatch records transitions in time order. Returns how many were written.
	AppendBatch(ctx context.Context, ps []AppendParams) (int, error)

	// Range returns events with start <= occurred_at < end, oldest first.
	Range(ctx context.Context, start, end model.Timestamp) ([]model.Event, error)

	// Latest returns the most recent event.
	Latest(ctx context.Context) (*model.Event, error)

	// LatestBefore returns the most recent event strictly before t.
	LatestBefore(ctx context.Context, t model.Timestamp) (*model.Event, error)

	// ListByStatus returns events with the given upload status, oldest first.
	ListByStatus(ctx context.Context, status model.UploadStatus, limit int) ([]model.Event, error)

	// MarkUploaded flags events as handed off to sync.
	MarkUploaded(ctx context.Context, ids []int64) error

	// RecordReminder stores a delivered reminder and assigns its ID.
	RecordReminder(ctx context.Context, r model.Reminder) (*model.Reminder, error)

	// ListReminders returns reminders, newest first.
	ListReminders(ctx context.Context, limit int) ([]model.Reminder, error)

	// SetSnooze suppresses reminders until the given time.
	SetSnooze(ctx context.Context, until time.Time) error

	// SnoozedUntil returns the snooze deadline, or the zero time if unset.
	SnoozedUntil(ctx context.Context) (time.Time, error)

	// ClearSnooze removes any snooze.
	ClearSnooze(ctx context.Context) error

	// Close closes the store.
	Close() error
}

// Compile-time check that *SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
