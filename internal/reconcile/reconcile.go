// Package reconcile turns a log of activity transitions into contiguous
// movement intervals.
//
// Short stillness between two movement periods is absorbed into the
// movement: a STILL run shorter than the threshold never ends the interval
// that precedes it. A STILL run at least as long as the threshold is kept
// as its own interval.
package reconcile

import (
	"fmt"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

// Reconcile converts events, ordered by time, into intervals covering the
// span up to now. It does not modify events.
func Reconcile(shortStill time.Duration, now model.Timestamp, events []model.Event) ([]model.Interval, error) {
	if err := Validate(shortStill, now, events); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []model.Interval{}, nil
	}
	// The terminator turns N events into N boundaries, so the open final
	// interval closes at now like any other.
	work := make([]model.Event, len(events), len(events)+1)
	copy(work, events)
	work = append(work, model.Event{Kind: model.ActivityEnd, OccurredAt: now, Status: model.StatusDummy})

	if len(events) == 1 {
		only := events[0]
		d := only.OccurredAt.Until(now)
		if only.Kind == model.Still && shorter(d, shortStill) {
			return []model.Interval{}, nil
		}
		return []model.Interval{{Kind: only.Kind, Start: only.OccurredAt, DurationSecs: d}}, nil
	}

	out := make([]model.Interval, 0, len(events))
	emit := func(kind model.ActivityKind, from, to model.Timestamp) {
		out = append(out, model.Interval{Kind: kind, Start: from, DurationSecs: from.Until(to)})
	}

	// pending is a movement event whose interval may still extend across a
	// short stillness that follows it.
	var pending *model.Event
	for i := 0; i+1 < len(work); i++ {
		prev, next := &work[i], &work[i+1]

		if prev.Kind == model.Still {
			if shorter(prev.OccurredAt.Until(next.OccurredAt), shortStill) {
				continue
			}
			if pending != nil {
				emit(pending.Kind, pending.OccurredAt, prev.OccurredAt)
				pending = nil
			}
			emit(model.Still, prev.OccurredAt, next.OccurredAt)
			continue
		}

		if pending != nil {
			if pending.Kind == prev.Kind {
				// Same movement on both sides of the absorbed stillness.
				continue
			}
			emit(pending.Kind, pending.OccurredAt, prev.OccurredAt)
			pending = nil
		}
		if next.Kind == model.Still {
			pending = prev
			continue
		}
		emit(prev.Kind, prev.OccurredAt, next.OccurredAt)
	}

	if pending != nil {
		emit(pending.Kind, pending.OccurredAt, now)
	}
	return out, nil
}

// shorter reports whether secs is strictly below threshold. The threshold
// may carry a fractional second.
func shorter(secs int64, threshold time.Duration) bool {
	return time.Duration(secs)*time.Second < threshold
}

// Validate checks the preconditions of Reconcile. Every failure wraps
// model.ErrInvalidArgument.
func Validate(shortStill time.Duration, now model.Timestamp, events []model.Event) error {
	if shortStill < time.Second {
		return fmt.Errorf("%w: short-still threshold must be at least 1s, got %s", model.ErrInvalidArgument, shortStill)
	}
	for i, e := range events {
		if e.Kind == model.ActivityEnd {
			return fmt.Errorf("%w: event %d has reserved kind %s", model.ErrInvalidArgument, e.ID, e.Kind)
		}
		if i == 0 {
			continue
		}
		before := events[i-1]
		if e.OccurredAt < before.OccurredAt {
			return fmt.Errorf("%w: events not sorted: %d at %d follows %d at %d",
				model.ErrInvalidArgument, e.ID, e.OccurredAt, before.ID, before.OccurredAt)
		}
		if e.Kind == before.Kind {
			return fmt.Errorf("%w: adjacent events %d and %d share kind %s",
				model.ErrInvalidArgument, before.ID, e.ID, e.Kind)
		}
	}
	if n := len(events); n > 0 && now < events[n-1].OccurredAt {
		return fmt.Errorf("%w: now %d is before last event at %d",
			model.ErrInvalidArgument, now, events[n-1].OccurredAt)
	}
	return nil
}

// Latest returns the last interval, or nil when there is none.
func Latest(intervals []model.Interval) *model.Interval {
	if len(intervals) == 0 {
		return nil
	}
	iv := intervals[len(intervals)-1]
	return &iv
}
