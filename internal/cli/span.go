package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/reconcile"
	"github.com/rcliao/move-nudge/internal/store"
	"github.com/rcliao/move-nudge/internal/window"
)

func addSpanFlags(cmd *cobra.Command) {
	cmd.Flags().String("day", "", "Local calendar day, YYYY-MM-DD (default: today)")
	cmd.Flags().Duration("since", 0, "Look back this far from now instead of a calendar day")
}

func spanFromFlags(cmd *cobra.Command, now time.Time) (start, end model.Timestamp, err error) {
	day, _ := cmd.Flags().GetString("day")
	since, _ := cmd.Flags().GetDuration("since")
	return resolveSpan(day, since, now)
}

// resolveSpan picks the [start, end) window for --day or --since. Neither
// means today.
func resolveSpan(day string, since time.Duration, now time.Time) (start, end model.Timestamp, err error) {
	switch {
	case day != "" && since != 0:
		return 0, 0, fmt.Errorf("%w: --day and --since are mutually exclusive", model.ErrInvalidArgument)
	case since < 0:
		return 0, 0, fmt.Errorf("%w: negative --since %s", model.ErrInvalidArgument, since)
	case since > 0:
		start, end = window.Lookback(now, since)
		return start, end, nil
	case day != "":
		d, err := window.ParseDay(day, now.Location())
		if err != nil {
			return 0, 0, fmt.Errorf("%w: day %q (use YYYY-MM-DD)", model.ErrInvalidArgument, day)
		}
		start, end = window.Day(d)
		return start, end, nil
	}
	start, end = window.Day(now)
	return start, end, nil
}

type eventReader interface {
	Range(ctx context.Context, start, end model.Timestamp) ([]model.Event, error)
	LatestBefore(ctx context.Context, t model.Timestamp) (*model.Event, error)
}

// spanIntervals reconciles the events of [start, end) up to the earlier of
// now and end, then clips the result to start. The events just before the
// window are reconciled at their real times so the activity in progress at
// start is judged by its full length.
func spanIntervals(ctx context.Context, r eventReader, shortStill time.Duration, start, end, now model.Timestamp) ([]model.Interval, error) {
	at := min(now, end)
	if at < start {
		return []model.Interval{}, nil
	}

	events, err := r.Range(ctx, start, min(end, at+1))
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	lead, err := leadingEvents(ctx, r, start)
	if err != nil {
		return nil, err
	}
	events = append(lead, events...)

	intervals, err := reconcile.Reconcile(shortStill, at, events)
	if err != nil {
		return nil, err
	}
	return clipStart(intervals, start), nil
}

// leadingEvents returns the event before t, preceded by the one before that
// when it is a STILL, since a short stillness merges into the movement
// before it. Oldest first.
func leadingEvents(ctx context.Context, r eventReader, t model.Timestamp) ([]model.Event, error) {
	var lead []model.Event
	for len(lead) < 2 {
		prior, err := r.LatestBefore(ctx, t)
		if errors.Is(err, store.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read prior event: %w", err)
		}
		lead = append([]model.Event{*prior}, lead...)
		if prior.Kind != model.Still {
			break
		}
		t = prior.OccurredAt
	}
	return lead, nil
}

// clipStart drops intervals ending at or before start and trims the one
// crossing it.
func clipStart(intervals []model.Interval, start model.Timestamp) []model.Interval {
	out := make([]model.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Start >= start {
			out = append(out, iv)
			continue
		}
		if iv.End() <= start {
			continue
		}
		iv.DurationSecs = start.Until(iv.End())
		iv.Start = start
		out = append(out, iv)
	}
	return out
}
