// Package monitor runs reconciliation passes over the event log: reconcile
// recent events into intervals, decide whether to remind, and work out when
// the next pass is due.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rcliao/move-nudge/internal/config"
	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/observability"
	"github.com/rcliao/move-nudge/internal/reconcile"
	"github.com/rcliao/move-nudge/internal/reminder"
	"github.com/rcliao/move-nudge/internal/schedule"
	"github.com/rcliao/move-nudge/internal/store"
	"github.com/rcliao/move-nudge/internal/window"
)

// EventLog is the subset of the store a pass reads and writes.
type EventLog interface {
	Range(ctx context.Context, start, end model.Timestamp) ([]model.Event, error)
	LatestBefore(ctx context.Context, t model.Timestamp) (*model.Event, error)
	SnoozedUntil(ctx context.Context) (time.Time, error)
	RecordReminder(ctx context.Context, r model.Reminder) (*model.Reminder, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Notifier delivers a reminder for an ongoing stillness.
type Notifier interface {
	Notify(ctx context.Context, still model.Interval, now time.Time) error
}

// Metrics receives pass outcomes.
type Metrics interface {
	PassSucceeded(at time.Time, stillFor, nextWait time.Duration)
	PassFailed()
	ReminderSent()
}

// Result describes one pass.
type Result struct {
	Now           time.Time        `json:"now"`
	Intervals     []model.Interval `json:"intervals"`
	Latest        *model.Interval  `json:"latest,omitempty"`
	DoNotDisturb  bool             `json:"do_not_disturb"`
	Snoozed       bool             `json:"snoozed"`
	Reminder      *model.Reminder  `json:"reminder,omitempty"`
	WakeScheduled bool             `json:"wake_scheduled"`
	NextWait      time.Duration    `json:"next_wait_ns"`
}

// Monitor owns the collaborators a pass needs. Build it once and reuse it.
type Monitor struct {
	log      EventLog
	clock    Clock
	notifier Notifier
	metrics  Metrics
	cfg      config.Config
	logger   *slog.Logger
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithMetrics replaces the default Prometheus recorder.
func WithMetrics(metrics Metrics) Option {
	return func(m *Monitor) { m.metrics = metrics }
}

// New returns a Monitor. Metrics go to the default Prometheus registry
// unless WithMetrics is given.
func New(log EventLog, clock Clock, notifier Notifier, cfg config.Config, logger *slog.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Monitor{
		log:      log,
		clock:    clock,
		notifier: notifier,
		metrics:  observability.Recorder{},
		cfg:      cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Pass performs one reconciliation pass. A reminder is delivered and
// recorded when the policy calls for one.
func (m *Monitor) Pass(ctx context.Context) (*Result, error) {
	res, err := m.pass(ctx)
	if err != nil {
		m.metrics.PassFailed()
		return nil, err
	}

	var stillFor time.Duration
	if res.Latest != nil && res.Latest.Kind == model.Still {
		stillFor = res.Latest.Duration()
	}
	m.metrics.PassSucceeded(res.Now, stillFor, res.NextWait)
	return res, nil
}

func (m *Monitor) pass(ctx context.Context) (*Result, error) {
	now := m.clock.Now()
	events, err := m.recentEvents(ctx, now)
	if err != nil {
		return nil, err
	}

	intervals, err := reconcile.Reconcile(m.cfg.ShortStill, model.TimestampOf(now), events)
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w", err)
	}

	res := &Result{
		Now:          now,
		Intervals:    intervals,
		Latest:       reconcile.Latest(intervals),
		DoNotDisturb: m.cfg.QuietHours.Active(now),
	}

	snoozeUntil, err := m.log.SnoozedUntil(ctx)
	if err != nil {
		return nil, fmt.Errorf("read snooze: %w", err)
	}
	res.Snoozed = snoozeUntil.After(now)

	if res.Latest != nil && reminder.ShouldRemind(*res.Latest, m.cfg.StillTimeout, res.DoNotDisturb, res.Snoozed) {
		res.Reminder = m.remind(ctx, *res.Latest, now)
	}

	res.NextWait, res.WakeScheduled = schedule.NextWait(res.Latest, m.cfg.MinWait, m.cfg.StillTimeout)

	m.logger.Debug("pass complete",
		"events", len(events),
		"intervals", len(intervals),
		"latest", res.Latest,
		"dnd", res.DoNotDisturb,
		"snoozed", res.Snoozed,
		"reminded", res.Reminder != nil,
		"next_wait", res.NextWait)
	return res, nil
}

// recentEvents reads the lookback window plus the event just before it,
// so the interval open at the window edge keeps its real start.
func (m *Monitor) recentEvents(ctx context.Context, now time.Time) ([]model.Event, error) {
	start, end := window.Lookback(now, m.cfg.Lookback)
	events, err := m.log.Range(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	prior, err := m.log.LatestBefore(ctx, start)
	switch {
	case err == nil:
		events = append([]model.Event{*prior}, events...)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("read prior event: %w", err)
	}
	return events, nil
}

// remind delivers and records a reminder. Delivery failures are logged and
// leave no record, so the next pass tries again.
func (m *Monitor) remind(ctx context.Context, still model.Interval, now time.Time) *model.Reminder {
	if err := m.notifier.Notify(ctx, still, now); err != nil {
		m.logger.Warn("reminder delivery failed", "error", err)
		return nil
	}
	m.metrics.ReminderSent()

	rec, err := m.log.RecordReminder(ctx, model.Reminder{
		StillSince: still.Start,
		StillSecs:  still.DurationSecs,
		CreatedAt:  now,
	})
	if err != nil {
		m.logger.Warn("recording reminder failed", "error", err)
		return &model.Reminder{StillSince: still.Start, StillSecs: still.DurationSecs, CreatedAt: now}
	}
	return rec
}

// Run performs passes until ctx is cancelled. After each pass it sleeps for
// the scheduled wait, or IdleWait when no wake-up is needed or the pass failed.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		delay := m.cfg.IdleWait
		res, err := m.Pass(ctx)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			m.logger.Error("pass failed", "error", err)
		case res.WakeScheduled:
			delay = res.NextWait
		}

		m.logger.Info("sleeping", "for", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}
