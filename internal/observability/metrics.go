// Package observability exposes Prometheus metrics for reconciliation passes.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	passesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "move_nudge",
		Subsystem: "monitor",
		Name:      "passes_total",
		Help:      "Reconciliation passes by outcome.",
	}, []string{"result"})
	remindersTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "move_nudge",
		Subsystem: "monitor",
		Name:      "reminders_total",
		Help:      "Reminders delivered to the user.",
	})
	stillSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "move_nudge",
		Subsystem: "monitor",
		Name:      "current_still_seconds",
		Help:      "Length of the ongoing stillness, 0 while moving.",
	})
	nextWaitSeconds = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "move_nudge",
		Subsystem: "monitor",
		Name:      "next_wait_seconds",
		Help:      "Delay before the next scheduled pass, 0 when none is scheduled.",
	})
	lastPassGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "move_nudge",
		Subsystem: "monitor",
		Name:      "last_pass_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful pass.",
	})
)

func init() {
	prometheus.MustRegister(passesTotal, remindersTotal, stillSeconds, nextWaitSeconds, lastPassGauge)
}

// Recorder receives pass outcomes. The zero value publishes to the
// default Prometheus registry.
type Recorder struct{}

// PassSucceeded records a completed pass.
func (Recorder) PassSucceeded(at time.Time, stillFor, nextWait time.Duration) {
	passesTotal.WithLabelValues("ok").Inc()
	stillSeconds.Set(stillFor.Seconds())
	nextWaitSeconds.Set(nextWait.Seconds())
	if !at.IsZero() {
		lastPassGauge.Set(float64(at.Unix()))
	}
}

// PassFailed records a pass that returned an error.
func (Recorder) PassFailed() {
	passesTotal.WithLabelValues("error").Inc()
}

// ReminderSent records a delivered reminder.
func (Recorder) ReminderSent() {
	remindersTotal.Inc()
}
