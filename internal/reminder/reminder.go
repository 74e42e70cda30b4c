// Package reminder decides whether the user should be nudged to move.
package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

// ShouldRemind reports whether latest is a stillness that has run past
// stillTimeout while neither do-not-disturb nor snooze is active.
func ShouldRemind(latest model.Interval, stillTimeout time.Duration, doNotDisturb, snoozed bool) bool {
	if latest.Kind != model.Still {
		return false
	}
	if latest.Duration() <= stillTimeout {
		return false
	}
	return !doNotDisturb && !snoozed
}

// QuietHours is a daily do-not-disturb window expressed as offsets from
// local midnight. End before Start wraps past midnight. Equal bounds
// disable the window.
type QuietHours struct {
	Start time.Duration
	End   time.Duration
}

// Enabled reports whether the window covers any time at all.
func (q QuietHours) Enabled() bool { return q.Start != q.End }

// Active reports whether t falls inside the window, in t's location.
func (q QuietHours) Active(t time.Time) bool {
	if !q.Enabled() {
		return false
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := t.Sub(midnight)
	if q.Start < q.End {
		return offset >= q.Start && offset < q.End
	}
	return offset >= q.Start || offset < q.End
}

func (q QuietHours) String() string {
	if !q.Enabled() {
		return ""
	}
	return formatClock(q.Start) + "-" + formatClock(q.End)
}

// ParseQuietHours parses "HH:MM-HH:MM". An empty string disables the window.
func ParseQuietHours(s string) (QuietHours, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return QuietHours{}, nil
	}
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return QuietHours{}, fmt.Errorf("%w: quiet hours %q (use e.g. 22:00-07:00)", model.ErrInvalidArgument, s)
	}
	start, err := parseClock(from)
	if err != nil {
		return QuietHours{}, err
	}
	end, err := parseClock(to)
	if err != nil {
		return QuietHours{}, err
	}
	return QuietHours{Start: start, End: end}, nil
}

func parseClock(s string) (time.Duration, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: clock time %q (use HH:MM)", model.ErrInvalidArgument, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: hour in %q", model.ErrInvalidArgument, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: minute in %q", model.ErrInvalidArgument, s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
