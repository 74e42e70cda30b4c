// Package schedule decides when the next reconciliation pass should run.
package schedule

import (
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

// slack keeps the wake-up from firing a moment before the timeout has
// actually elapsed.
const slack = time.Second

// NextWait returns how long to wait before the next pass. It returns false
// when latest is nil or not STILL: no wake-up is needed and any pending one
// may be cancelled.
//
// The wait is the time left until latest exceeds stillTimeout, plus one
// second, but never less than minWait plus one second.
func NextWait(latest *model.Interval, minWait, stillTimeout time.Duration) (time.Duration, bool) {
	if latest == nil || latest.Kind != model.Still {
		return 0, false
	}
	floor := minWait + slack
	remaining := stillTimeout - latest.Duration() + slack
	return max(floor, remaining), true
}
