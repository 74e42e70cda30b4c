// Package window computes the [start, end) time ranges used to query the
// event log.
package window

import (
	"time"

	"github.com/rcliao/move-nudge/internal/model"
)

// Day returns the local calendar day containing t, from midnight to the
// next midnight in t's location. Days spanning a daylight-saving change are
// 23 or 25 hours long.
func Day(t time.Time) (start, end model.Timestamp) {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return model.TimestampOf(midnight), model.TimestampOf(midnight.AddDate(0, 0, 1))
}

// Lookback returns the window of length d ending at now, inclusive of now.
func Lookback(now time.Time, d time.Duration) (start, end model.Timestamp) {
	end = model.TimestampOf(now).Add(1)
	return model.TimestampOf(now.Add(-d)), end
}

// ParseDay parses a YYYY-MM-DD date in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, s, loc)
}
