// Package notify delivers "time to move" reminders to the terminal.
package notify

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/rcliao/move-nudge/internal/model"
)

// Terminal writes a highlighted reminder and, optionally, rings the bell.
type Terminal struct {
	w    io.Writer
	bell bool
}

// NewTerminal returns a notifier writing to w.
func NewTerminal(w io.Writer, bell bool) *Terminal {
	return &Terminal{w: w, bell: bell}
}

// Notify prints a reminder for the ongoing stillness.
func (t *Terminal) Notify(_ context.Context, still model.Interval, now time.Time) error {
	headline := color.New(color.FgYellow, color.Bold).SprintFunc()
	since := humanize.RelTime(still.Start.Time(), now, "ago", "from now")
	msg := fmt.Sprintf("%s still for %s (since %s)", headline("Time to move:"), still.Duration().Round(time.Minute), since)
	if t.bell {
		msg = "\a" + msg
	}
	_, err := fmt.Fprintln(t.w, msg)
	return err
}
