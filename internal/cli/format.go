package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/rcliao/move-nudge/internal/model"
)

const clockLayout = "2006-01-02 15:04:05"

func kindColor(k model.ActivityKind) *color.Color {
	switch k {
	case model.Still:
		return color.New(color.FgYellow)
	case model.Walking, model.Running, model.OnFoot, model.OnBicycle:
		return color.New(color.FgGreen)
	case model.InVehicle:
		return color.New(color.FgCyan)
	case model.Unknown, model.ActivityEnd:
		return color.New(color.Faint)
	}
	return color.New(color.Reset)
}

func writeEvents(w io.Writer, events []model.Event, now time.Time) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no events")
		return
	}
	for _, e := range events {
		at := e.OccurredAt.Time()
		fmt.Fprintf(w, "%s  %s  %-14s #%d %s\n",
			at.Format(clockLayout),
			kindColor(e.Kind).Sprintf("%-10s", e.Kind),
			"("+humanize.RelTime(at, now, "ago", "from now")+")",
			e.ID, e.Status)
	}
}

func writeIntervals(w io.Writer, intervals []model.Interval) {
	if len(intervals) == 0 {
		fmt.Fprintln(w, "no intervals")
		return
	}
	totals := map[model.ActivityKind]int64{}
	for _, iv := range intervals {
		fmt.Fprintf(w, "%s - %s  %s  %s\n",
			iv.Start.Time().Format(clockLayout),
			iv.End().Time().Format("15:04:05"),
			kindColor(iv.Kind).Sprintf("%-10s", iv.Kind),
			iv.Duration())
		totals[iv.Kind] += iv.DurationSecs
	}
	fmt.Fprintln(w)
	for _, k := range model.AllKinds {
		if secs, ok := totals[k]; ok {
			fmt.Fprintf(w, "  %-10s %s\n", k, time.Duration(secs)*time.Second)
		}
	}
}
