package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "Reconcile transitions into activity intervals",
		Long: "Reconcile the transitions of a day (default today) or of the last --since duration into " +
			"contiguous activity intervals. Stillness shorter than --short-still is absorbed into the " +
			"surrounding movement. A past day ends at its midnight; otherwise the last interval runs until now.",
		Args: cobra.NoArgs,
		Run:  runIntervals,
	}

	addSpanFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runIntervals(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		exitErr("config", err)
	}

	now := time.Now()
	start, end, err := spanFromFlags(cmd, now)
	if err != nil {
		exitErr("intervals", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	intervals, err := spanIntervals(cmd.Context(), s, cfg.ShortStill, start, end, model.TimestampOf(now))
	if err != nil {
		exitErr("intervals", err)
	}

	if textOutput() {
		writeIntervals(os.Stdout, intervals)
		return
	}
	printJSON(intervals)
}
