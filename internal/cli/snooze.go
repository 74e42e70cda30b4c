package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
)

const defaultSnooze = 30 * time.Minute

func init() {
	cmd := &cobra.Command{
		Use:   "snooze [duration]",
		Short: "Pause reminders for a while",
		Long:  "Suppress reminders for the given duration (default 30m). Use --clear to resume them now.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runSnooze,
	}

	cmd.Flags().Bool("clear", false, "Remove the current snooze")

	RootCmd.AddCommand(cmd)
}

func runSnooze(cmd *cobra.Command, args []string) {
	clearSnooze, _ := cmd.Flags().GetBool("clear")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if clearSnooze {
		if err := s.ClearSnooze(cmd.Context()); err != nil {
			exitErr("snooze", err)
		}
		fmt.Println(`{"ok":true,"snoozed":false}`)
		return
	}

	d := defaultSnooze
	if len(args) == 1 {
		d, err = time.ParseDuration(args[0])
		if err != nil || d <= 0 {
			exitErr("snooze", fmt.Errorf("%w: duration %q", model.ErrInvalidArgument, args[0]))
		}
	}

	until := time.Now().Add(d).Truncate(time.Second)
	if err := s.SetSnooze(cmd.Context(), until); err != nil {
		exitErr("snooze", err)
	}

	if textOutput() {
		fmt.Printf("reminders snoozed until %s\n", until.Format(clockLayout))
		return
	}
	printJSON(map[string]interface{}{"ok": true, "snoozed": true, "until": until})
}
