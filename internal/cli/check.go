package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/monitor"
	"github.com/rcliao/move-nudge/internal/notify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run one reconciliation pass",
		Long: "Reconcile the lookback window, remind if the ongoing stillness has run past --still-timeout, " +
			"and report when the next pass is due. Suitable for cron or a platform scheduler.",
		Args: cobra.NoArgs,
		Run:  runCheck,
	}

	cmd.Flags().Bool("bell", false, "Ring the terminal bell with a reminder")

	RootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	bell, _ := cmd.Flags().GetBool("bell")

	cfg, err := loadConfig(cmd)
	if err != nil {
		exitErr("config", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	m := monitor.New(s, monitor.SystemClock{}, notify.NewTerminal(os.Stderr, bell), cfg, newLogger())
	res, err := m.Pass(cmd.Context())
	if err != nil {
		exitErr("check", err)
	}

	if !textOutput() {
		printJSON(res)
		return
	}

	if res.Latest == nil {
		fmt.Println("no activity in the lookback window")
	} else {
		fmt.Printf("%s for %s\n", kindColor(res.Latest.Kind).Sprint(res.Latest.Kind), res.Latest.Duration())
	}
	switch {
	case res.Reminder != nil:
		fmt.Println("reminder sent")
	case res.Snoozed:
		fmt.Println("reminders snoozed")
	case res.DoNotDisturb:
		fmt.Println("quiet hours")
	}
	if res.WakeScheduled {
		fmt.Printf("next check in %s\n", res.NextWait)
	} else if res.Latest != nil && res.Latest.Kind != model.Still {
		fmt.Println("moving, no check scheduled")
	}
}
