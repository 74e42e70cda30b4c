package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List delivered reminders",
		Args:  cobra.NoArgs,
		Run:   runReminders,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max reminders to show")

	RootCmd.AddCommand(cmd)
}

func runReminders(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rs, err := s.ListReminders(cmd.Context(), limit)
	if err != nil {
		exitErr("reminders", err)
	}

	if !textOutput() {
		printJSON(rs)
		return
	}
	if len(rs) == 0 {
		fmt.Println("no reminders")
		return
	}
	now := time.Now()
	for _, r := range rs {
		fmt.Printf("%s  still %s since %s  %s\n",
			r.CreatedAt.Local().Format(clockLayout),
			time.Duration(r.StillSecs)*time.Second,
			r.StillSince.Time().Format("15:04"),
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"))
	}
}
