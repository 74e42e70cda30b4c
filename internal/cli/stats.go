package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(stats)
		return
	}

	fmt.Printf("database   %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Printf("events     %s, %s pending upload\n", humanize.Comma(int64(stats.TotalEvents)), humanize.Comma(int64(stats.PendingUpload)))
	fmt.Printf("reminders  %s\n", humanize.Comma(int64(stats.Reminders)))
	if stats.TotalEvents > 0 {
		fmt.Printf("span       %s - %s\n",
			stats.FirstEventAt.Time().Format(clockLayout),
			stats.LastEventAt.Time().Format(clockLayout))
	}
	for _, k := range stats.Kinds {
		fmt.Printf("  %-10s %d\n", k.Kind, k.Count)
	}
}
