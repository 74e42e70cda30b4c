package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "List raw activity transitions",
		Long:  "List the recorded transitions of a day (default today) or of the last --since duration, oldest first.",
		Args:  cobra.NoArgs,
		Run:   runLog,
	}

	addSpanFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runLog(cmd *cobra.Command, args []string) {
	now := time.Now()
	start, end, err := spanFromFlags(cmd, now)
	if err != nil {
		exitErr("log", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	events, err := s.Range(cmd.Context(), start, end)
	if err != nil {
		exitErr("log", err)
	}

	if textOutput() {
		writeEvents(os.Stdout, events, now)
		return
	}
	printJSON(events)
}
