package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent transition",
		Args:  cobra.NoArgs,
		Run:   runLatest,
	}

	RootCmd.AddCommand(cmd)
}

func runLatest(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ev, err := s.Latest(cmd.Context())
	if errors.Is(err, store.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "no events recorded")
		os.Exit(1)
	}
	if err != nil {
		exitErr("latest", err)
	}

	if textOutput() {
		writeEvents(os.Stdout, []model.Event{*ev}, time.Now())
		return
	}
	printJSON(ev)
}
