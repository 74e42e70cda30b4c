package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record <kind[@when]>...",
		Short: "Record activity transitions",
		Long: "Record one or more activity transitions (still, walking, running, on_foot, on_bicycle, in_vehicle, unknown). " +
			"Each argument may carry its own time as kind@when. A transition repeating the previous kind is ignored.",
		Args: cobra.MinimumNArgs(1),
		Run:  runRecord,
	}

	cmd.Flags().String("at", "", "When the transition happened: RFC3339 or unix seconds (default: now)")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	atStr, _ := cmd.Flags().GetString("at")

	now := time.Now()
	if _, err := parseWhen(atStr, now); err != nil {
		exitErr("record", err)
	}

	var batch []store.AppendParams
	for _, a := range args {
		name, when, found := strings.Cut(a, "@")
		if !found {
			when = atStr
		}
		kind, err := model.ParseActivityKind(name)
		if err != nil {
			exitErr("record", err)
		}
		at, err := parseWhen(when, now)
		if err != nil {
			exitErr("record", err)
		}
		batch = append(batch, store.AppendParams{Kind: kind, At: at})
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if len(batch) == 1 {
		ev, written, err := s.Append(cmd.Context(), batch[0])
		if err != nil {
			exitErr("record", err)
		}
		printJSON(map[string]interface{}{"recorded": written, "event": ev})
		return
	}

	n, err := s.AppendBatch(cmd.Context(), batch)
	if err != nil {
		exitErr("record", err)
	}
	fmt.Printf(`{"ok":true,"recorded":%d}`+"\n", n)
}
