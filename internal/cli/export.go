package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export events as JSON",
		Long: "Export events as a JSON array, oldest first. With --pending only events not yet uploaded are " +
			"exported; --mark-uploaded then flags them as handed off.",
		Args: cobra.NoArgs,
		Run:  runExport,
	}

	cmd.Flags().Bool("pending", false, "Only events not yet uploaded")
	cmd.Flags().Bool("mark-uploaded", false, "Mark exported events as uploaded")
	cmd.Flags().Int("limit", 1000, "Max events with --pending")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	pending, _ := cmd.Flags().GetBool("pending")
	markUploaded, _ := cmd.Flags().GetBool("mark-uploaded")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var events []model.Event
	if pending {
		events, err = s.ListByStatus(cmd.Context(), model.StatusNew, limit)
	} else {
		events, err = s.ExportAll(cmd.Context())
	}
	if err != nil {
		exitErr("export", err)
	}

	if markUploaded {
		ids := make([]int64, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		if err := s.MarkUploaded(cmd.Context(), ids); err != nil {
			exitErr("mark uploaded", err)
		}
	}

	if events == nil {
		events = []model.Event{}
	}
	printJSON(events)
}
