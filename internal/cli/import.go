package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import events from JSON",
		Long:  "Import events from JSON on stdin. Expects the format produced by export; upload status is kept.",
		Args:  cobra.NoArgs,
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		exitErr("read stdin", err)
	}

	var events []model.Event
	if err := json.Unmarshal(data, &events); err != nil {
		exitErr("parse json", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	imported, err := s.Import(cmd.Context(), events)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
