// Package cli implements the move-nudge CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/config"
	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/reminder"
	"github.com/rcliao/move-nudge/internal/store"
)

var (
	dbPath     string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "move-nudge",
	Short: "Activity log and stillness reminders",
	Long: "Record activity transitions, reconcile them into movement intervals, " +
		"and get nudged after sitting still too long. SQLite-backed, single binary.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MOVE_NUDGE_DB or ~/.move-nudge/events.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	RootCmd.PersistentFlags().Duration("short-still", 0, "Absorb stillness shorter than this (default: $MOVE_NUDGE_SHORT_STILL or 1m)")
	RootCmd.PersistentFlags().Duration("still-timeout", 0, "Remind after stillness longer than this (default: $MOVE_NUDGE_STILL_TIMEOUT or 30m)")
	RootCmd.PersistentFlags().Duration("min-wait", 0, "Minimum delay between wake-ups (default: $MOVE_NUDGE_MIN_WAIT or 1m)")
	RootCmd.PersistentFlags().String("quiet-hours", "", "Do-not-disturb window, e.g. 22:00-07:00 (default: $MOVE_NUDGE_QUIET_HOURS)")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("MOVE_NUDGE_DB"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".move-nudge", "events.db")
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// loadConfig reads the environment, then applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("short-still") {
		cfg.ShortStill, _ = flags.GetDuration("short-still")
	}
	if flags.Changed("still-timeout") {
		cfg.StillTimeout, _ = flags.GetDuration("still-timeout")
	}
	if flags.Changed("min-wait") {
		cfg.MinWait, _ = flags.GetDuration("min-wait")
	}
	if flags.Changed("quiet-hours") {
		raw, _ := flags.GetString("quiet-hours")
		q, err := reminder.ParseQuietHours(raw)
		if err != nil {
			return cfg, err
		}
		cfg.QuietHours = q
	}
	return cfg, cfg.Validate()
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseWhen accepts RFC3339 or unix seconds. Empty means now.
func parseWhen(s string, now time.Time) (model.Timestamp, error) {
	if s == "" {
		return model.TimestampOf(now), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return model.Timestamp(secs), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q (use RFC3339 or unix seconds)", model.ErrInvalidArgument, s)
	}
	return model.TimestampOf(t), nil
}

func textOutput() bool { return formatFlag == "text" }

func printJSON(v interface{}) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
