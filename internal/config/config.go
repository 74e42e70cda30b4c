// Package config centralises configuration parsing for move-nudge.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rcliao/move-nudge/internal/model"
	"github.com/rcliao/move-nudge/internal/reminder"
)

// Config captures runtime configuration values.
type Config struct {
	ShortStill   time.Duration // Stillness shorter than this is absorbed into surrounding movement.
	StillTimeout time.Duration // Stillness longer than this triggers a reminder.
	MinWait      time.Duration // Floor between wake-ups while still.
	IdleWait     time.Duration // Poll interval when no wake-up is needed.
	Lookback     time.Duration // How far back each pass reads the log.
	QuietHours   reminder.QuietHours
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ShortStill:   time.Minute,
		StillTimeout: 30 * time.Minute,
		MinWait:      time.Minute,
		IdleWait:     15 * time.Minute,
		Lookback:     24 * time.Hour,
	}
}

// Load reads MOVE_NUDGE_* environment variables over the defaults.
func Load() (Config, error) {
	def := Default()
	cfg := Config{
		ShortStill:   getDurationEnv("MOVE_NUDGE_SHORT_STILL", def.ShortStill),
		StillTimeout: getDurationEnv("MOVE_NUDGE_STILL_TIMEOUT", def.StillTimeout),
		MinWait:      getDurationEnv("MOVE_NUDGE_MIN_WAIT", def.MinWait),
		IdleWait:     getDurationEnv("MOVE_NUDGE_IDLE_WAIT", def.IdleWait),
		Lookback:     getDurationEnv("MOVE_NUDGE_LOOKBACK", def.Lookback),
	}

	q, err := reminder.ParseQuietHours(getEnv("MOVE_NUDGE_QUIET_HOURS", ""))
	if err != nil {
		return cfg, fmt.Errorf("MOVE_NUDGE_QUIET_HOURS: %w", err)
	}
	cfg.QuietHours = q

	return cfg, cfg.Validate()
}

// Validate rejects configurations the reconciliation pass cannot run with.
func (c Config) Validate() error {
	if c.ShortStill < time.Second {
		return fmt.Errorf("%w: short-still threshold must be at least 1s", model.ErrInvalidArgument)
	}
	if c.StillTimeout <= 0 {
		return fmt.Errorf("%w: still timeout must be positive", model.ErrInvalidArgument)
	}
	if c.MinWait < 0 {
		return fmt.Errorf("%w: min wait must not be negative", model.ErrInvalidArgument)
	}
	if c.IdleWait <= 0 {
		return fmt.Errorf("%w: idle wait must be positive", model.ErrInvalidArgument)
	}
	if c.Lookback <= 0 {
		return fmt.Errorf("%w: lookback must be positive", model.ErrInvalidArgument)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
