package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/rcliao/move-nudge/internal/monitor"
	"github.com/rcliao/move-nudge/internal/notify"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep running passes and remind when still too long",
		Long: "Run reconciliation passes in the foreground until interrupted, sleeping between passes " +
			"as long as the scheduler allows. Optionally serves Prometheus metrics.",
		Args: cobra.NoArgs,
		Run:  runWatch,
	}

	cmd.Flags().Bool("bell", true, "Ring the terminal bell with each reminder")
	cmd.Flags().String("metrics-addr", "", "Serve /metrics on this address, e.g. :9464")

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	bell, _ := cmd.Flags().GetBool("bell")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	cfg, err := loadConfig(cmd)
	if err != nil {
		exitErr("config", err)
	}
	logger := newLogger()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *http.Server
	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Info("metrics listening", "addr", metricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	m := monitor.New(s, monitor.SystemClock{}, notify.NewTerminal(os.Stdout, bell), cfg, logger)
	if err := m.Run(ctx); err != nil {
		exitErr("watch", err)
	}

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", "error", err)
		}
	}
}
