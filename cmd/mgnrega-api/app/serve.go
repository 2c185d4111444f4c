package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	dashboardapp "github.com/stacklok/mgnrega-dashboard-server/internal/app"
	"github.com/stacklok/mgnrega-dashboard-server/internal/telemetry"
)

const (
	defaultAddress         = ":3000"
	defaultGracefulTimeout = 30 * time.Second
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long: `Start the dashboard API server.

The server requires a configuration file (--config) that specifies the
data.gov.in resource, cache TTLs, the sync schedule and the storage backend.
A scheduled sync runs every sync.interval; POST /api/sync triggers one on demand.

See the examples directory for a sample configuration.`,
		RunE: runServe,
	}
	cmd.Flags().String("address", defaultAddress, "Address to listen on")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	address, err := cmd.Flags().GetString("address")
	if err != nil {
		return fmt.Errorf("failed to get address flag: %w", err)
	}

	tel, err := telemetry.New(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down telemetry", "error", err)
		}
	}()

	dashboard, err := dashboardapp.NewDashboardApp(ctx,
		dashboardapp.WithConfig(cfg),
		dashboardapp.WithAddress(address),
		dashboardapp.WithMeterProvider(tel.MeterProvider()),
		dashboardapp.WithTracerProvider(tel.TracerProvider()),
		dashboardapp.WithMetricsHandler(tel.MetricsHandler()),
	)
	if err != nil {
		return fmt.Errorf("failed to create dashboard app: %w", err)
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- dashboard.Start()
	}()

	select {
	case err := <-serveErr:
		return errors.Join(err, dashboard.Stop(defaultGracefulTimeout))
	case <-ctx.Done():
	}

	return dashboard.Stop(defaultGracefulTimeout)
}
