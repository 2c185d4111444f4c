// Package app provides application lifecycle management for the dashboard server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/stacklok/mgnrega-dashboard-server/internal/app/storage"
	"github.com/stacklok/mgnrega-dashboard-server/internal/config"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
)

// DashboardApp encapsulates all components needed to run the dashboard API server.
// It provides lifecycle management and graceful shutdown capabilities.
type DashboardApp struct {
	config         *config.Config
	components     *AppComponents
	storageFactory storage.Factory
	httpServer     *http.Server

	// Lifecycle management
	ctx         context.Context
	cancelFunc  context.CancelFunc
	background  sync.WaitGroup
	cleanupOnce sync.Once
}

// Start starts the background workers (scheduler and cache reaper) and the HTTP server.
// This method blocks until the HTTP server stops or encounters an error.
func (app *DashboardApp) Start() error {
	app.background.Add(2)
	go func() {
		defer app.background.Done()
		if err := app.components.Scheduler.Start(app.ctx); err != nil {
			slog.Error("Sync scheduler failed", "error", err)
		}
	}()
	go func() {
		defer app.background.Done()
		app.components.Reaper.Start(app.ctx)
	}()

	slog.Info("Server listening", "address", app.httpServer.Addr)
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

// Stop gracefully stops the application with the given timeout.
// Background workers stop first, then the HTTP server drains and storage is released.
func (app *DashboardApp) Stop(timeout time.Duration) error {
	slog.Info("Shutting down server...")

	if err := app.components.Scheduler.Stop(); err != nil {
		slog.Error("Failed to stop sync scheduler", "error", err)
	}
	app.components.Reaper.Stop()
	app.cancelFunc()
	app.background.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := app.httpServer.Shutdown(shutdownCtx)
	app.Close()
	if err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("Server shutdown complete")
	return nil
}

// SyncOnce runs a single sync without starting the server
func (app *DashboardApp) SyncOnce(ctx context.Context) (*coordinator.Result, error) {
	return app.components.Coordinator.StartSync(ctx)
}

// Close releases storage resources. It is safe to call more than once.
func (app *DashboardApp) Close() {
	app.cleanupOnce.Do(func() {
		app.cancelFunc()
		app.storageFactory.Cleanup()
	})
}

// GetConfig returns the application configuration
func (app *DashboardApp) GetConfig() *config.Config {
	return app.config
}

// GetHTTPServer returns the HTTP server (useful for testing to get the actual port)
func (app *DashboardApp) GetHTTPServer() *http.Server {
	return app.httpServer
}

// GetComponents returns the wired components
func (app *DashboardApp) GetComponents() *AppComponents {
	return app.components
}
