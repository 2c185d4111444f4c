package app

import (
	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
)

// AppComponents groups all application components
//
//nolint:revive // This name is fine
type AppComponents struct {
	// Coordinator runs single-flight syncs
	Coordinator *coordinator.Coordinator

	// Scheduler triggers the coordinator every sync interval
	Scheduler *coordinator.Scheduler

	// Reaper removes expired cache entries
	Reaper *cache.Reaper

	// DashboardService provides the dashboard business logic
	DashboardService service.DashboardService
}
