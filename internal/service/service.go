// Package service provides the business logic behind the dashboard API:
// cached reads of reference data and district records, and control of the
// synchronizer and the cache.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stacklok/mgnrega-dashboard-server/internal/cache"
	"github.com/stacklok/mgnrega-dashboard-server/internal/records"
	"github.com/stacklok/mgnrega-dashboard-server/internal/reference"
	"github.com/stacklok/mgnrega-dashboard-server/internal/status"
	"github.com/stacklok/mgnrega-dashboard-server/internal/sync/coordinator"
)

var (
	// ErrDistrictNotFound is returned for district codes missing from the reference data
	ErrDistrictNotFound = errors.New("district not found")
	// ErrInvalidArgument is returned when a request parameter is malformed
	ErrInvalidArgument = errors.New("invalid argument")
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/service DashboardService

// DashboardService defines the operations exposed by the HTTP API
type DashboardService interface {
	// CheckReadiness reports whether the record store can be reached
	CheckReadiness(ctx context.Context) error

	// ListStates returns every state
	ListStates(ctx context.Context) ([]reference.State, error)

	// ListDistricts returns the districts of one state
	ListDistricts(ctx context.Context, stateCode string) ([]reference.District, error)

	// GetDistrictData returns a district with its most recent monthly
	// records. An empty year selects every financial year.
	GetDistrictData(ctx context.Context, districtCode, year string) (*DistrictData, error)

	// NearestDistrict returns the district closest to a point
	NearestDistrict(ctx context.Context, latitude, longitude float64) (reference.District, error)

	// TriggerSync runs a sync now, or fails fast with sync.ErrSyncInProgress
	TriggerSync(ctx context.Context) (*coordinator.Result, error)

	// SyncStatus returns a snapshot of the synchronizer
	SyncStatus(ctx context.Context) status.SyncStatus

	// CacheStats returns the entry counts of the cache
	CacheStats(ctx context.Context) (cache.Stats, error)

	// InvalidateCache removes one key or every key matching a pattern and
	// returns how many entries were removed
	InvalidateCache(ctx context.Context, inv Invalidation) (int64, error)

	// ClearDistrictCache removes every cached entry of one district
	ClearDistrictCache(ctx context.Context, districtCode string) (int64, error)
}

//go:generate mockgen -destination=mocks/mock_synchronizer.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/service Synchronizer

// Synchronizer starts sync runs and reports their state. It is implemented
// by coordinator.Coordinator.
type Synchronizer interface {
	StartSync(ctx context.Context) (*coordinator.Result, error)
	Status() status.SyncStatus
}

var _ Synchronizer = (*coordinator.Coordinator)(nil)

// Invalidation selects cache entries to remove. Exactly one field must be set.
type Invalidation struct {
	Key     string
	Pattern string
}

// Validate checks that exactly one of Key and Pattern is set
func (i Invalidation) Validate() error {
	switch {
	case i.Key == "" && i.Pattern == "":
		return fmt.Errorf("%w: key or pattern is required", ErrInvalidArgument)
	case i.Key != "" && i.Pattern != "":
		return fmt.Errorf("%w: key and pattern are mutually exclusive", ErrInvalidArgument)
	}
	return nil
}

// DistrictInfo is a district together with the names of its state
type DistrictInfo struct {
	reference.District
	StateNameHi string `json:"state_name_hi"`
	StateNameEn string `json:"state_name_en"`
}

// DistrictData is the dashboard view of one district
type DistrictData struct {
	District       DistrictInfo     `json:"district"`
	HistoricalData []records.Record `json:"historicalData"`
}

// ValidateCoordinates checks that a point lies on the globe
func ValidateCoordinates(latitude, longitude float64) error {
	if math.IsNaN(latitude) || latitude < -90 || latitude > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidArgument)
	}
	if math.IsNaN(longitude) || longitude < -180 || longitude > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidArgument)
	}
	return nil
}
