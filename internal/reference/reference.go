// Package reference provides the geographic reference data: states and the
// districts within them.
package reference

import (
	"context"
	"errors"
	"math"
)

// ErrNotFound is returned when a district or state does not exist
var ErrNotFound = errors.New("not found")

// State is an Indian state
type State struct {
	Code   string `json:"state_code"`
	NameHi string `json:"state_name_hi"`
	NameEn string `json:"state_name_en"`
}

// District is a district of a state. Coordinates are optional.
type District struct {
	Code      string   `json:"district_code"`
	NameHi    string   `json:"district_name_hi"`
	NameEn    string   `json:"district_name_en"`
	StateCode string   `json:"state_code"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Located reports whether d has both coordinates
func (d District) Located() bool {
	return d.Latitude != nil && d.Longitude != nil
}

//go:generate mockgen -destination=mocks/mock_catalog.go -package=mocks github.com/stacklok/mgnrega-dashboard-server/internal/reference Catalog

// Catalog reads and writes reference data
type Catalog interface {
	// ListStates returns every state ordered by English name
	ListStates(ctx context.Context) ([]State, error)
	// ListDistricts returns the districts of a state ordered by English name
	ListDistricts(ctx context.Context, stateCode string) ([]District, error)
	// GetDistrict returns ErrNotFound for unknown codes
	GetDistrict(ctx context.Context, code string) (District, error)
	// NearestDistrict returns the located district closest to the point, or
	// ErrNotFound when no district has coordinates
	NearestDistrict(ctx context.Context, latitude, longitude float64) (District, error)
	// Upsert inserts or updates states then districts
	Upsert(ctx context.Context, states []State, districts []District) error
}

// Distance approximates the distance in miles between a point and a district
// with a flat-earth projection.
func Distance(latitude, longitude float64, d District) float64 {
	if !d.Located() {
		return math.Inf(1)
	}
	dy := 69.1 * (*d.Latitude - latitude)
	dx := 69.1 * (longitude - *d.Longitude) * math.Cos(*d.Latitude/57.3)
	return math.Sqrt(dy*dy + dx*dx)
}

// nearest picks the closest located district. The first one wins ties.
func nearest(districts []District, latitude, longitude float64) (District, error) {
	var (
		best    District
		found   bool
		minDist = math.Inf(1)
	)
	for _, d := range districts {
		if !d.Located() {
			continue
		}
		if dist := Distance(latitude, longitude, d); dist < minDist {
			best, minDist, found = d, dist, true
		}
	}
	if !found {
		return District{}, ErrNotFound
	}
	return best, nil
}
