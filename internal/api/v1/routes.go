// Package v1 provides the REST API handlers of the dashboard.
package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/mgnrega-dashboard-server/internal/api/common"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	pkgsync "github.com/stacklok/mgnrega-dashboard-server/internal/sync"
)

// ReverseGeocodeRequest is the body of POST /api/reverse-geocode
type ReverseGeocodeRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// ClearCacheResponse reports how many cache entries were removed
type ClearCacheResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Cleared int64  `json:"cleared"`
}

// Routes holds the handlers of the dashboard API
type Routes struct {
	service service.DashboardService
}

// NewRoutes creates a new Routes instance with the provided service
func NewRoutes(svc service.DashboardService) *Routes {
	return &Routes{service: svc}
}

// Router creates the router of the dashboard API, mounted under /api
func Router(svc service.DashboardService) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/states", routes.listStates)
	r.Get("/districts/{stateCode}", routes.listDistricts)
	r.Get("/district-data/{districtCode}", routes.getDistrictData)
	r.Post("/reverse-geocode", routes.reverseGeocode)

	r.Post("/sync", routes.triggerSync)
	r.Get("/sync/status", routes.syncStatus)

	r.Get("/cache/stats", routes.cacheStats)
	r.Delete("/cache", routes.invalidateCache)
	r.Post("/clear-cache/{districtCode}", routes.clearDistrictCache)

	return r
}

// listStates handles GET /api/states
func (rr *Routes) listStates(w http.ResponseWriter, r *http.Request) {
	states, err := rr.service.ListStates(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, states, http.StatusOK)
}

// listDistricts handles GET /api/districts/{stateCode}
func (rr *Routes) listDistricts(w http.ResponseWriter, r *http.Request) {
	stateCode, err := common.GetCodeParam(r, "stateCode")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	districts, err := rr.service.ListDistricts(r.Context(), stateCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, districts, http.StatusOK)
}

// getDistrictData handles GET /api/district-data/{districtCode}?year=
func (rr *Routes) getDistrictData(w http.ResponseWriter, r *http.Request) {
	districtCode, err := common.GetCodeParam(r, "districtCode")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := rr.service.GetDistrictData(r.Context(), districtCode, r.URL.Query().Get("year"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, data, http.StatusOK)
}

// reverseGeocode handles POST /api/reverse-geocode
func (rr *Routes) reverseGeocode(w http.ResponseWriter, r *http.Request) {
	var req ReverseGeocodeRequest
	if err := common.DecodeJSONBody(w, r, &req); err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		common.WriteErrorResponse(w, "latitude and longitude are required", http.StatusBadRequest)
		return
	}

	district, err := rr.service.NearestDistrict(r.Context(), *req.Latitude, *req.Longitude)
	if errors.Is(err, service.ErrDistrictNotFound) {
		common.WriteErrorResponse(w, "No district found", http.StatusNotFound)
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, district, http.StatusOK)
}

// triggerSync handles POST /api/sync
func (rr *Routes) triggerSync(w http.ResponseWriter, r *http.Request) {
	result, err := rr.service.TriggerSync(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, result, http.StatusOK)
}

// syncStatus handles GET /api/sync/status
func (rr *Routes) syncStatus(w http.ResponseWriter, r *http.Request) {
	common.WriteJSONResponse(w, rr.service.SyncStatus(r.Context()), http.StatusOK)
}

// cacheStats handles GET /api/cache/stats
func (rr *Routes) cacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := rr.service.CacheStats(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, stats, http.StatusOK)
}

// invalidateCache handles DELETE /api/cache?key=|pattern=
func (rr *Routes) invalidateCache(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cleared, err := rr.service.InvalidateCache(r.Context(), service.Invalidation{
		Key:     q.Get("key"),
		Pattern: q.Get("pattern"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, ClearCacheResponse{
		Success: true,
		Message: "Cache invalidated",
		Cleared: cleared,
	}, http.StatusOK)
}

// clearDistrictCache handles POST /api/clear-cache/{districtCode}
func (rr *Routes) clearDistrictCache(w http.ResponseWriter, r *http.Request) {
	districtCode, err := common.GetCodeParam(r, "districtCode")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	cleared, err := rr.service.ClearDistrictCache(r.Context(), districtCode)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	common.WriteJSONResponse(w, ClearCacheResponse{
		Success: true,
		Message: "Cache cleared",
		Cleared: cleared,
	}, http.StatusOK)
}

// writeServiceError maps service errors to status codes. Unexpected errors
// are logged and hidden from the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var syncErr *pkgsync.Error
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrDistrictNotFound):
		common.WriteErrorResponse(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, pkgsync.ErrSyncInProgress):
		common.WriteErrorResponse(w, "Sync already in progress", http.StatusConflict)
	case errors.As(err, &syncErr):
		common.WriteErrorResponse(w, syncErr.Message, http.StatusInternalServerError)
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		common.WriteErrorResponse(w, "Internal server error", http.StatusInternalServerError)
	}
}
