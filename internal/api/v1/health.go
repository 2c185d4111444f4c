package v1

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/mgnrega-dashboard-server/internal/api/common"
	"github.com/stacklok/mgnrega-dashboard-server/internal/service"
	"github.com/stacklok/mgnrega-dashboard-server/internal/versions"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the body of a successful GET /readiness
type ReadinessResponse struct {
	Status string `json:"status"`
}

// HealthRouter creates a router for the health, readiness and version endpoints
func HealthRouter(svc service.DashboardService) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(svc))
	r.Get("/version", versionHandler)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{
		Status:    "OK",
		Message:   "MGNREGA API is running",
		Timestamp: time.Now().UTC(),
	}, http.StatusOK)
}

func readinessHandler(svc service.DashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.CheckReadiness(r.Context()); err != nil {
			common.WriteErrorResponse(w, "Service not ready: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		common.WriteJSONResponse(w, ReadinessResponse{Status: "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetInfo(), http.StatusOK)
}
