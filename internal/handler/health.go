package handler

import (
	"context"
	"net/http"

	"bioroute/internal/ctxlog"
	"bioroute/internal/service"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status         string `json:"status"`
	CatalogVersion string `json:"catalog_version"`
	CatalogSource  string `json:"catalog_source"`
	Technologies   int    `json:"technologies"`
	Templates      int    `json:"templates"`
}

// Health reports liveness of the database and the active catalog
func Health(routes *service.RouteService, db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := routes.Snapshot()
		resp := HealthResponse{
			Status:         "ok",
			CatalogVersion: snap.Catalog.Version(),
			CatalogSource:  snap.Source,
			Technologies:   snap.Catalog.Len(),
			Templates:      len(snap.Templates),
		}

		status := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			ctxlog.FromContext(r.Context()).Warn("health check failed", "error", err)
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, r, resp, status)
	}
}
