package api

import (
	"net/http"
	"transit-tour-service/internal/api/handlers"
	"transit-tour-service/internal/ports"
	"transit-tour-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.WaypointRepository,
	loader *services.MatrixLoader,
	defaults services.SearchOptions,
	checks map[string]handlers.CheckFunc,
) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{Checks: checks}

	waypointHandler := &handlers.WaypointHandler{Repo: repo}
	tourHandler := &handlers.TourHandler{
		Repo:     repo,
		Loader:   loader,
		Defaults: defaults,
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/waypoints", waypointHandler.List)
	mux.HandleFunc("/tours", tourHandler.Plan)
	mux.Handle("/metrics", promhttp.Handler())

	return requestIDMiddleware(loggingMiddleware(mux))
}
