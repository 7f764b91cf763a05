package handlers

import (
	"net/http"
	"transit-tour-service/internal/api/dto"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"

	"github.com/rs/zerolog/log"
)

type WaypointHandler struct {
	Repo ports.WaypointRepository
}

// List returns every known waypoint in repository order.
func (h *WaypointHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	waypoints, err := h.Repo.ListWaypoints(r.Context())
	if err != nil {
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("list waypoints failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListWaypointResponse{Waypoints: make([]dto.WaypointResponse, 0, len(waypoints))}
	for _, wp := range waypoints {
		res.Waypoints = append(res.Waypoints, dto.WaypointResponse{
			Name:        wp.Name,
			Coordinates: wp.Coordinates,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
