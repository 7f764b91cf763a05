package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"transit-tour-service/internal/api/dto"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"
	"transit-tour-service/internal/services"

	"github.com/rs/zerolog/log"
)

const maxWorkers = 256

type TourHandler struct {
	Repo     ports.WaypointRepository
	Loader   *services.MatrixLoader
	Defaults services.SearchOptions
}

// Plan runs an exhaustive tour search over the requested waypoints (or all of
// them) and returns the best ordering, plus the worst when asked for.
func (h *TourHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.TourRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	opts := h.Defaults
	if req.CostModel != "" {
		model, err := services.ParseCostModel(req.CostModel)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "cost_model must be \"boundary\" or \"path\"")
			return
		}
		opts.CostModel = model
	}

	if req.Workers < 0 || req.Workers > maxWorkers {
		writeError(w, r, http.StatusBadRequest, "workers must be between 0 and 256")
		return
	}
	if req.Workers > 0 {
		opts.Workers = req.Workers
	}
	if req.IncludeWorst != nil {
		opts.TrackWorst = *req.IncludeWorst
	}
	opts.OnProgress = nil

	svcReq := services.PlanTourRequest{
		Waypoints: req.Waypoints,
		Search:    opts,
	}

	res, err := services.PlanTour(r.Context(), svcReq, h.Repo, h.Loader)
	if err != nil {
		if isClientError(err) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Str("req_id", obs.RequestID(r.Context())).Err(err).Msg("plan tour failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewTourResponse(res))
}

func isClientError(err error) bool {
	for _, target := range []error{
		services.ErrNoWaypoints,
		services.ErrDuplicateWaypoint,
		services.ErrEmptyWaypointName,
		services.ErrTooManyWaypoints,
		services.ErrUnknownWaypoint,
		services.ErrUnknownCostModel,
		domain.ErrMissingItinerary,
		domain.ErrInvalidItinerary,
		ports.ErrNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
