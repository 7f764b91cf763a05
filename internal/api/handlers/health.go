package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
	"transit-tour-service/internal/platform/obs"

	"github.com/rs/zerolog/log"
)

// CheckFunc probes one backing service.
type CheckFunc func(ctx context.Context) error

type HealthHandler struct {
	Checks map[string]CheckFunc
}

// Health reports liveness plus the state of each configured backing service.
// Any failing check turns the response into 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]string{"status": "ok"}
	status := http.StatusOK

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := h.Checks[name](ctx)
		cancel()

		if err != nil {
			log.Warn().Str("req_id", obs.RequestID(r.Context())).Str("check", name).Err(err).Msg("health check failed")
			res[name] = "unavailable"
			res["status"] = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res[name] = "ok"
	}

	writeJSON(w, r, status, res)
}
