package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"

	"github.com/rs/zerolog/log"
)

var ErrUnknownWaypoint = errors.New("unknown waypoint")

type PlanTourRequest struct {
	// Waypoints optionally restricts the tour to a subset of the repository,
	// in the given order. Empty means every waypoint.
	Waypoints []string
	Search    SearchOptions
}

// PlanTour loads the waypoint set, makes sure a complete cost matrix exists
// for it, and runs the exhaustive search.
func PlanTour(
	ctx context.Context,
	req PlanTourRequest,
	repo ports.WaypointRepository,
	loader *MatrixLoader,
) (*domain.TourResult, error) {
	all, err := repo.ListWaypoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan tour: list waypoints: %w", err)
	}

	waypoints, err := selectWaypoints(all, req.Waypoints)
	if err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}

	names := domain.WaypointNames(waypoints)

	// Reject oversized or malformed sets before spending any upstream calls.
	if err := validateWaypointSet(names); err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}
	if len(names) > MaxWaypoints {
		return nil, fmt.Errorf("plan tour: %d waypoints (max %d): %w", len(names), MaxWaypoints, ErrTooManyWaypoints)
	}

	matrix, err := loader.Load(ctx, waypoints)
	if err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}

	res, err := FindBestTour(ctx, names, matrix, req.Search)
	if err != nil {
		return nil, fmt.Errorf("plan tour: %w", err)
	}

	log.Info().
		Int("waypoints", len(names)).
		Str("cost_model", res.CostModel).
		Uint64("evaluated", res.Evaluated).
		Float64("comparison", res.Best.Metrics.Comparison).
		Dur("elapsed", res.Elapsed).
		Msg("tour planned")

	return res, nil
}

func selectWaypoints(all []domain.Waypoint, requested []string) ([]domain.Waypoint, error) {
	if len(requested) == 0 {
		return all, nil
	}

	byName := make(map[string]domain.Waypoint, len(all))
	for _, w := range all {
		byName[w.Name] = w
	}

	out := make([]domain.Waypoint, 0, len(requested))
	for _, name := range requested {
		name = strings.TrimSpace(name)
		w, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%q: %w", name, ErrUnknownWaypoint)
		}
		out = append(out, w)
	}
	return out, nil
}
