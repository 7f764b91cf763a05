package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultFetchConcurrency = 4

var (
	ErrProviderUnavailable = errors.New("geocoder or itinerary provider not configured")
	ErrNoItinerary         = errors.New("routing service returned no itineraries")
)

// MatrixLoader produces a complete cost matrix for a waypoint set.
//
// Persisted entries are reused; only the ordered pairs the store does not
// have are geocoded and fetched, and the merged matrix is written back
// before it is returned.
type MatrixLoader struct {
	Store       ports.MatrixStore
	Geocoder    ports.Geocoder
	Itineraries ports.ItineraryProvider
	Concurrency int
}

func (l *MatrixLoader) Load(ctx context.Context, waypoints []domain.Waypoint) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.Load")(&err)

	names := domain.WaypointNames(waypoints)
	matrix := domain.CostMatrix{}

	if l.Store != nil {
		persisted, err := l.Store.Load(ctx, names)
		if err != nil {
			return nil, fmt.Errorf("load cost matrix: read store: %w", err)
		}
		matrix.Merge(persisted.Restrict(names))
	}

	missing := matrix.MissingPairs(names)
	if len(missing) == 0 {
		log.Info().Int("waypoints", len(names)).Msg("cost matrix found in store, skipping fetch")
		return matrix, nil
	}

	if l.Geocoder == nil || l.Itineraries == nil {
		return nil, fmt.Errorf("load cost matrix: %d pairs missing, first %s: %w", len(missing), missing[0], ErrProviderUnavailable)
	}

	log.Info().
		Int("waypoints", len(names)).
		Int("missing_pairs", len(missing)).
		Msg("fetching itineraries")

	coords, err := l.resolveCoordinates(ctx, waypoints, missing)
	if err != nil {
		return nil, fmt.Errorf("load cost matrix: %w", err)
	}

	fetched, err := l.fetchPairs(ctx, missing, coords)
	if err != nil {
		return nil, fmt.Errorf("load cost matrix: %w", err)
	}
	matrix.Merge(fetched)

	if l.Store != nil {
		if err := l.Store.Save(ctx, matrix); err != nil {
			return nil, fmt.Errorf("load cost matrix: persist: %w", err)
		}
	}

	return matrix, nil
}

func (l *MatrixLoader) concurrency() int {
	if l.Concurrency > 0 {
		return l.Concurrency
	}
	return defaultFetchConcurrency
}

// resolveCoordinates geocodes the waypoints taking part in a missing pair
// unless their coordinates are already known.
func (l *MatrixLoader) resolveCoordinates(
	ctx context.Context,
	waypoints []domain.Waypoint,
	missing []domain.Pair,
) (map[string]domain.Coordinates, error) {
	needed := make(map[string]struct{}, len(waypoints))
	for _, p := range missing {
		needed[p.From] = struct{}{}
		needed[p.To] = struct{}{}
	}

	var mu sync.Mutex
	coords := make(map[string]domain.Coordinates, len(needed))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency())

	for _, w := range waypoints {
		if _, ok := needed[w.Name]; !ok {
			continue
		}
		if w.Coordinates != nil {
			mu.Lock()
			coords[w.Name] = *w.Coordinates
			mu.Unlock()
			continue
		}

		name := w.Name
		g.Go(func() error {
			c, err := l.Geocoder.Resolve(gctx, name)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", name, err)
			}
			mu.Lock()
			coords[name] = c
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return coords, nil
}

func (l *MatrixLoader) fetchPairs(
	ctx context.Context,
	pairs []domain.Pair,
	coords map[string]domain.Coordinates,
) (domain.CostMatrix, error) {
	var mu sync.Mutex
	out := domain.CostMatrix{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency())

	for _, p := range pairs {
		p := p
		g.Go(func() error {
			candidates, err := l.Itineraries.FetchItineraries(gctx, coords[p.From], coords[p.To])
			if err != nil {
				return fmt.Errorf("fetch itineraries %s: %w", p, err)
			}

			fastest, ok := selectFastest(candidates)
			if !ok {
				return fmt.Errorf("fetch itineraries %s: %w", p, ErrNoItinerary)
			}

			mu.Lock()
			out.Set(p.From, p.To, fastest)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// selectFastest returns the minimum-duration candidate; the earliest wins ties.
func selectFastest(candidates []domain.Itinerary) (domain.Itinerary, bool) {
	if len(candidates) == 0 {
		return domain.Itinerary{}, false
	}
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Duration < candidates[best].Duration {
			best = i
		}
	}
	return candidates[best], true
}
