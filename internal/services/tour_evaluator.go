package services

import (
	"errors"
	"fmt"
	"strings"
	"transit-tour-service/internal/domain"
)

// CostModel selects which terms the comparison metric includes.
type CostModel string

const (
	// CostModelBoundary ranks by path duration plus the duration of every
	// other waypoint reaching the start and of the end reaching every other
	// waypoint.
	CostModelBoundary CostModel = "boundary"
	// CostModelPathOnly ranks by path duration alone.
	CostModelPathOnly CostModel = "path"
)

var ErrUnknownCostModel = errors.New("unknown cost model")

// ParseCostModel maps a configuration value to a CostModel.
// The empty string selects CostModelBoundary.
func ParseCostModel(s string) (CostModel, error) {
	switch CostModel(strings.ToLower(strings.TrimSpace(s))) {
	case "", CostModelBoundary:
		return CostModelBoundary, nil
	case CostModelPathOnly:
		return CostModelPathOnly, nil
	default:
		return "", fmt.Errorf("parse cost model %q: %w", s, ErrUnknownCostModel)
	}
}

// indexedMatrix is a dense, read-only copy of a CostMatrix keyed by
// waypoint position. Workers share one instance without locking.
type indexedMatrix struct {
	n           int
	names       []string
	itineraries []domain.Itinerary // [from*n+to]
	duration    []float64
	distance    []float64
	walk        []float64
	// inbound[i] = sum of duration(j -> i), outbound[i] = sum of duration(i -> j), j != i.
	inbound  []float64
	outbound []float64
}

func newIndexedMatrix(names []string, m domain.CostMatrix) (*indexedMatrix, error) {
	if err := m.Validate(names); err != nil {
		return nil, err
	}

	n := len(names)
	im := &indexedMatrix{
		n:           n,
		names:       append([]string(nil), names...),
		itineraries: make([]domain.Itinerary, n*n),
		duration:    make([]float64, n*n),
		distance:    make([]float64, n*n),
		walk:        make([]float64, n*n),
		inbound:     make([]float64, n),
		outbound:    make([]float64, n),
	}

	for i, from := range names {
		for j, to := range names {
			if i == j {
				continue
			}
			it, err := m.Lookup(from, to)
			if err != nil {
				return nil, err
			}
			k := i*n + j
			im.itineraries[k] = it
			im.duration[k] = it.Duration
			im.distance[k] = it.Distance()
			im.walk[k] = it.WalkDistance
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			im.inbound[i] += im.duration[j*n+i]
			im.outbound[i] += im.duration[i*n+j]
		}
	}

	return im, nil
}

// evaluateTour scores one ordering of waypoint indices. It reads only the
// immutable matrix and is safe to call from any number of goroutines.
func evaluateTour(order []int, im *indexedMatrix, model CostModel) domain.TourMetrics {
	var m domain.TourMetrics
	n := im.n

	for i := 0; i+1 < len(order); i++ {
		k := order[i]*n + order[i+1]
		m.PathDuration += im.duration[k]
		m.PathDistance += im.distance[k]
		m.WalkDistance += im.walk[k]
	}

	if len(order) > 0 {
		m.StartDuration = im.inbound[order[0]]
		m.EndDuration = im.outbound[order[len(order)-1]]
	}

	m.Comparison = m.PathDuration
	if model != CostModelPathOnly {
		m.Comparison += m.StartDuration + m.EndDuration
	}
	return m
}

// solution materializes the snapshot for an ordering: waypoint names and
// the itineraries between consecutive waypoints.
func (im *indexedMatrix) solution(order []int, metrics domain.TourMetrics) domain.Solution {
	names := make([]string, len(order))
	its := make([]domain.Itinerary, 0, max(len(order)-1, 0))
	for i, idx := range order {
		names[i] = im.names[idx]
		if i > 0 {
			its = append(its, im.itineraries[order[i-1]*im.n+idx])
		}
	}
	return domain.Solution{Waypoints: names, Itineraries: its, Metrics: metrics}
}

// ScoreTour scores a named ordering of the complete waypoint set.
func ScoreTour(ordering []string, matrix domain.CostMatrix, model CostModel) (domain.TourMetrics, error) {
	if err := validateWaypointSet(ordering); err != nil {
		return domain.TourMetrics{}, fmt.Errorf("score tour: %w", err)
	}

	im, err := newIndexedMatrix(ordering, matrix)
	if err != nil {
		return domain.TourMetrics{}, fmt.Errorf("score tour: %w", err)
	}

	order := make([]int, len(ordering))
	for i := range order {
		order[i] = i
	}
	return evaluateTour(order, im, model), nil
}
