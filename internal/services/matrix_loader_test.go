package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"transit-tour-service/internal/adapters/digitransit"
	"transit-tour-service/internal/domain"

	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	matrix  domain.CostMatrix
	saves   int
	saveErr error
}

func (s *memStore) Load(ctx context.Context, names []string) (domain.CostMatrix, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.matrix == nil {
		return domain.CostMatrix{}, nil
	}
	return s.matrix.Restrict(names), nil
}

func (s *memStore) Save(ctx context.Context, matrix domain.CostMatrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.matrix == nil {
		s.matrix = domain.CostMatrix{}
	}
	s.matrix.Merge(matrix)
	s.saves++
	return nil
}

func abcPairs() []digitransit.MockPair {
	var pairs []digitransit.MockPair
	m := abcMatrix()
	for from, row := range m {
		for to, it := range row {
			pairs = append(pairs, digitransit.MockPair{
				From: from,
				To:   to,
				// The slower candidate comes first; the loader keeps the fastest.
				Itineraries: []domain.Itinerary{itinerary(it.Duration + 120), it},
			})
		}
	}
	return pairs
}

func abcWaypoints() []domain.Waypoint {
	return []domain.Waypoint{{Name: "A"}, {Name: "B"}, {Name: "C"}}
}

func TestMatrixLoaderFetchesAndPersists(t *testing.T) {
	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, abcPairs())
	store := &memStore{}
	loader := &MatrixLoader{Store: store, Geocoder: provider, Itineraries: provider, Concurrency: 2}

	m, err := loader.Load(context.Background(), abcWaypoints())
	require.NoError(t, err)
	require.NoError(t, m.Validate([]string{"A", "B", "C"}))
	require.Equal(t, 600.0, m["A"]["B"].Duration)
	require.Equal(t, 300.0, m["C"]["B"].Duration)

	require.Len(t, provider.Fetched(), 6)
	require.ElementsMatch(t, []string{"A", "B", "C"}, provider.Geocoded())
	require.Equal(t, 1, store.saves)
	require.Equal(t, m, store.matrix)
}

func TestMatrixLoaderSkipsFetchWhenStoreIsComplete(t *testing.T) {
	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, nil)
	store := &memStore{matrix: abcMatrix()}
	loader := &MatrixLoader{Store: store, Geocoder: provider, Itineraries: provider}

	m, err := loader.Load(context.Background(), abcWaypoints())
	require.NoError(t, err)
	require.Equal(t, abcMatrix(), m)

	require.Empty(t, provider.Fetched())
	require.Empty(t, provider.Geocoded())
	require.Zero(t, store.saves)
}

func TestMatrixLoaderFetchesOnlyMissingPairs(t *testing.T) {
	partial := abcMatrix()
	delete(partial["A"], "C")
	delete(partial["C"], "A")

	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, abcPairs())
	store := &memStore{matrix: partial}
	loader := &MatrixLoader{Store: store, Geocoder: provider, Itineraries: provider}

	m, err := loader.Load(context.Background(), abcWaypoints())
	require.NoError(t, err)
	require.Equal(t, 1200.0, m["A"]["C"].Duration)

	require.ElementsMatch(t, []domain.Pair{{From: "A", To: "C"}, {From: "C", To: "A"}}, provider.Fetched())
	require.ElementsMatch(t, []string{"A", "C"}, provider.Geocoded())
	require.Equal(t, 1, store.saves)
}

func TestMatrixLoaderUsesKnownCoordinates(t *testing.T) {
	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, abcPairs())
	loader := &MatrixLoader{Geocoder: provider, Itineraries: provider}

	waypoints := abcWaypoints()
	waypoints[0].Coordinates = &domain.Coordinates{Lat: 60, Lon: 24.9}

	_, err := loader.Load(context.Background(), waypoints)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"B", "C"}, provider.Geocoded())
}

func TestMatrixLoaderWithoutProvider(t *testing.T) {
	loader := &MatrixLoader{Store: &memStore{}}

	_, err := loader.Load(context.Background(), abcWaypoints())
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestMatrixLoaderNoItineraries(t *testing.T) {
	pairs := abcPairs()
	for i := range pairs {
		if pairs[i].From == "B" && pairs[i].To == "A" {
			pairs[i].Itineraries = nil
		}
	}
	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, pairs)
	loader := &MatrixLoader{Geocoder: provider, Itineraries: provider}

	_, err := loader.Load(context.Background(), abcWaypoints())
	require.ErrorIs(t, err, ErrNoItinerary)
}

func TestMatrixLoaderPersistFailure(t *testing.T) {
	provider := digitransit.NewMockProvider([]string{"A", "B", "C"}, abcPairs())
	saveErr := errors.New("disk full")
	loader := &MatrixLoader{Store: &memStore{saveErr: saveErr}, Geocoder: provider, Itineraries: provider}

	_, err := loader.Load(context.Background(), abcWaypoints())
	require.ErrorIs(t, err, saveErr)
}

func TestSelectFastest(t *testing.T) {
	_, ok := selectFastest(nil)
	require.False(t, ok)

	first := itinerary(300)
	first.WalkDistance = 1
	second := itinerary(300)
	second.WalkDistance = 2

	got, ok := selectFastest([]domain.Itinerary{itinerary(500), first, second})
	require.True(t, ok)
	require.Equal(t, 1.0, got.WalkDistance, "earliest candidate wins ties")
}
