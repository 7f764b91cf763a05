package matrixstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"transit-tour-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func sampleMatrix() domain.CostMatrix {
	m := domain.CostMatrix{}
	m.Set("Kamppi", "Pasila", domain.Itinerary{
		Duration:     840,
		WalkDistance: 320,
		Legs: []domain.Leg{
			{Mode: "WALK", Duration: 240, Distance: 320},
			{Mode: "BUS", Duration: 540, Distance: 4100, Trip: &domain.Trip{Route: domain.Route{ShortName: "23"}}},
		},
	})
	m.Set("Pasila", "Kamppi", domain.Itinerary{Duration: 900, WalkDistance: 150})
	return m
}

func TestJSONFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewJSONFileStore(filepath.Join(t.TempDir(), "itineraries.json"))

	m, err := s.Load(context.Background(), []string{"Kamppi", "Pasila"})
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestJSONFileStoreRoundTripKeepsExistingEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraries.json")
	s := NewJSONFileStore(path)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleMatrix()))

	extra := domain.CostMatrix{}
	extra.Set("Kamppi", "Itis", domain.Itinerary{Duration: 1800})
	require.NoError(t, s.Save(ctx, extra))

	m, err := s.Load(ctx, []string{"Kamppi", "Pasila"})
	require.NoError(t, err)
	require.NoError(t, m.Validate([]string{"Kamppi", "Pasila"}))
	require.Equal(t, "23", m["Kamppi"]["Pasila"].Legs[1].Line())
	require.NotContains(t, m["Kamppi"], "Itis")

	all, err := s.Load(ctx, []string{"Kamppi", "Itis"})
	require.NoError(t, err)
	require.Equal(t, 1800.0, all["Kamppi"]["Itis"].Duration)
}

func TestJSONFileStoreReadsOriginalFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itineraries.json")
	raw := `{
  "A": {"B": {"legs": [{"mode": "WALK", "duration": 60.0, "distance": 80.0, "trip": null}], "duration": 75.0, "walkDistance": 80.0}},
  "B": {"A": {"legs": [], "duration": 90.0, "walkDistance": 0.0}}
}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	m, err := NewJSONFileStore(path).Load(context.Background(), []string{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, 75.0, m["A"]["B"].Duration)
	require.Equal(t, 80.0, m["A"]["B"].WalkDistance)
	require.Nil(t, m["A"]["B"].Legs[0].Trip)
	require.Equal(t, 90.0, m["B"]["A"].Duration)
}
