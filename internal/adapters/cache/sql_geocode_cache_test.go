package cache

import (
	"context"
	"os"
	"testing"
	"transit-tour-service/internal/adapters/repositories"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/db"

	"github.com/stretchr/testify/require"
)

func TestUniqueNonEmpty(t *testing.T) {
	got := uniqueNonEmpty([]string{" Kamppi", "", "Pasila", "Kamppi ", "  "})
	require.Equal(t, []string{"Kamppi", "Pasila"}, got)
}

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres test")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, repositories.InitSchema(ctx, conn))
	_, err = conn.ExecContext(ctx, `INSERT INTO waypoints (name, position) VALUES ('Kamppi', 0) ON CONFLICT (name) DO NOTHING`)
	require.NoError(t, err)

	c := NewSQLGeocodeCache(conn)
	kamppi := domain.Coordinates{Lon: 24.9316, Lat: 60.1689}
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"Kamppi": kamppi}))

	got, err := c.GetMany(ctx, []string{"Kamppi", "Nowhere"})
	require.NoError(t, err)
	require.Equal(t, map[string]domain.Coordinates{"Kamppi": kamppi}, got)

	waypoints, err := repositories.NewSQLWaypointRepository(conn).ListWaypoints(ctx)
	require.NoError(t, err)
	for _, w := range waypoints {
		if w.Name == "Kamppi" {
			require.NotNil(t, w.Coordinates)
			require.Equal(t, kamppi, *w.Coordinates)
		}
	}

	require.Error(t, c.PutMany(ctx, map[string]domain.Coordinates{"Bad": {Lon: 500, Lat: 0}}))
}
