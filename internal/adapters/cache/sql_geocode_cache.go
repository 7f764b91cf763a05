package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"
)

// SQLGeocodeCache is a PostgreSQL-backed cache mapping waypoint names to coordinates.
type SQLGeocodeCache struct {
	DB *sql.DB
}

var _ ports.GeocodeCache = (*SQLGeocodeCache)(nil)

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

// GetMany returns the cached coordinates for whichever of names are known.
func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	names []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.cache.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueNonEmpty(names)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	q := `
	SELECT address, lon, lat
	FROM geocode_cache
	WHERE address = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, uniq)
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var name string
		var lon, lat float64
		if err := rows.Scan(&name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("get geocode cache: scan rows: %w", err)
		}
		out[name] = domain.Coordinates{Lon: lon, Lat: lat}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get geocode cache: row iteration: %w", err)
	}

	return out, nil
}

// PutMany upserts name -> coordinate mappings in one statement and copies
// them onto matching rows of the waypoints table, so later listings carry
// resolved coordinates without another lookup.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.cache.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	if len(results) == 0 {
		return nil
	}

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	lons := make([]float64, 0, len(names))
	lats := make([]float64, 0, len(names))
	for _, name := range names {
		c := results[name]
		if strings.TrimSpace(name) == "" {
			return errors.New("put geocode cache: empty name key")
		}
		if !c.Valid() {
			return fmt.Errorf("put geocode cache %q: invalid coordinates %+v", name, c)
		}
		lons = append(lons, c.Lon)
		lats = append(lats, c.Lat)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put geocode cache: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsertCacheQuery := `
	INSERT INTO geocode_cache (address, lon, lat)
	SELECT * FROM unnest($1::text[], $2::float8[], $3::float8[])
	ON CONFLICT (address) DO UPDATE
	SET lon = EXCLUDED.lon,
		lat = EXCLUDED.lat;
	`
	if _, err := tx.ExecContext(ctx, upsertCacheQuery, names, lons, lats); err != nil {
		return fmt.Errorf("put geocode cache: upsert %d rows: %w", len(names), err)
	}

	updateWaypointsQuery := `
	UPDATE waypoints AS w
	SET lon = r.lon,
		lat = r.lat
	FROM unnest($1::text[], $2::float8[], $3::float8[]) AS r(name, lon, lat)
	WHERE w.name = r.name;
	`
	if _, err := tx.ExecContext(ctx, updateWaypointsQuery, names, lons, lats); err != nil {
		return fmt.Errorf("put geocode cache: update waypoints: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put geocode cache: commit: %w", err)
	}

	return nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	uniq := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	return uniq
}
