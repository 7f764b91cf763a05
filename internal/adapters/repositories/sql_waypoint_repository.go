package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"
)

// PostgreSQL-backed implementation of the WaypointRepository port.
type SQLWaypointRepository struct{ DB *sql.DB }

var _ ports.WaypointRepository = (*SQLWaypointRepository)(nil)

func NewSQLWaypointRepository(db *sql.DB) *SQLWaypointRepository {
	return &SQLWaypointRepository{DB: db}
}

// Return all waypoints ordered by their seeded position.
func (s *SQLWaypointRepository) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	if s.DB == nil {
		return nil, errors.New("sql waypoint repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lon,
		lat
	FROM waypoints
	ORDER BY position, name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list waypoints: query waypoints table: %w", err)
	}
	defer rows.Close()

	waypoints := make([]domain.Waypoint, 0, 16)
	for rows.Next() {
		var name string
		var lon, lat sql.NullFloat64
		if err := rows.Scan(&name, &lon, &lat); err != nil {
			return nil, fmt.Errorf("list waypoints: scan row: %w", err)
		}

		w := domain.Waypoint{Name: name}
		if lon.Valid && lat.Valid {
			w.Coordinates = &domain.Coordinates{Lon: lon.Float64, Lat: lat.Float64}
		}
		waypoints = append(waypoints, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list waypoints: row iteration: %w", err)
	}

	return waypoints, nil
}
