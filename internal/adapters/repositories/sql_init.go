package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Initialize the PostgreSQL schema. Every statement is idempotent.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createWaypointsQuery := `
	CREATE TABLE IF NOT EXISTS waypoints (
		name TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		lon DOUBLE PRECISION,
		lat DOUBLE PRECISION
	);
	`

	createItineraryCacheQuery := `
	CREATE TABLE IF NOT EXISTS itinerary_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		itinerary JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (origin, destination)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itinerary_cache_destination_origin
	ON itinerary_cache(destination, origin);
	`

	statements := []string{
		createWaypointsQuery,
		createItineraryCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the waypoints table from a JSON array of names. Positions follow
// the file order; existing rows keep their resolved coordinates.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	names, err := readWaypointNames(jsonPath)
	if err != nil {
		return fmt.Errorf("seed waypoints: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed waypoints: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO waypoints (name, position)
	VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE
	SET position = EXCLUDED.position;
	`)
	if err != nil {
		return fmt.Errorf("seed waypoints: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, name := range names {
		if _, err := stmt.ExecContext(ctx, name, i); err != nil {
			return fmt.Errorf("seed waypoints: insert name=%q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed waypoints: commit tx: %w", err)
	}

	return nil
}
