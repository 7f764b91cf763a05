package matrixstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"
)

// SQLStore persists itineraries in the PostgreSQL itinerary_cache table,
// one row per ordered pair with the itinerary stored as JSONB.
type SQLStore struct {
	DB *sql.DB
}

var _ ports.MatrixStore = (*SQLStore)(nil)

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{DB: db}
}

func (s *SQLStore) Load(ctx context.Context, names []string) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.sql.Load")(&err)

	if s.DB == nil {
		return nil, errors.New("matrix store: db is nil")
	}

	out := domain.CostMatrix{}
	if len(names) == 0 {
		return out, nil
	}

	q := `
	SELECT origin, destination, itinerary
	FROM itinerary_cache
	WHERE origin = ANY($1::text[])
		AND destination = ANY($1::text[]);
	`

	rows, err := s.DB.QueryContext(ctx, q, names)
	if err != nil {
		return nil, fmt.Errorf("load matrix: query itinerary_cache table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var origin, dest string
		var raw []byte
		if err := rows.Scan(&origin, &dest, &raw); err != nil {
			return nil, fmt.Errorf("load matrix: scan rows: %w", err)
		}

		var it domain.Itinerary
		if err := json.Unmarshal(raw, &it); err != nil {
			return nil, fmt.Errorf("load matrix: decode %q -> %q: %w", origin, dest, err)
		}
		out.Set(origin, dest, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load matrix: row iteration: %w", err)
	}

	return out, nil
}

func (s *SQLStore) Save(ctx context.Context, matrix domain.CostMatrix) (err error) {
	defer obs.Time(ctx, "matrix.sql.Save")(&err)

	if s.DB == nil {
		return errors.New("matrix store: db is nil")
	}

	if len(matrix) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save matrix: db begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO itinerary_cache (origin, destination, duration_seconds, itinerary)
	VALUES ($1, $2, $3, $4::jsonb)
	ON CONFLICT (origin, destination) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds,
		itinerary = EXCLUDED.itinerary;
	`)
	if err != nil {
		return fmt.Errorf("save matrix: db prepare: %w", err)
	}
	defer stmt.Close()

	for origin, row := range matrix {
		for dest, it := range row {
			raw, err := json.Marshal(it)
			if err != nil {
				return fmt.Errorf("save matrix: encode %q -> %q: %w", origin, dest, err)
			}
			if _, err := stmt.ExecContext(ctx, origin, dest, it.Duration, string(raw)); err != nil {
				return fmt.Errorf("save matrix origin=%q dest=%q: %w", origin, dest, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save matrix commit: %w", err)
	}

	return nil
}
