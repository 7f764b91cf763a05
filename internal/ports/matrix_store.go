package ports

import (
	"context"
	"transit-tour-service/internal/domain"
)

// Port: durable storage for the cost matrix.
type MatrixStore interface {
	// Load returns the persisted entries between the given waypoints.
	// The result may be partial or empty; absence is not an error.
	Load(ctx context.Context, names []string) (domain.CostMatrix, error)
	// Save persists every entry of the matrix.
	Save(ctx context.Context, matrix domain.CostMatrix) error
}
