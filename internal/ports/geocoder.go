package ports

import (
	"context"
	"errors"
	"transit-tour-service/internal/domain"
)

// ErrNotFound is returned when a geocoder has no match for a waypoint name.
var ErrNotFound = errors.New("not found")

// Contract for resolving a waypoint name into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, name string) (domain.Coordinates, error)
}

// Persistent name -> coordinates cache consulted before geocoding.
type GeocodeCache interface {
	GetMany(ctx context.Context, names []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
