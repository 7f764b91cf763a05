package ports

import (
	"context"
	"transit-tour-service/internal/domain"
)

// Contract for retrieving candidate itineraries between two coordinates.
type ItineraryProvider interface {
	// Return every itinerary the routing service proposes; callers pick one.
	FetchItineraries(ctx context.Context, from, to domain.Coordinates) ([]domain.Itinerary, error)
}
