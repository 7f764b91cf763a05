package ports

import (
	"context"
	"transit-tour-service/internal/domain"
)

// Port: a boundary for retrieving the waypoint set.
type WaypointRepository interface {
	// Retrieve all waypoints in their configured order.
	ListWaypoints(ctx context.Context) ([]domain.Waypoint, error)
}
