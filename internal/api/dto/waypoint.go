package dto

import "transit-tour-service/internal/domain"

type WaypointResponse struct {
	Name        string              `json:"name"`
	Coordinates *domain.Coordinates `json:"coordinates,omitempty"`
}

type ListWaypointResponse struct {
	Waypoints []WaypointResponse `json:"waypoints"`
}
