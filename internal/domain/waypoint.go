package domain

// Represents a named location the tour must visit.
// The name is the unique key used throughout the cost matrix.
// Coordinates are nil until resolved by a geocoder; the optimizer itself never reads them.
type Waypoint struct {
	Name        string
	Coordinates *Coordinates
}

// WaypointNames returns the names of the given waypoints in order.
func WaypointNames(waypoints []Waypoint) []string {
	names := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		names = append(names, w.Name)
	}
	return names
}
