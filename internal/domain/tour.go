package domain

import "time"

// TourMetrics are the scalars derived from one ordering.
// Comparison is the value orderings are ranked by; which terms it includes
// depends on the cost model the search ran with.
type TourMetrics struct {
	PathDuration  float64 `json:"path_duration"`
	PathDistance  float64 `json:"path_distance"`
	WalkDistance  float64 `json:"walk_distance"`
	StartDuration float64 `json:"start_duration"`
	EndDuration   float64 `json:"end_duration"`
	Comparison    float64 `json:"comparison"`
}

// BoundaryDuration is the cost of every other waypoint reaching the start
// plus the end reaching every other waypoint.
func (m TourMetrics) BoundaryDuration() float64 {
	return m.StartDuration + m.EndDuration
}

// Solution is an immutable snapshot of one ordering and the itineraries
// between its consecutive waypoints.
type Solution struct {
	Waypoints   []string
	Itineraries []Itinerary
	Metrics     TourMetrics
}

// TourResult is the outcome of an exhaustive search.
type TourResult struct {
	Best      Solution
	Worst     *Solution
	CostModel string
	Evaluated uint64
	Total     uint64
	Elapsed   time.Duration
}
