package domain

// Route identifies the transit line a leg rides on.
type Route struct {
	ShortName string `json:"shortName"`
}

// Trip is present only on transit legs.
type Trip struct {
	Route Route `json:"route"`
}

// Represents one segment of an itinerary (walking or transit).
type Leg struct {
	Mode     string  `json:"mode"`
	Duration float64 `json:"duration"`
	Distance float64 `json:"distance"`
	Trip     *Trip   `json:"trip"`
}

// Line returns the transit line short name, or "" for walking legs.
func (l Leg) Line() string {
	if l.Trip == nil {
		return ""
	}
	return l.Trip.Route.ShortName
}

// Represents the best known way to travel from one waypoint to another.
//
// Duration is reported by the routing service and includes waiting and transfer
// time, so it does not have to equal the sum of leg durations.
type Itinerary struct {
	Legs         []Leg   `json:"legs"`
	Duration     float64 `json:"duration"`
	WalkDistance float64 `json:"walkDistance"`
}

// Distance is the sum of all leg distances in meters.
func (it Itinerary) Distance() float64 {
	total := 0.0
	for _, leg := range it.Legs {
		total += leg.Distance
	}
	return total
}
