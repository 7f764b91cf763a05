package dto

import "transit-tour-service/internal/domain"

type TourRequest struct {
	Waypoints    []string `json:"waypoints"`
	CostModel    string   `json:"cost_model"`
	Workers      int      `json:"workers"`
	IncludeWorst *bool    `json:"include_worst"`
}

type TourLegResponse struct {
	From            string   `json:"from"`
	To              string   `json:"to"`
	DurationSeconds float64  `json:"duration_seconds"`
	DistanceMeters  float64  `json:"distance_meters"`
	WalkMeters      float64  `json:"walk_meters"`
	Lines           []string `json:"lines"`
}

type SolutionResponse struct {
	Waypoints            []string          `json:"waypoints"`
	ComparisonSeconds    float64           `json:"comparison_seconds"`
	PathDurationSeconds  float64           `json:"path_duration_seconds"`
	PathDistanceMeters   float64           `json:"path_distance_meters"`
	WalkDistanceMeters   float64           `json:"walk_distance_meters"`
	StartDurationSeconds float64           `json:"start_duration_seconds"`
	EndDurationSeconds   float64           `json:"end_duration_seconds"`
	Legs                 []TourLegResponse `json:"legs"`
}

type TourResponse struct {
	CostModel string            `json:"cost_model"`
	Evaluated uint64            `json:"evaluated"`
	Total     uint64            `json:"total"`
	ElapsedMS int64             `json:"elapsed_ms"`
	Best      SolutionResponse  `json:"best"`
	Worst     *SolutionResponse `json:"worst,omitempty"`
}

func NewTourResponse(res *domain.TourResult) TourResponse {
	out := TourResponse{
		CostModel: res.CostModel,
		Evaluated: res.Evaluated,
		Total:     res.Total,
		ElapsedMS: res.Elapsed.Milliseconds(),
		Best:      newSolutionResponse(res.Best),
	}
	if res.Worst != nil {
		worst := newSolutionResponse(*res.Worst)
		out.Worst = &worst
	}
	return out
}

func newSolutionResponse(s domain.Solution) SolutionResponse {
	legs := make([]TourLegResponse, 0, len(s.Itineraries))
	for i, it := range s.Itineraries {
		lines := make([]string, 0, len(it.Legs))
		for _, l := range it.Legs {
			if line := l.Line(); line != "" {
				lines = append(lines, line)
			}
		}
		legs = append(legs, TourLegResponse{
			From:            s.Waypoints[i],
			To:              s.Waypoints[i+1],
			DurationSeconds: it.Duration,
			DistanceMeters:  it.Distance(),
			WalkMeters:      it.WalkDistance,
			Lines:           lines,
		})
	}

	return SolutionResponse{
		Waypoints:            s.Waypoints,
		ComparisonSeconds:    s.Metrics.Comparison,
		PathDurationSeconds:  s.Metrics.PathDuration,
		PathDistanceMeters:   s.Metrics.PathDistance,
		WalkDistanceMeters:   s.Metrics.WalkDistance,
		StartDurationSeconds: s.Metrics.StartDuration,
		EndDurationSeconds:   s.Metrics.EndDuration,
		Legs:                 legs,
	}
}
