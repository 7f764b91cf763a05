package services

import (
	"fmt"
	"math"
	"math/rand"
	"transit-tour-service/internal/domain"
)

func itinerary(seconds float64) domain.Itinerary {
	return domain.Itinerary{
		Duration:     seconds,
		WalkDistance: 50,
		Legs: []domain.Leg{
			{Mode: "WALK", Duration: 60, Distance: 50},
			{Mode: "TRAM", Duration: seconds - 60, Distance: seconds * 4, Trip: &domain.Trip{Route: domain.Route{ShortName: "4"}}},
		},
	}
}

// abcMatrix is symmetric: A<->B 600 s, B<->C 300 s, A<->C 1200 s.
func abcMatrix() domain.CostMatrix {
	m := domain.CostMatrix{}
	for _, e := range []struct {
		a, b    string
		seconds float64
	}{
		{"A", "B", 600},
		{"B", "C", 300},
		{"A", "C", 1200},
	} {
		m.Set(e.a, e.b, itinerary(e.seconds))
		m.Set(e.b, e.a, itinerary(e.seconds))
	}
	return m
}

func waypointNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("W%02d", i)
	}
	return names
}

// randomMatrix builds an asymmetric matrix with durations between 60 and 3600 s.
func randomMatrix(names []string, seed int64) domain.CostMatrix {
	rng := rand.New(rand.NewSource(seed))
	m := domain.CostMatrix{}
	for _, from := range names {
		for _, to := range names {
			if from == to {
				continue
			}
			m.Set(from, to, itinerary(float64(60+rng.Intn(3540))))
		}
	}
	return m
}

// referenceScore recomputes the comparison metric straight from the map.
func referenceScore(order []string, m domain.CostMatrix, model CostModel) float64 {
	total := 0.0
	for i := 0; i+1 < len(order); i++ {
		total += m[order[i]][order[i+1]].Duration
	}
	if model == CostModelPathOnly || len(order) == 0 {
		return total
	}

	start, end := order[0], order[len(order)-1]
	for _, other := range order {
		if other != start {
			total += m[other][start].Duration
		}
		if other != end {
			total += m[end][other].Duration
		}
	}
	return total
}

// bruteForce enumerates orderings recursively and returns the min and max
// reference scores.
func bruteForce(names []string, m domain.CostMatrix, model CostModel) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	used := make([]bool, len(names))
	order := make([]string, 0, len(names))

	var walk func()
	walk = func() {
		if len(order) == len(names) {
			s := referenceScore(order, m, model)
			lo = math.Min(lo, s)
			hi = math.Max(hi, s)
			return
		}
		for i, n := range names {
			if used[i] {
				continue
			}
			used[i] = true
			order = append(order, n)
			walk()
			order = order[:len(order)-1]
			used[i] = false
		}
	}
	walk()
	return lo, hi
}
