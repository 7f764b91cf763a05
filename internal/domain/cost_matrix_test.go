package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCostMatrixValidate(t *testing.T) {
	m := CostMatrix{}
	m.Set("A", "B", Itinerary{Duration: 600})
	m.Set("B", "A", Itinerary{Duration: 620})
	m.Set("A", "C", Itinerary{Duration: 1200})
	m.Set("C", "A", Itinerary{Duration: 1180})
	m.Set("B", "C", Itinerary{Duration: 300})

	err := m.Validate([]string{"A", "B", "C"})
	if !errors.Is(err, ErrMissingItinerary) {
		t.Fatalf("expected ErrMissingItinerary, got %v", err)
	}

	var mpe *MissingPairError
	if !errors.As(err, &mpe) {
		t.Fatalf("expected *MissingPairError, got %T", err)
	}
	if mpe.Pair.From != "C" || mpe.Pair.To != "B" {
		t.Fatalf("missing pair = %s, want C -> B", mpe.Pair)
	}

	m.Set("C", "B", Itinerary{Duration: 310})
	if err := m.Validate([]string{"A", "B", "C"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCostMatrixValidateRejectsNaN(t *testing.T) {
	m := CostMatrix{}
	m.Set("A", "B", Itinerary{Duration: math.NaN()})
	m.Set("B", "A", Itinerary{Duration: 10})

	if err := m.Validate([]string{"A", "B"}); !errors.Is(err, ErrInvalidItinerary) {
		t.Fatalf("expected ErrInvalidItinerary, got %v", err)
	}
}

func TestCostMatrixMissingPairsAndRestrict(t *testing.T) {
	m := CostMatrix{}
	m.Set("A", "B", Itinerary{Duration: 1})
	m.Set("B", "A", Itinerary{Duration: 2})
	m.Set("A", "Z", Itinerary{Duration: 3})

	missing := m.MissingPairs([]string{"A", "B", "C"})
	if len(missing) != 4 {
		t.Fatalf("missing pairs = %v, want 4 entries", missing)
	}

	r := m.Restrict([]string{"A", "B"})
	if _, ok := r["A"]["Z"]; ok {
		t.Fatalf("restricted matrix should not contain A -> Z")
	}
	if got := r["B"]["A"].Duration; got != 2 {
		t.Fatalf("B -> A duration = %v, want 2", got)
	}
}

func TestItineraryDistance(t *testing.T) {
	it := Itinerary{
		Duration: 900,
		Legs: []Leg{
			{Mode: "WALK", Duration: 120, Distance: 150.5},
			{Mode: "TRAM", Duration: 600, Distance: 3200, Trip: &Trip{Route: Route{ShortName: "7"}}},
		},
	}

	if got := it.Distance(); got != 3350.5 {
		t.Fatalf("distance = %v, want 3350.5", got)
	}
	if it.Legs[0].Line() != "" || it.Legs[1].Line() != "7" {
		t.Fatalf("unexpected lines %q %q", it.Legs[0].Line(), it.Legs[1].Line())
	}
}
