package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrMissingItinerary is wrapped by every MissingPairError.
	ErrMissingItinerary = errors.New("missing itinerary")
	// ErrInvalidItinerary marks an itinerary whose duration cannot be compared.
	ErrInvalidItinerary = errors.New("invalid itinerary")
)

// Pair is an ordered (origin, destination) waypoint pair.
type Pair struct {
	From string
	To   string
}

func (p Pair) String() string { return fmt.Sprintf("%q -> %q", p.From, p.To) }

// MissingPairError reports the first ordered pair without cost data.
type MissingPairError struct {
	Pair Pair
}

func (e *MissingPairError) Error() string {
	return fmt.Sprintf("cost matrix: no itinerary for %s", e.Pair)
}

func (e *MissingPairError) Unwrap() error { return ErrMissingItinerary }

// CostMatrix maps origin name -> destination name -> best known itinerary.
// It is built before a search and treated as read-only afterwards.
type CostMatrix map[string]map[string]Itinerary

// Lookup returns the itinerary for from -> to.
func (m CostMatrix) Lookup(from, to string) (Itinerary, error) {
	row, ok := m[from]
	if !ok {
		return Itinerary{}, &MissingPairError{Pair: Pair{From: from, To: to}}
	}
	it, ok := row[to]
	if !ok {
		return Itinerary{}, &MissingPairError{Pair: Pair{From: from, To: to}}
	}
	return it, nil
}

// Set stores the itinerary for from -> to, allocating the row when needed.
func (m CostMatrix) Set(from, to string, it Itinerary) {
	row, ok := m[from]
	if !ok {
		row = make(map[string]Itinerary)
		m[from] = row
	}
	row[to] = it
}

// MissingPairs lists every ordered pair of distinct names with no entry,
// in the order of names.
func (m CostMatrix) MissingPairs(names []string) []Pair {
	var missing []Pair
	for _, from := range names {
		for _, to := range names {
			if from == to {
				continue
			}
			if _, err := m.Lookup(from, to); err != nil {
				missing = append(missing, Pair{From: from, To: to})
			}
		}
	}
	return missing
}

// Validate checks that the matrix is complete for names and that every
// duration is finite and non-negative.
func (m CostMatrix) Validate(names []string) error {
	for _, from := range names {
		for _, to := range names {
			if from == to {
				continue
			}
			it, err := m.Lookup(from, to)
			if err != nil {
				return err
			}
			if math.IsNaN(it.Duration) || math.IsInf(it.Duration, 0) || it.Duration < 0 {
				return fmt.Errorf("cost matrix: %s duration=%v: %w", Pair{From: from, To: to}, it.Duration, ErrInvalidItinerary)
			}
		}
	}
	return nil
}

// Merge copies every entry of other into m, overwriting existing ones.
func (m CostMatrix) Merge(other CostMatrix) {
	for from, row := range other {
		for to, it := range row {
			m.Set(from, to, it)
		}
	}
}

// Restrict returns a copy that only contains pairs between the given names.
func (m CostMatrix) Restrict(names []string) CostMatrix {
	out := make(CostMatrix, len(names))
	for _, from := range names {
		for _, to := range names {
			if from == to {
				continue
			}
			if it, err := m.Lookup(from, to); err == nil {
				out.Set(from, to, it)
			}
		}
	}
	return out
}
