package digitransit

import (
	"context"
	"fmt"
	"sync"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"
)

type MockPair struct {
	From, To    string
	Itineraries []domain.Itinerary
}

// MockProvider serves fixed coordinates and itineraries. Waypoints are
// placed on a synthetic grid so each name maps to distinct coordinates.
type MockProvider struct {
	coords map[string]domain.Coordinates
	names  map[domain.Coordinates]string
	plans  map[string][]domain.Itinerary

	mu       sync.Mutex
	geocoded []string
	fetched  []domain.Pair
}

var (
	_ ports.Geocoder          = (*MockProvider)(nil)
	_ ports.ItineraryProvider = (*MockProvider)(nil)
)

func NewMockProvider(names []string, pairs []MockPair) *MockProvider {
	p := &MockProvider{
		coords: make(map[string]domain.Coordinates, len(names)),
		names:  make(map[domain.Coordinates]string, len(names)),
		plans:  make(map[string][]domain.Itinerary, len(pairs)),
	}
	for i, n := range names {
		c := domain.Coordinates{Lat: 60 + float64(i)/100, Lon: 24.9}
		p.coords[n] = c
		p.names[c] = n
	}
	for _, pair := range pairs {
		p.plans[pair.From+"|"+pair.To] = pair.Itineraries
	}
	return p
}

func (p *MockProvider) Resolve(ctx context.Context, name string) (domain.Coordinates, error) {
	c, ok := p.coords[name]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", name, ports.ErrNotFound)
	}
	p.mu.Lock()
	p.geocoded = append(p.geocoded, name)
	p.mu.Unlock()
	return c, nil
}

func (p *MockProvider) FetchItineraries(ctx context.Context, from, to domain.Coordinates) ([]domain.Itinerary, error) {
	fromName, ok := p.names[from]
	if !ok {
		return nil, fmt.Errorf("mock plan: unknown origin %+v", from)
	}
	toName, ok := p.names[to]
	if !ok {
		return nil, fmt.Errorf("mock plan: unknown destination %+v", to)
	}

	p.mu.Lock()
	p.fetched = append(p.fetched, domain.Pair{From: fromName, To: toName})
	p.mu.Unlock()

	its, ok := p.plans[fromName+"|"+toName]
	if !ok {
		return nil, fmt.Errorf("missing pair %q -> %q", fromName, toName)
	}
	return its, nil
}

// Geocoded returns the names resolved so far.
func (p *MockProvider) Geocoded() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.geocoded...)
}

// Fetched returns the pairs planned so far.
func (p *MockProvider) Fetched() []domain.Pair {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Pair(nil), p.fetched...)
}
