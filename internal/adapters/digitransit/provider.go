package digitransit

import (
	"errors"
	"net/http"
	"strings"
	"time"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.digitransit.fi"
	DefaultRouter  = "hsl"
)

var ErrMissingAPIKey = errors.New("digitransit: subscription key is empty")

// Config describes how to reach the Digitransit APIs.
type Config struct {
	APIKey  string
	BaseURL string
	Router  string

	// Itineraries are planned for a fixed departure so repeated runs agree.
	PlanDate string // YYYY-MM-DD
	PlanTime string // HH:MM:SS

	// Geocoding results are restricted to a circle around this point.
	BoundaryCenter   domain.Coordinates
	BoundaryRadiusKm float64

	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Provider implements ports.Geocoder and ports.ItineraryProvider on top of
// the Digitransit geocoding and routing APIs.
//
// It coordinates:
//   - Persistent geocode caching
//   - Client-side rate limiting
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type Provider struct {
	session          *http.Client
	apiKey           string
	baseURL          string
	router           string
	planDate         string
	planTime         string
	boundaryCenter   domain.Coordinates
	boundaryRadiusKm float64
	geocodeCache     ports.GeocodeCache
	limiter          *rate.Limiter
	maxAttempts      int
	initialBackoff   time.Duration
}

var (
	_ ports.Geocoder          = (*Provider)(nil)
	_ ports.ItineraryProvider = (*Provider)(nil)
)

func NewProvider(cfg Config, geocodeCache ports.GeocodeCache) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	p := &Provider{
		session:          cfg.HTTPClient,
		apiKey:           cfg.APIKey,
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		router:           cfg.Router,
		planDate:         cfg.PlanDate,
		planTime:         cfg.PlanTime,
		boundaryCenter:   cfg.BoundaryCenter,
		boundaryRadiusKm: cfg.BoundaryRadiusKm,
		geocodeCache:     geocodeCache,
		maxAttempts:      4,
		initialBackoff:   200 * time.Millisecond,
	}

	if p.session == nil {
		p.session = &http.Client{Timeout: 15 * time.Second}
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.router == "" {
		p.router = DefaultRouter
	}
	if p.planDate == "" {
		p.planDate = "2023-10-07"
	}
	if p.planTime == "" {
		p.planTime = "12:00:00"
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	p.limiter = rate.NewLimiter(limit, burst)

	return p, nil
}
