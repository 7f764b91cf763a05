package digitransit

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGeocodeCache struct {
	mu   sync.Mutex
	data map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, names []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, n := range names {
		if v, ok := c.data[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.data[k] = v
	}
	return nil
}

func newTestProvider(t *testing.T, srv *httptest.Server, cache ports.GeocodeCache) *Provider {
	t.Helper()
	p, err := NewProvider(Config{
		APIKey:           "test-key",
		BaseURL:          srv.URL,
		BoundaryCenter:   domain.Coordinates{Lat: 60.2, Lon: 24.936},
		BoundaryRadiusKm: 30,
		HTTPClient:       srv.Client(),
	}, cache)
	require.NoError(t, err)
	p.initialBackoff = time.Millisecond
	return p
}

func TestNewProviderRequiresKey(t *testing.T) {
	_, err := NewProvider(Config{}, nil)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestResolve(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/geocoding/v1/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get(subscriptionKeyHeader))
		assert.Equal(t, "Mannerheimintie 1", r.URL.Query().Get("text"))
		assert.Equal(t, "60.2", r.URL.Query().Get("boundary.circle.lat"))
		assert.Equal(t, "30", r.URL.Query().Get("boundary.circle.radius"))
		assert.Equal(t, "1", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `{"features":[{"geometry":{"coordinates":[24.94,60.17]}}]}`)
	}))
	defer srv.Close()

	cache := &memGeocodeCache{data: map[string]domain.Coordinates{}}
	p := newTestProvider(t, srv, cache)

	c, err := p.Resolve(context.Background(), "  Mannerheimintie   1 ")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 24.94, Lat: 60.17}, c)

	// Second lookup is served from the cache.
	c, err = p.Resolve(context.Background(), "Mannerheimintie 1")
	require.NoError(t, err)
	assert.Equal(t, 60.17, c.Lat)
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolveNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"features":[]}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, nil)
	_, err := p.Resolve(context.Background(), "Nowhere")
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestFetchItineraries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/routing/v1/routers/hsl/index/graphql", r.URL.Path)
		assert.Equal(t, "application/graphql", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "from: {lat: 60.17, lon: 24.94}")
		assert.Contains(t, string(body), "numItineraries: 5")
		assert.Contains(t, string(body), `date: "2023-10-07"`)

		_, _ = io.WriteString(w, `{"data":{"plan":{"itineraries":[
			{"duration":1260,"walkDistance":410.5,"legs":[
				{"mode":"WALK","duration":300,"distance":410.5,"trip":null},
				{"mode":"TRAM","duration":840,"distance":3900,"trip":{"route":{"shortName":"4"}}}
			]},
			{"duration":1500,"walkDistance":900,"legs":[]}
		]}}}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, nil)
	its, err := p.FetchItineraries(context.Background(),
		domain.Coordinates{Lat: 60.17, Lon: 24.94},
		domain.Coordinates{Lat: 60.2, Lon: 24.9},
	)
	require.NoError(t, err)
	require.Len(t, its, 2)
	assert.Equal(t, 1260.0, its[0].Duration)
	assert.Equal(t, 410.5, its[0].WalkDistance)
	require.Len(t, its[0].Legs, 2)
	assert.Equal(t, "", its[0].Legs[0].Line())
	assert.Equal(t, "4", its[0].Legs[1].Line())
}

func TestFetchItinerariesGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"bad query"}]}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, nil)
	_, err := p.FetchItineraries(context.Background(),
		domain.Coordinates{Lat: 60.17, Lon: 24.94},
		domain.Coordinates{Lat: 60.2, Lon: 24.9},
	)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad query"))
}

func TestRetryOnServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"features":[{"geometry":{"coordinates":[24.94,60.17]}}]}`)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, nil)
	_, err := p.Resolve(context.Background(), "Kamppi")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNoRetryOnUnauthorized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "invalid subscription key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newTestProvider(t, srv, nil)
	_, err := p.Resolve(context.Background(), "Kamppi")

	var he *httpStatusError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusUnauthorized, he.Code)
	assert.Equal(t, int32(1), calls.Load())
}
