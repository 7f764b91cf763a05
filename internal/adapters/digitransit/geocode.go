package digitransit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"

	"github.com/rs/zerolog/log"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Resolve returns the coordinates of the best geocoding match for name.
// Cached coordinates are returned without calling the API; fresh results
// are written back to the cache.
func (p *Provider) Resolve(ctx context.Context, name string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "digitransit.Resolve")(&err)

	norm := normalize(name)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve: name must be non-empty")
	}

	if p.geocodeCache != nil {
		hits, err := p.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("resolve %q: geocode cache: %w", norm, err)
		}
		if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	coords, err := p.geocode(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("resolve %q: %w", norm, err)
	}

	if p.geocodeCache != nil {
		if err := p.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: coords}); err != nil {
			log.Warn().Err(err).Str("name", norm).Msg("geocode cache write failed")
		}
	}

	return coords, nil
}

func (p *Provider) geocode(ctx context.Context, text string) (domain.Coordinates, error) {
	endpoint := p.baseURL + "/geocoding/v1/search"

	resp, err := p.doWithRetry(ctx, "geocoding", func() (*http.Request, error) {
		req, err := p.newRequest(ctx, http.MethodGet, endpoint, "", nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		if p.boundaryRadiusKm > 0 {
			q.Set("boundary.circle.lat", strconv.FormatFloat(p.boundaryCenter.Lat, 'f', -1, 64))
			q.Set("boundary.circle.lon", strconv.FormatFloat(p.boundaryCenter.Lon, 'f', -1, 64))
			q.Set("boundary.circle.radius", strconv.FormatFloat(p.boundaryRadiusKm, 'f', -1, 64))
		}
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results: %w", ports.ErrNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format: %v", coords)
	}

	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("coordinates out of range: %+v", c)
	}
	return c, nil
}
