package digitransit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
)

const numItineraries = 5

const planQuery = `{
  plan(
    from: {lat: %s, lon: %s}
    to: {lat: %s, lon: %s}
    numItineraries: %d
    date: %q
    time: %q
  ) {
    itineraries {
      duration
      walkDistance
      legs {
        mode
        duration
        distance
        transitLeg
        trip {
          route {
            shortName
          }
        }
      }
    }
  }
}`

type planResponse struct {
	Data *struct {
		Plan *struct {
			Itineraries []domain.Itinerary `json:"itineraries"`
		} `json:"plan"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FetchItineraries asks the routing API for up to five itineraries between
// two points, departing at the configured date and time.
func (p *Provider) FetchItineraries(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ []domain.Itinerary, err error) {
	defer obs.Time(ctx, "digitransit.FetchItineraries")(&err)

	if !from.Valid() || !to.Valid() {
		return nil, fmt.Errorf("fetch itineraries: invalid coordinates %+v -> %+v", from, to)
	}

	endpoint := fmt.Sprintf("%s/routing/v1/routers/%s/index/graphql", p.baseURL, p.router)
	query := fmt.Sprintf(
		planQuery,
		formatCoord(from.Lat), formatCoord(from.Lon),
		formatCoord(to.Lat), formatCoord(to.Lon),
		numItineraries, p.planDate, p.planTime,
	)

	resp, err := p.doWithRetry(ctx, "routing", func() (*http.Request, error) {
		return p.newRequest(ctx, http.MethodPost, endpoint, "application/graphql", strings.NewReader(query))
	})
	if err != nil {
		return nil, fmt.Errorf("plan request failed: %w", err)
	}
	defer resp.Body.Close()

	var pr planResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode plan response: %w", err)
	}

	if len(pr.Errors) > 0 {
		msgs := make([]string, 0, len(pr.Errors))
		for _, e := range pr.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("plan query: %s", strings.Join(msgs, "; "))
	}

	if pr.Data == nil || pr.Data.Plan == nil {
		return nil, errors.New("plan response: missing data.plan")
	}

	return pr.Data.Plan.Itineraries, nil
}
