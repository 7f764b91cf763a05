package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/ports"
)

// File-backed implementation of the WaypointRepository port.
// The file is a JSON array of waypoint names.
type JSONWaypointRepository struct {
	Path string
}

var _ ports.WaypointRepository = (*JSONWaypointRepository)(nil)

func NewJSONWaypointRepository(path string) *JSONWaypointRepository {
	return &JSONWaypointRepository{Path: path}
}

func (r *JSONWaypointRepository) ListWaypoints(ctx context.Context) ([]domain.Waypoint, error) {
	names, err := readWaypointNames(r.Path)
	if err != nil {
		return nil, fmt.Errorf("list waypoints: %w", err)
	}

	out := make([]domain.Waypoint, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Waypoint{Name: n})
	}
	return out, nil
}

func readWaypointNames(path string) ([]string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var raw []string
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}

	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for i, n := range raw {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, fmt.Errorf("%q: item at index %d: name cannot be empty", path, i)
		}
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("%q: item at index %d: duplicate name %q", path, i, n)
		}
		seen[n] = struct{}{}
		names = append(names, n)
	}
	return names, nil
}
