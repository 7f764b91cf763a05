package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONWaypointRepositoryListWaypoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	if err := os.WriteFile(path, []byte(`["Kamppi", " Pasila ", "Itis"]`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	waypoints, err := NewJSONWaypointRepository(path).ListWaypoints(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"Kamppi", "Pasila", "Itis"}
	if len(waypoints) != len(want) {
		t.Fatalf("got %d waypoints, want %d", len(waypoints), len(want))
	}
	for i, w := range waypoints {
		if w.Name != want[i] {
			t.Errorf("waypoint %d = %q, want %q", i, w.Name, want[i])
		}
		if w.Coordinates != nil {
			t.Errorf("waypoint %q should not have coordinates yet", w.Name)
		}
	}
}

func TestJSONWaypointRepositoryRejectsDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addresses.json")
	if err := os.WriteFile(path, []byte(`["Kamppi", "Kamppi"]`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := NewJSONWaypointRepository(path).ListWaypoints(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}
