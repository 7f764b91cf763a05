package matrixstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"transit-tour-service/internal/domain"
	"transit-tour-service/internal/platform/obs"
	"transit-tour-service/internal/ports"
)

// JSONFileStore keeps the whole cost matrix in one pretty-printed JSON file:
// origin name -> destination name -> itinerary.
type JSONFileStore struct {
	Path string
}

var _ ports.MatrixStore = (*JSONFileStore)(nil)

func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{Path: path}
}

// Load returns the entries between names. A missing file is an empty matrix.
func (s *JSONFileStore) Load(ctx context.Context, names []string) (_ domain.CostMatrix, err error) {
	defer obs.Time(ctx, "matrix.file.Load")(&err)

	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.CostMatrix{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load matrix file %q: %w", s.Path, err)
	}

	var m domain.CostMatrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("load matrix file %q: parse json: %w", s.Path, err)
	}

	return m.Restrict(names), nil
}

// Save merges matrix into the file's existing content and rewrites it
// atomically.
func (s *JSONFileStore) Save(ctx context.Context, matrix domain.CostMatrix) (err error) {
	defer obs.Time(ctx, "matrix.file.Save")(&err)

	merged := domain.CostMatrix{}
	if data, err := os.ReadFile(s.Path); err == nil {
		if err := json.Unmarshal(data, &merged); err != nil {
			return fmt.Errorf("save matrix file %q: parse existing json: %w", s.Path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("save matrix file %q: %w", s.Path, err)
	}
	merged.Merge(matrix)

	payload, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("save matrix file: marshal: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".itineraries-*.json")
	if err != nil {
		return fmt.Errorf("save matrix file: create temp in %q: %w", dir, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("save matrix file: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save matrix file: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("save matrix file: rename to %q: %w", s.Path, err)
	}

	return nil
}
