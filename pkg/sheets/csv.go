package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVStore reads tables from a directory of <table>.csv snapshot files. It
// is strictly read-only; coordinators export these snapshots for offline
// use.
type CSVStore struct {
	dir string
}

// NewCSVStore points a store at a snapshot directory.
func NewCSVStore(dir string) *CSVStore {
	return &CSVStore{dir: dir}
}

// ReadTable reads <dir>/<name>.csv.
func (s *CSVStore) ReadTable(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sheets: open csv snapshot: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	grid, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sheets: parse %s: %w", path, err)
	}
	return rowsFromValues(name, grid), nil
}

// UpdateRow always fails; CSV snapshots are read-only.
func (s *CSVStore) UpdateRow(ctx context.Context, name, keyCol, key string, updates map[string]string) error {
	return fmt.Errorf("%w: csv snapshot %s", ErrReadOnly, name)
}
