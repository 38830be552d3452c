// Package sheets is the data access layer for the three fleet tables. The
// primary backend is a Google Sheets spreadsheet; a local workbook or CSV
// snapshot serves reads when the remote store is unreachable. Writes only
// ever go to the primary store and fail loudly in fallback mode.
package sheets

import (
	"context"
	"errors"
	"fmt"

	"github.com/skylark-aero/skylark/pkg/fleet"
)

var (
	// ErrRowNotFound indicates the key did not match any row in the table.
	ErrRowNotFound = errors.New("sheets: row not found")

	// ErrReadOnly indicates a write was attempted on a read-only store.
	ErrReadOnly = errors.New("sheets: store is read-only")

	// ErrDataUnavailable indicates both the primary store and the fallback
	// failed. Callers report this to the user; there is no automatic retry.
	ErrDataUnavailable = errors.New("sheets: data unavailable")
)

// Table is the full contents of one table at the moment of a read.
type Table struct {
	Name   string
	Header []string
	Rows   []fleet.Row
}

// Store reads and writes whole tables against one backend.
type Store interface {
	// ReadTable returns the named table with rows in sheet order.
	ReadTable(ctx context.Context, name string) (*Table, error)

	// UpdateRow replaces the given columns of the row whose keyCol equals
	// key. Returns ErrRowNotFound when the key does not match.
	UpdateRow(ctx context.Context, name, keyCol, key string, updates map[string]string) error
}

// rowsFromValues converts a raw header+rows grid into keyed rows. Short rows
// are padded so trailing empty cells do not drop columns.
func rowsFromValues(name string, grid [][]string) *Table {
	t := &Table{Name: name}
	if len(grid) == 0 {
		return t
	}
	t.Header = grid[0]
	for _, raw := range grid[1:] {
		row := make(fleet.Row, len(t.Header))
		for i, col := range t.Header {
			if i < len(raw) {
				row[col] = raw[i]
			} else {
				row[col] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// columnIndex locates a header column, case-insensitive.
func columnIndex(header []string, col string) (int, error) {
	for i, h := range header {
		if fleet.NormalizeStatus(h) == fleet.NormalizeStatus(col) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("sheets: column %q not found", col)
}
