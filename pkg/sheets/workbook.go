package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore backs the three tables with sheets of a local .xlsx
// workbook. It serves as the offline fallback for reads and as the primary
// store when the coordinator runs fully local.
type WorkbookStore struct {
	mu   sync.Mutex
	path string
}

// NewWorkbookStore points a store at a workbook file. The file is opened on
// every operation so external edits are picked up between calls.
func NewWorkbookStore(path string) *WorkbookStore {
	return &WorkbookStore{path: path}
}

// ReadTable reads the sheet named after the table.
func (s *WorkbookStore) ReadTable(ctx context.Context, name string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("sheets: open workbook: %w", err)
	}
	defer f.Close()

	grid, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheets: read sheet %s: %w", name, err)
	}
	return rowsFromValues(name, grid), nil
}

// UpdateRow rewrites the changed cells of the row matching the key and saves
// the workbook.
func (s *WorkbookStore) UpdateRow(ctx context.Context, name, keyCol, key string, updates map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("sheets: open workbook: %w", err)
	}
	defer f.Close()

	grid, err := f.GetRows(name)
	if err != nil {
		return fmt.Errorf("sheets: read sheet %s: %w", name, err)
	}
	if len(grid) == 0 {
		return fmt.Errorf("%w: %s=%q in %s", ErrRowNotFound, keyCol, key, name)
	}
	header := grid[0]
	keyIdx, err := columnIndex(header, keyCol)
	if err != nil {
		return err
	}
	rowNum := -1
	for i, row := range grid[1:] {
		if keyIdx < len(row) && row[keyIdx] == key {
			rowNum = i + 2 // 1-based, plus header row
			break
		}
	}
	if rowNum < 0 {
		return fmt.Errorf("%w: %s=%q in %s", ErrRowNotFound, keyCol, key, name)
	}
	for col, value := range updates {
		colIdx, err := columnIndex(header, col)
		if err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(colIdx+1, rowNum)
		if err != nil {
			return fmt.Errorf("sheets: cell name: %w", err)
		}
		if err := f.SetCellValue(name, cell, value); err != nil {
			return fmt.Errorf("sheets: set %s!%s: %w", name, cell, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("sheets: save workbook: %w", err)
	}
	return nil
}
