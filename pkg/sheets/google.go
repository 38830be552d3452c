package sheets

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	sheetsapi "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"
)

// SheetsStore reads and writes a Google Sheets spreadsheet through the
// sheets/v4 values API using a service-account credential.
type SheetsStore struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// NewSheetsStore builds a store from a service-account credentials file and
// a spreadsheet ID.
func NewSheetsStore(ctx context.Context, credsPath, spreadsheetID string) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("sheets: spreadsheet ID required")
	}
	data, err := os.ReadFile(credsPath)
	if err != nil {
		return nil, fmt.Errorf("sheets: read credentials: %w", err)
	}
	jwt, err := google.JWTConfigFromJSON(data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("sheets: parse credentials: %w", err)
	}
	svc, err := sheetsapi.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets: build service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ReadTable fetches the whole tab named after the table.
func (s *SheetsStore) ReadTable(ctx context.Context, name string) (*Table, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, name).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: read %s: %w", name, err)
	}
	grid := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprintf("%v", cell))
		}
		grid = append(grid, row)
	}
	return rowsFromValues(name, grid), nil
}

// UpdateRow locates the row by key and rewrites the changed cells in place.
// Column updates are applied one cell at a time; the sheet is the source of
// truth for row positions, so the row is located on every call.
func (s *SheetsStore) UpdateRow(ctx context.Context, name, keyCol, key string, updates map[string]string) error {
	table, err := s.ReadTable(ctx, name)
	if err != nil {
		return err
	}
	keyIdx, err := columnIndex(table.Header, keyCol)
	if err != nil {
		return err
	}
	rowNum := -1
	for i, row := range table.Rows {
		if row[table.Header[keyIdx]] == key {
			rowNum = i + 2 // 1-based, plus header row
			break
		}
	}
	if rowNum < 0 {
		return fmt.Errorf("%w: %s=%q in %s", ErrRowNotFound, keyCol, key, name)
	}
	for col, value := range updates {
		colIdx, err := columnIndex(table.Header, col)
		if err != nil {
			return err
		}
		cellRange := fmt.Sprintf("%s!%s%d", name, columnLetter(colIdx), rowNum)
		vr := &sheetsapi.ValueRange{Values: [][]any{{value}}}
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, cellRange, vr).
			ValueInputOption("RAW").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("sheets: update %s: %w", cellRange, err)
		}
	}
	return nil
}

// columnLetter converts a zero-based column index to A1 notation.
func columnLetter(idx int) string {
	letters := ""
	for idx >= 0 {
		letters = string(rune('A'+idx%26)) + letters
		idx = idx/26 - 1
	}
	return letters
}
