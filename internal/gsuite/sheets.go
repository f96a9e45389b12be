package gsuite

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads attendee rows from a Google Sheet. It implements
// cert.RowSource.
type SheetsSource struct {
	svc *sheets.Service
}

func NewSheetsSource(ctx context.Context, httpClient *http.Client) (*SheetsSource, error) {
	svc, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsSource{svc: svc}, nil
}

// FetchRows returns the cell values of the given range, row-major, with
// every cell coerced to a string.
func (s *SheetsSource) FetchRows(ctx context.Context, sheetID, rangeName string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(sheetID, rangeName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %q: %w", rangeName, err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = coerceCell(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// coerceCell renders a sheet cell as a string. Empty cells arrive as nil.
func coerceCell(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", cell)
}
