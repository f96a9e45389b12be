// Package xlsxsource reads attendee rows from a local Excel workbook, for
// deployments that export the registration sheet instead of granting
// spreadsheet API access.
package xlsxsource

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Source implements cert.RowSource over a local .xlsx file. The sheet
// identifier is the workbook path and the range name is the sheet name.
type Source struct{}

func New() *Source {
	return &Source{}
}

// FetchRows opens the workbook at path and returns every row of the named
// sheet. excelize trims trailing empty cells, which the normalizer already
// tolerates.
func (s *Source) FetchRows(ctx context.Context, path, sheetName string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	return rows, nil
}
