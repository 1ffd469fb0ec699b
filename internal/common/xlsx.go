package common

import (
	"fmt"
	"io"
	"slices"

	"fjacquet/coa-xml/internal/parsererror"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one worksheet of a spreadsheet. The first non-empty row is
// the header; record lines are sheet row numbers. Short rows are padded to
// the header width.
func ReadXLSX(r io.Reader, source, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &parsererror.MalformedRowError{
			Location: parsererror.Location{Source: source},
			Reason:   "spreadsheet cannot be opened",
			Err:      err,
		}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: spreadsheet has no worksheets", source)
	}
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("%s: worksheet %q not found (have %v)", source, sheet, sheets)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: error reading worksheet %q: %w", source, sheet, err)
	}

	table := &Table{Source: source}
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Header == nil {
			table.Header = cleanHeader(row)
			continue
		}
		table.Records = append(table.Records, pad(row, len(table.Header)))
		table.Lines = append(table.Lines, i+1)
	}
	if table.Header == nil {
		return nil, &parsererror.MalformedRowError{
			Location: parsererror.Location{Source: source, Line: 1},
			Reason:   fmt.Sprintf("worksheet %q is empty, a header row is required", sheet),
		}
	}
	return table, nil
}

func pad(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
