// Package common reads the tabular sources (CSV or XLSX) shared by the
// account type and account parsers.
package common

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"fjacquet/coa-xml/internal/fileutils"
	"fjacquet/coa-xml/internal/logging"
	"fjacquet/coa-xml/internal/parsererror"

	"github.com/gocarina/gocsv"
)

const utf8BOM = "\ufeff"

// SourceOptions controls how a source file is read.
type SourceOptions struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
}

// Table is a fully read source: a header and its data records. Lines holds
// the 1-based source line (or sheet row) of each record, the header being
// line 1 in the usual layout.
type Table struct {
	Source  string
	Header  []string
	Records [][]string
	Lines   []int
}

// LoadTable reads a whole source file. Files ending in .xlsx or .xlsm are
// read as spreadsheets, anything else as CSV.
func LoadTable(path string, opts SourceOptions, logger logging.Logger) (*Table, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	source := filepath.Base(path)
	logger = logger.WithFields(logging.F(logging.FieldFile, path))

	file, err := fileutils.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close source file")
		}
	}()

	var table *Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		logger.Debug("Reading spreadsheet source", logging.F(logging.FieldSheet, opts.Sheet))
		table, err = ReadXLSX(file, source, opts.Sheet)
	default:
		logger.Debug("Reading CSV source", logging.F(logging.FieldDelimiter, string(delimiterOrDefault(opts.Delimiter))))
		table, err = ReadCSV(file, source, opts.Delimiter)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Read source", logging.F(logging.FieldCount, len(table.Records)))
	return table, nil
}

// Require checks that every column is present in the header. Column names
// are case-sensitive.
func (t *Table) Require(columns ...string) error {
	present := make(map[string]bool, len(t.Header))
	for _, h := range t.Header {
		present[h] = true
	}
	for _, c := range columns {
		if !present[c] {
			return &parsererror.MalformedRowError{
				Location: parsererror.Location{Source: t.Source, Line: 1},
				Column:   c,
				Reason:   "required column is missing from the header",
			}
		}
	}
	return nil
}

// Location returns the source position of record i.
func (t *Table) Location(i int) parsererror.Location {
	line := 0
	if i >= 0 && i < len(t.Lines) {
		line = t.Lines[i]
	}
	return parsererror.Location{Source: t.Source, Line: line}
}

// Decode maps the records onto T using its `csv` struct tags. The result
// has one element per record, in order, so index i matches t.Lines[i].
func Decode[T any](t *Table) ([]T, error) {
	if len(t.Records) == 0 {
		return nil, nil
	}
	var rows []T
	if err := gocsv.UnmarshalCSV(&tableReader{table: t}, &rows); err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", t.Source, err)
	}
	if len(rows) != len(t.Records) {
		return nil, fmt.Errorf("error decoding %s: got %d rows for %d records", t.Source, len(rows), len(t.Records))
	}
	return rows, nil
}

// tableReader replays a Table through gocsv's CSVReader interface.
type tableReader struct {
	table *Table
	pos   int
}

func (r *tableReader) row(i int) []string {
	if i == 0 {
		return r.table.Header
	}
	return r.table.Records[i-1]
}

func (r *tableReader) Read() ([]string, error) {
	if r.pos > len(r.table.Records) {
		return nil, io.EOF
	}
	rec := r.row(r.pos)
	r.pos++
	return rec, nil
}

func (r *tableReader) ReadAll() ([][]string, error) {
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

func delimiterOrDefault(d rune) rune {
	if d == 0 {
		return ','
	}
	return d
}

// cleanHeader trims the header cells and drops a leading byte order mark,
// which spreadsheet exports often prepend.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func isBlank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
