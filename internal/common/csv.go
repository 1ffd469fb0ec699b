package common

import (
	"encoding/csv"
	"errors"
	"io"

	"fjacquet/coa-xml/internal/parsererror"
)

// ReadCSV reads a whole CSV source. Every record must have as many fields
// as the header. Records whose cells are all empty are skipped.
func ReadCSV(r io.Reader, source string, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiterOrDefault(delimiter)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &parsererror.MalformedRowError{
			Location: parsererror.Location{Source: source, Line: 1},
			Reason:   "source is empty, a header row is required",
		}
	}
	if err != nil {
		return nil, csvError(source, err)
	}

	table := &Table{Source: source, Header: cleanHeader(header)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)
		table.Records = append(table.Records, rec)
		table.Lines = append(table.Lines, line)
	}
	return table, nil
}

func csvError(source string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &parsererror.MalformedRowError{
			Location: parsererror.Location{Source: source, Line: pe.Line},
			Reason:   "record cannot be read",
			Err:      pe.Err,
		}
	}
	return &parsererror.MalformedRowError{
		Location: parsererror.Location{Source: source},
		Reason:   "source cannot be read",
		Err:      err,
	}
}
