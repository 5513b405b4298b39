package internal

import (
	"encoding/csv"
	"io"
	"iter"

	"github.com/cockroachdb/errors"
)

type Result[T any] struct {
	Value  T
	Error  error
	LineNo int
}

// ParseCSV yields one Result per data row. When hasHeader is set the first row
// is consumed and handed to fromCSV alongside every subsequent record. Iteration
// stops after the first error.
func ParseCSV[T any](r io.Reader, hasHeader bool, fromCSV func(record, headers []string) (T, error)) iter.Seq[Result[T]] {
	return func(yield func(Result[T]) bool) {
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		reader.TrimLeadingSpace = true
		reader.Comment = '#'

		var headers []string
		lineNo := 0

		if hasHeader {
			h, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Result[T]{Error: errors.Wrap(err, "failed to read header")})
				return
			}
			headers = h
			lineNo++
		}

		for {
			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			lineNo++
			if err != nil {
				yield(Result[T]{Error: errors.Wrapf(err, "failed to read line %d", lineNo), LineNo: lineNo})
				return
			}

			value, err := fromCSV(record, headers)
			if err != nil {
				yield(Result[T]{Error: errors.Wrapf(err, "line %d", lineNo), LineNo: lineNo})
				return
			}
			if !yield(Result[T]{Value: value, LineNo: lineNo}) {
				return
			}
		}
	}
}
