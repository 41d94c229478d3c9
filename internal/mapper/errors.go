package mapper

import (
	"errors"
	"fmt"

	"github.com/dev-shimada/csv-record-mapper/internal/csv"
)

var (
	// ErrFileNotFound is returned when the input path does not name a readable file.
	ErrFileNotFound = csv.ErrFileNotFound
	// ErrEmptyColumnSpec is returned by ByColumns and MapColumns when no field names are given.
	ErrEmptyColumnSpec = errors.New("columns needed")
	// ErrColumnCountMismatch is wrapped by every ColumnCountError.
	ErrColumnCountMismatch = errors.New("number of columns does not match number of values in row")
)

// ColumnCountError reports the first row whose width differs from the field name list.
type ColumnCountError struct {
	// Row is the 0-based index of the record in the file, header included.
	// It counts records, not physical lines: blank lines are skipped and a
	// quoted field spanning several lines still belongs to one record.
	Row  int
	Want int
	Got  int
}

func (e *ColumnCountError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("record %d: %v (expected %d, got %d)", e.Row, ErrColumnCountMismatch, e.Want, e.Got)
}

func (e *ColumnCountError) Unwrap() error {
	if e == nil {
		return nil
	}
	return ErrColumnCountMismatch
}
