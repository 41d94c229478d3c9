// Package mapper turns delimited rows into named records, either from a
// caller supplied column list or from the file's own header row.
package mapper

import (
	"github.com/dev-shimada/csv-record-mapper/internal/csv"
)

// Mapper reads files with a fixed delimiter and encoding.
type Mapper struct {
	Delimiter rune
	Encoding  string
}

// New returns a Mapper using ';' and UTF-8 input.
func New() *Mapper {
	return &Mapper{Delimiter: csv.DefaultDelimiter}
}

// ByColumns maps every column of the file at path to the name at the same
// position in columns. With keepFirstRow false the first row is dropped.
func (m *Mapper) ByColumns(path string, keepFirstRow bool, columns []string) ([]Record, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyColumnSpec
	}
	rows, err := m.read(path)
	if err != nil {
		return nil, err
	}
	return MapColumns(rows, keepFirstRow, columns)
}

// ByHeader uses the first row of the file at path as field names. That row
// is never part of the result.
func (m *Mapper) ByHeader(path string) ([]Record, error) {
	rows, err := m.read(path)
	if err != nil {
		return nil, err
	}
	return MapHeader(rows)
}

func (m *Mapper) read(path string) ([][]string, error) {
	return csv.ReadFile(path, csv.ReadOptions{
		Comma:    m.Delimiter,
		Encoding: m.Encoding,
	})
}

// MapColumns shapes rows using columns as the field name list.
func MapColumns(rows [][]string, keepFirstRow bool, columns []string) ([]Record, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyColumnSpec
	}
	fields := append([]string(nil), columns...)

	results := make([]Record, 0, len(rows))
	for i, row := range rows {
		if i == 0 && !keepFirstRow {
			continue
		}
		if err := ValidateRow(i, fields, row); err != nil {
			return nil, err
		}
		results = append(results, newRecord(fields, row))
	}
	return results, nil
}

// MapHeader shapes rows using the first row as the field name list.
func MapHeader(rows [][]string) ([]Record, error) {
	data := csv.NewCSV(rows)
	fields := append([]string(nil), data.Header...)

	results := make([]Record, 0, len(data.Body))
	for i, row := range data.Body {
		if err := ValidateRow(i+1, fields, row); err != nil {
			return nil, err
		}
		results = append(results, newRecord(fields, row))
	}
	return results, nil
}
