package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/dev-shimada/csv-record-mapper/internal/mapper"
)

const (
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
	FormatTable  = "table"
)

// ErrUnknownFormat is returned for a format other than json, ndjson or table.
var ErrUnknownFormat = errors.New("unknown output format")

// ValidFormat reports whether format can be passed to Write.
func ValidFormat(format string) error {
	switch format {
	case FormatJSON, FormatNDJSON, FormatTable:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Write renders records to w in the given format.
func Write(w io.Writer, format string, records []mapper.Record) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatNDJSON:
		return writeNDJSON(w, records)
	case FormatTable:
		return writeTable(w, records)
	}
	return ValidFormat(format)
}

func writeJSON(w io.Writer, records []mapper.Record) error {
	if records == nil {
		records = []mapper.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(records)
}

func writeNDJSON(w io.Writer, records []mapper.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeTable uses the first record's fields as the table header; all records
// of one result share the same field list.
func writeTable(w io.Writer, records []mapper.Record) error {
	table := tablewriter.NewWriter(w)
	if len(records) > 0 {
		table.Header(records[0].Fields())
	}
	for _, rec := range records {
		if err := table.Append(rec.Values()); err != nil {
			return err
		}
	}
	return table.Render()
}
