package mapper

// ValidateRow checks that values holds exactly one entry per column. row is
// the 0-based position of values in the file and is only used for reporting.
// It keeps no state between calls, so every row is checked on its own.
func ValidateRow(row int, columns, values []string) error {
	if len(values) != len(columns) {
		return &ColumnCountError{Row: row, Want: len(columns), Got: len(values)}
	}
	return nil
}
