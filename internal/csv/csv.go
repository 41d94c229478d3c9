package csv

// CSV splits a file into its first row and the rows that follow it.
type CSV struct {
	Header []string
	Body   [][]string
}

// NewCSV never fails: an empty input yields an empty header and body.
func NewCSV(records [][]string) *CSV {
	if len(records) == 0 {
		return &CSV{}
	}
	return &CSV{
		Header: records[0],
		Body:   records[1:],
	}
}
