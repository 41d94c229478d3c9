package mapper

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func asMaps(records []Record) []map[string]string {
	out := make([]map[string]string, len(records))
	for i, r := range records {
		out[i] = r.Map()
	}
	return out
}

const abc = "A;B;C\n1;2;3\n"

func TestByColumns_keepFirstRow(t *testing.T) {
	path := writeFile(t, abc)

	got, err := New().ByColumns(path, true, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{
		{"x": "A", "y": "B", "z": "C"},
		{"x": "1", "y": "2", "z": "3"},
	}, asMaps(got))
	assert.Equal(t, []string{"x", "y", "z"}, got[0].Fields())
}

func TestByHeader_stripsHeader(t *testing.T) {
	path := writeFile(t, abc)

	got, err := New().ByHeader(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{"A": "1", "B": "2", "C": "3"}, got[0].Map())
}

func TestByColumns_skipFirstRow(t *testing.T) {
	path := writeFile(t, abc)

	got, err := New().ByColumns(path, false, []string{"x", "y", "z"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{"x": "1", "y": "2", "z": "3"}, got[0].Map())
}

func TestByColumns_emptyColumns(t *testing.T) {
	for _, content := range []string{abc, "", "x\n"} {
		path := writeFile(t, content)
		got, err := New().ByColumns(path, true, nil)
		assert.ErrorIs(t, err, ErrEmptyColumnSpec)
		assert.Nil(t, got)
	}
}

func TestByColumns_emptyColumnsCheckedBeforeFile(t *testing.T) {
	_, err := New().ByColumns("/nonexistent/path.csv", true, []string{})
	assert.ErrorIs(t, err, ErrEmptyColumnSpec)
}

func TestByHeader_mismatch(t *testing.T) {
	path := writeFile(t, "A;B\n1;2;3\n")

	got, err := New().ByHeader(path)
	require.ErrorIs(t, err, ErrColumnCountMismatch)
	assert.Nil(t, got)

	var cce *ColumnCountError
	require.ErrorAs(t, err, &cce)
	assert.Equal(t, ColumnCountError{Row: 1, Want: 2, Got: 3}, *cce)
}

// A validator that only ever checks the first row would accept this file.
func TestByHeader_mismatchAfterValidRow(t *testing.T) {
	path := writeFile(t, "A;B\n1;2\n3;4;5\n6;7\n")

	got, err := New().ByHeader(path)
	require.ErrorIs(t, err, ErrColumnCountMismatch)
	assert.Nil(t, got)

	var cce *ColumnCountError
	require.ErrorAs(t, err, &cce)
	assert.Equal(t, 2, cce.Row)
}

func TestByHeader_validationNotLatchedAcrossCalls(t *testing.T) {
	good := writeFile(t, "A;B\n1;2\n")
	bad := writeFile(t, "A;B\n1\n")

	m := New()
	_, err := m.ByHeader(good)
	require.NoError(t, err)
	_, err = m.ByHeader(bad)
	assert.ErrorIs(t, err, ErrColumnCountMismatch)
	_, err = m.ByColumns(bad, true, []string{"a", "b"})
	assert.ErrorIs(t, err, ErrColumnCountMismatch)
}

func TestByHeader_missingFile(t *testing.T) {
	_, err := New().ByHeader("/nonexistent/path.csv")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestByColumns_missingFile(t *testing.T) {
	_, err := New().ByColumns("/nonexistent/path.csv", true, []string{"x"})
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestByHeader_emptyFile(t *testing.T) {
	path := writeFile(t, "")

	got, err := New().ByHeader(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestByHeader_headerOnly(t *testing.T) {
	path := writeFile(t, "A;B;C\n")

	got, err := New().ByHeader(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelimiterOverride(t *testing.T) {
	path := writeFile(t, "a,b,c\n1,2,3\n")

	m := &Mapper{Delimiter: ','}
	got, err := m.ByHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"a": "1", "b": "2", "c": "3"}}, asMaps(got))
}

// With the default ';' a comma separated file tokenizes to one field per row.
// by-header accepts that and keys every record by the whole header line;
// by-columns with more than one name rejects it.
func TestDelimiterMismatch(t *testing.T) {
	path := writeFile(t, "a,b,c\n1,2,3\n")

	got, err := New().ByHeader(path)
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"a,b,c": "1,2,3"}}, asMaps(got))

	_, err = New().ByColumns(path, true, []string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrColumnCountMismatch)
}

func TestByHeader_quotedFields(t *testing.T) {
	path := writeFile(t, "\"ObjectId\";\"StartDate\";\"EndDate\";\"EndTime\"\n19123;\"26.04.2011\";\"19.06.2011\";\"21:00\"\n")

	got, err := New().ByHeader(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, map[string]string{
		"ObjectId":  "19123",
		"StartDate": "26.04.2011",
		"EndDate":   "19.06.2011",
		"EndTime":   "21:00",
	}, got[0].Map())
}

func TestMapColumns_contiguous(t *testing.T) {
	rows := [][]string{{"h1", "h2"}, {"a", "b"}, {"c", "d"}, {"e", "f"}}

	got, err := MapColumns(rows, false, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, want := range []string{"a", "c", "e"} {
		v, ok := got[i].Get("x")
		assert.True(t, ok)
		assert.Equal(t, want, v, "record %d", i)
	}
}

func TestMapColumns_skippedFirstRowIsNotValidated(t *testing.T) {
	rows := [][]string{{"only one header"}, {"a", "b"}}

	got, err := MapColumns(rows, false, []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]string{{"x": "a", "y": "b"}}, asMaps(got))

	_, err = MapColumns(rows, true, []string{"x", "y"})
	var cce *ColumnCountError
	require.ErrorAs(t, err, &cce)
	assert.Equal(t, 0, cce.Row)
}

func TestMapColumns_doesNotAliasInput(t *testing.T) {
	columns := []string{"x"}
	rows := [][]string{{"1"}}

	got, err := MapColumns(rows, true, columns)
	require.NoError(t, err)
	columns[0] = "changed"
	rows[0][0] = "changed"
	v, _ := got[0].Get("x")
	assert.Equal(t, "1", v)
}

func TestMapHeader_noRows(t *testing.T) {
	got, err := MapHeader(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecord_duplicateFieldsLastWins(t *testing.T) {
	got, err := MapHeader([][]string{{"id", "name", "id"}, {"1", "gopher", "2"}})
	require.NoError(t, err)
	require.Len(t, got, 1)

	v, ok := got[0].Get("id")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, map[string]string{"id": "2", "name": "gopher"}, got[0].Map())
	assert.Equal(t, 3, got[0].Len())

	b, err := json.Marshal(got[0])
	require.NoError(t, err)
	assert.Equal(t, `{"id":"2","name":"gopher"}`, string(b))
}

func TestRecord_MarshalJSONKeepsOrder(t *testing.T) {
	got, err := MapColumns([][]string{{"3", "1", `q"uote`}}, true, []string{"z", "a", "m"})
	require.NoError(t, err)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, `[{"z":"3","a":"1","m":"q\"uote"}]`, string(b))
}

func TestValidateRow(t *testing.T) {
	assert.NoError(t, ValidateRow(4, []string{"a", "b"}, []string{"1", "2"}))

	err := ValidateRow(4, []string{"a", "b"}, []string{"1"})
	assert.ErrorIs(t, err, ErrColumnCountMismatch)
	assert.EqualError(t, err, "record 4: number of columns does not match number of values in row (expected 2, got 1)")

	// no memory of earlier successes
	assert.NoError(t, ValidateRow(0, []string{"a"}, []string{"1"}))
	assert.Error(t, ValidateRow(1, []string{"a"}, []string{"1", "2"}))
}

func TestByHeader_mismatchCountsRecordsNotLines(t *testing.T) {
	path := writeFile(t, "A;B\n\n1;\"two\nlines\"\n\n3;4;5\n")

	_, err := New().ByHeader(path)
	var cce *ColumnCountError
	require.ErrorAs(t, err, &cce)
	assert.Equal(t, 2, cce.Row)
	assert.Contains(t, err.Error(), "record 2")
}
