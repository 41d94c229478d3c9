package mapper

import (
	"bytes"
	"encoding/json"
)

// Record maps field names to the values of one data row. Field order follows
// the field name list it was built from.
type Record struct {
	fields []string
	values []string
}

func newRecord(fields, row []string) Record {
	values := make([]string, len(fields))
	copy(values, row)
	return Record{fields: fields, values: values}
}

// Fields returns the field names in column order.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Values returns the values in column order.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Len returns the number of columns, counting repeated names.
func (r Record) Len() int { return len(r.fields) }

// Get returns the value stored under name. When a name occurs more than once
// the right-most column wins.
func (r Record) Get(name string) (string, bool) {
	for i := len(r.fields) - 1; i >= 0; i-- {
		if r.fields[i] == name {
			return r.values[i], true
		}
	}
	return "", false
}

// Map returns the record as a plain map.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.fields))
	for i, f := range r.fields {
		m[f] = r.values[i]
	}
	return m
}

// MarshalJSON encodes the record as an object whose keys keep column order.
// A repeated name is written where it first appears, carrying the value of
// its right-most column.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for i, f := range r.fields {
		if r.repeated(i) {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeString(&buf, f); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		v, _ := r.Get(f)
		if err := writeString(&buf, v); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString leaves HTML escaping to the outer encoder.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// repeated reports whether the field at i already occurred further left.
func (r Record) repeated(i int) bool {
	for j := 0; j < i; j++ {
		if r.fields[j] == r.fields[i] {
			return true
		}
	}
	return false
}
