// Package sensor merges sensor_data records into one numeric table.
package sensor

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
)

// Value is one table cell: a number, or missing when the source value was
// absent or not numeric.
type Value struct {
	Number float64
	Valid  bool
}

// Missing is the empty cell.
var Missing = Value{}

// MarshalJSON encodes a missing cell as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.Number, 'g', -1, 64), nil
}

// UnmarshalJSON reads a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Missing
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return err
	}
	*v = Value{Number: f, Valid: true}
	return nil
}

// Row is one sensor object. Err is set when the object could not be read, in
// which case every cell is missing.
type Row struct {
	Name       string  `json:"name"`
	CapturedAt string  `json:"capturedAt,omitempty"`
	Cells      []Value `json:"cells"`
	Err        string  `json:"error,omitempty"`
}

// Table holds one row per sensor object, newest first, and the union of all
// record keys as columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Column returns the numeric series of one column, or nil for an unknown column.
func (t *Table) Column(name string) []Value {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	series := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		series[i] = row.Cells[idx]
	}
	return series
}

// RowInput is one materialized sensor object, or the error that prevented it.
type RowInput struct {
	Name   string
	Record *model.Record
	Err    error
}

// BuildTable merges records in the given order. Columns appear in the order
// their key is first seen; every cell is coerced to a number or Missing.
func BuildTable(inputs []RowInput) *Table {
	table := &Table{Columns: []string{}, Rows: make([]Row, 0, len(inputs))}
	index := map[string]int{}

	for _, in := range inputs {
		if in.Err != nil || in.Record == nil {
			continue
		}
		for _, key := range in.Record.Keys() {
			if _, ok := index[key]; !ok {
				index[key] = len(table.Columns)
				table.Columns = append(table.Columns, key)
			}
		}
	}

	for _, in := range inputs {
		row := Row{Name: in.Name, Cells: make([]Value, len(table.Columns))}
		if captured, err := blob.DecodeCaptureTime(in.Name); err == nil {
			row.CapturedAt = captured
		}

		switch {
		case in.Err != nil:
			row.Err = in.Err.Error()
		case in.Record != nil:
			for _, key := range in.Record.Keys() {
				v, _ := in.Record.Get(key)
				row.Cells[index[key]] = Coerce(v)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// Coerce converts a decoded JSON value to a number. Strings are parsed,
// booleans count as 1 and 0; anything else, and non-finite results, is Missing.
func Coerce(v any) Value {
	switch t := v.(type) {
	case nil:
		return Missing
	case string:
		v = strings.TrimSpace(t)
		if v == "" {
			return Missing
		}
	case map[string]any, []any:
		return Missing
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Missing
	}
	return Value{Number: f, Valid: true}
}
