package models

import (
	"bytes"
	"encoding/json"
)

// ColumnType is the inferred type of a column.
type ColumnType string

const (
	TypeNumeric  ColumnType = "numeric"
	TypeText     ColumnType = "text"
	TypeBoolean  ColumnType = "boolean"
	TypeDateTime ColumnType = "datetime"
	TypeUnknown  ColumnType = "unknown"
)

// Column describes one named field of a sampled table.
type Column struct {
	// Name is the column name as read from the header row.
	Name string `json:"name"`
	// InferredType is the common type of the non-null sampled values.
	InferredType ColumnType `json:"inferred_type"`
	// UniqueRatio is distinct non-null values divided by sampled rows.
	UniqueRatio float64 `json:"unique_ratio"`
	// UniqueValues is the number of distinct non-null values.
	UniqueValues int `json:"unique_values"`
	// HasData is false when every sampled value is null.
	HasData bool `json:"has_data"`
	// SampleValues holds up to three non-null values in row order.
	SampleValues []Value `json:"sample_values,omitempty"`
}

// Row is one record. Cells are aligned with Table.Columns.
type Row []Value

// Table is an ordered sequence of rows sharing one header.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable returns an empty table with the given header.
func NewTable(columns []string) *Table {
	return &Table{Columns: columns, Rows: []Row{}}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// ColumnIndex returns the position of the first column with the given name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns the cells of column i in row order.
func (t *Table) ColumnValues(i int) []Value {
	out := make([]Value, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append(Row(nil), r...)
	}
	return &Table{Columns: cols, Rows: rows}
}

// Equal reports whether t and o have the same header and element-wise equal rows.
func (t *Table) Equal(o *Table) bool {
	if len(t.Columns) != len(o.Columns) || len(t.Rows) != len(o.Rows) {
		return false
	}
	for i := range t.Columns {
		if t.Columns[i] != o.Columns[i] {
			return false
		}
	}
	for i := range t.Rows {
		if !t.Rows[i].Equal(o.Rows[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two rows are element-wise equal.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Records returns the rows as column-name mappings.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = Record{Columns: t.Columns, Values: r}
	}
	return out
}

// Record maps column names to values and keeps the table's column order
// when encoded.
type Record struct {
	Columns []string
	Values  Row
}

// Get returns the value of the named column.
func (r Record) Get(name string) (Value, bool) {
	for i, c := range r.Columns {
		if c == name {
			return r.Values[i], true
		}
	}
	return Value{}, false
}

// MarshalJSON encodes the record as a JSON object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.Values[i].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
