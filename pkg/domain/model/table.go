package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Column is a named, typed sequence of cell values. A nil cell is a null.
type Column struct {
	Name   string
	Type   types.ColumnType
	Values []any
}

// NewColumn creates a column whose type is inferred from its values.
func NewColumn(name string, values ...any) *Column {
	return &Column{
		Name:   name,
		Type:   InferColumnType(values),
		Values: values,
	}
}

// NullCount returns the number of null cells in the column.
func (c *Column) NullCount() int {
	n := 0
	for _, v := range c.Values {
		if v == nil {
			n++
		}
	}
	return n
}

// Table is an ordered set of equally long columns.
type Table struct {
	columns []*Column
	index   map[string]int
}

// NewTable creates a table. Column names must be unique and all columns must
// have the same length.
func NewTable(columns ...*Column) (*Table, error) {
	t := &Table{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, goerr.Wrap(ErrDuplicateColumn, "column name is used twice",
				goerr.V(ColumnKey, col.Name))
		}
		if i > 0 && len(col.Values) != len(columns[0].Values) {
			return nil, goerr.Wrap(ErrColumnLength, "all columns must have the same length",
				goerr.V(ColumnKey, col.Name),
				goerr.V("expected", len(columns[0].Values)),
				goerr.V("actual", len(col.Values)))
		}
		if !col.Type.IsValid() {
			col.Type = InferColumnType(col.Values)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}

	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil || len(t.columns) == 0 {
		return 0
	}
	return len(t.columns[0].Values)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return len(t.columns)
}

// IsEmpty reports whether the table has no rows.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column {
	if t == nil {
		return nil
	}
	return t.columns
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Row returns the cells of row i keyed by column name.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.columns))
	for _, c := range t.columns {
		row[c.Name] = c.Values[i]
	}
	return row
}

// Head returns a new table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.Len() {
		n = t.Len()
	}
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		values := make([]any, n)
		copy(values, c.Values[:n])
		cols[i] = &Column{Name: c.Name, Type: c.Type, Values: values}
	}
	head, _ := NewTable(cols...)
	return head
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row map[string]any) bool) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = &Column{Name: c.Name, Type: c.Type}
	}
	for r := 0; r < t.Len(); r++ {
		if !keep(t.Row(r)) {
			continue
		}
		for i, c := range t.columns {
			cols[i].Values = append(cols[i].Values, c.Values[r])
		}
	}
	for _, c := range cols {
		if c.Values == nil {
			c.Values = []any{}
		}
	}
	filtered, _ := NewTable(cols...)
	return filtered
}

// InferColumnType derives a column type from its non-null values. Integers and
// floats mixed together become float64; anything heterogeneous, and a column
// with no non-null values, is object.
func InferColumnType(values []any) types.ColumnType {
	var seen types.ColumnType
	for _, v := range values {
		if v == nil {
			continue
		}
		ct := valueType(v)
		switch {
		case seen == "":
			seen = ct
		case seen == ct:
		case seen.IsNumeric() && ct.IsNumeric():
			seen = types.ColumnTypeFloat
		default:
			return types.ColumnTypeObject
		}
	}
	if seen == "" {
		return types.ColumnTypeObject
	}
	return seen
}

func valueType(v any) types.ColumnType {
	switch v.(type) {
	case time.Time:
		return types.ColumnTypeDatetime
	case string:
		return types.ColumnTypeString
	case float64, float32:
		return types.ColumnTypeFloat
	case int, int64, int32:
		return types.ColumnTypeInt
	case bool:
		return types.ColumnTypeBool
	default:
		return types.ColumnTypeObject
	}
}

// ToFloat converts a numeric cell to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}
