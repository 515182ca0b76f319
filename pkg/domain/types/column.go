package types

// ColumnType is the value type held by a table column.
type ColumnType string

const (
	ColumnTypeDatetime ColumnType = "datetime"
	ColumnTypeString   ColumnType = "string"
	ColumnTypeFloat    ColumnType = "float64"
	ColumnTypeInt      ColumnType = "int64"
	ColumnTypeBool     ColumnType = "bool"
	ColumnTypeObject   ColumnType = "object"
)

// IsValid checks if the column type is known.
func (c ColumnType) IsValid() bool {
	switch c {
	case ColumnTypeDatetime,
		ColumnTypeString,
		ColumnTypeFloat,
		ColumnTypeInt,
		ColumnTypeBool,
		ColumnTypeObject:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether values of the type can be aggregated as numbers.
func (c ColumnType) IsNumeric() bool {
	return c == ColumnTypeFloat || c == ColumnTypeInt
}

// String returns the string representation of the column type.
func (c ColumnType) String() string {
	return string(c)
}
