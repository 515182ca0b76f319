package model

import (
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Schema describes the expected shape of a table.
type Schema struct {
	// ExpectedColumns must all be present.
	ExpectedColumns []string
	// ExpectedTypes maps a column name to its required type. Columns not listed
	// may have any type.
	ExpectedTypes map[string]types.ColumnType
	// CriticalColumns must not contain nulls.
	CriticalColumns []string
	// AllowExtraColumns accepts columns that are not in ExpectedColumns.
	AllowExtraColumns bool
}

// Issue kinds reported by CheckTable
const (
	IssueMissingColumn    = "missing_column"
	IssueUnexpectedColumn = "unexpected_column"
	IssueColumnType       = "column_type"
	IssueNullValue        = "null_value"
)

// Issue is a single finding of a table check.
type Issue struct {
	Kind    string `json:"kind" yaml:"kind"`
	Column  string `json:"column" yaml:"column"`
	Message string `json:"message" yaml:"message"`
}

// Report is the result of a non-failing table check.
type Report struct {
	Valid  bool    `json:"valid" yaml:"valid"`
	Issues []Issue `json:"issues" yaml:"issues"`
}

func (r *Report) add(kind, column, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Kind:    kind,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	})
}

// CheckTable checks a table against a schema and reports every finding.
// A table without columns is valid only when no columns are expected. A table
// with columns but no rows is checked against its declared column types.
func CheckTable(t *Table, schema Schema) *Report {
	report := &Report{Issues: []Issue{}}

	if t.Width() == 0 {
		for _, name := range schema.ExpectedColumns {
			report.add(IssueMissingColumn, name, "column %q is missing", name)
		}
		report.Valid = len(report.Issues) == 0
		return report
	}

	expected := make(map[string]struct{}, len(schema.ExpectedColumns))
	for _, name := range schema.ExpectedColumns {
		expected[name] = struct{}{}
		if _, ok := t.Column(name); !ok {
			report.add(IssueMissingColumn, name, "column %q is missing", name)
		}
	}

	if !schema.AllowExtraColumns {
		for _, name := range t.ColumnNames() {
			if _, ok := expected[name]; !ok {
				report.add(IssueUnexpectedColumn, name, "column %q is not expected", name)
			}
		}
	}

	for _, name := range t.ColumnNames() {
		want, ok := schema.ExpectedTypes[name]
		if !ok {
			continue
		}
		col, _ := t.Column(name)
		if !typeMatches(want, col.Type) {
			report.add(IssueColumnType, name, "column %q has type %s, expected %s", name, col.Type, want)
		}
	}

	for _, name := range schema.CriticalColumns {
		col, ok := t.Column(name)
		if !ok {
			continue
		}
		if n := col.NullCount(); n > 0 {
			report.add(IssueNullValue, name, "column %q has %d null values", name, n)
		}
	}

	report.Valid = len(report.Issues) == 0
	return report
}

// ValidateTable reports whether the table conforms to the schema.
func ValidateTable(t *Table, schema Schema) bool {
	return CheckTable(t, schema).Valid
}

// ValidateTableStrict returns the first violation as an error. Unlike
// CheckTable, a null anywhere in the table is a failure.
func ValidateTableStrict(t *Table, schema Schema) error {
	for _, name := range schema.ExpectedColumns {
		if _, ok := t.Column(name); !ok {
			return goerr.Wrap(ErrMissingColumn, "required column is missing",
				goerr.V(ColumnKey, name))
		}
	}

	if !schema.AllowExtraColumns && len(schema.ExpectedColumns) > 0 {
		expected := make(map[string]struct{}, len(schema.ExpectedColumns))
		for _, name := range schema.ExpectedColumns {
			expected[name] = struct{}{}
		}
		for _, name := range t.ColumnNames() {
			if _, ok := expected[name]; !ok {
				return goerr.Wrap(ErrUnexpectedColumn, "column is not expected",
					goerr.V(ColumnKey, name))
			}
		}
	}

	for _, col := range t.Columns() {
		want, ok := schema.ExpectedTypes[col.Name]
		if ok && !typeMatches(want, col.Type) {
			return goerr.Wrap(ErrColumnType, "column has unexpected type",
				goerr.V(ColumnKey, col.Name),
				goerr.V(ExpectedTypeKey, want),
				goerr.V(ActualTypeKey, col.Type))
		}
	}

	for _, col := range t.Columns() {
		for i, v := range col.Values {
			if v == nil {
				return goerr.Wrap(ErrNullValue, "table contains a null value",
					goerr.V(ColumnKey, col.Name),
					goerr.V(RowKey, i))
			}
		}
	}

	return nil
}

// An int column satisfies a float expectation; everything else must match exactly.
func typeMatches(want, got types.ColumnType) bool {
	if want == got {
		return true
	}
	return want == types.ColumnTypeFloat && got == types.ColumnTypeInt
}
