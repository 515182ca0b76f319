package model_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   types.ColumnType
	}{
		{"strings", []any{"a", "b"}, types.ColumnTypeString},
		{"ints", []any{int64(1), int64(2)}, types.ColumnTypeInt},
		{"floats", []any{1.5, 2.0}, types.ColumnTypeFloat},
		{"ints and floats", []any{int64(1), 2.5}, types.ColumnTypeFloat},
		{"bools", []any{true, false}, types.ColumnTypeBool},
		{"times", []any{time.Now()}, types.ColumnTypeDatetime},
		{"nulls are ignored", []any{nil, "a", nil}, types.ColumnTypeString},
		{"all null", []any{nil, nil}, types.ColumnTypeObject},
		{"empty", []any{}, types.ColumnTypeObject},
		{"mixed", []any{"a", int64(1)}, types.ColumnTypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, model.InferColumnType(tt.values)).Equal(tt.want)
		})
	}
}

func TestNewTable(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		tbl, err := model.NewTable(
			model.NewColumn("a", int64(1), int64(2)),
			model.NewColumn("b", "x", nil),
		)
		gt.NoError(t, err).Required()
		gt.Number(t, tbl.Len()).Equal(2)
		gt.Number(t, tbl.Width()).Equal(2)
		gt.Value(t, tbl.ColumnNames()).Equal([]string{"a", "b"})

		col, ok := tbl.Column("b")
		gt.Bool(t, ok).True()
		gt.Number(t, col.NullCount()).Equal(1)

		row := tbl.Row(0)
		gt.Value(t, row["a"]).Equal(any(int64(1)))
		gt.Value(t, row["b"]).Equal(any("x"))
	})

	t.Run("duplicate column", func(t *testing.T) {
		_, err := model.NewTable(model.NewColumn("a", 1.0), model.NewColumn("a", 2.0))
		gt.Error(t, err).Is(model.ErrDuplicateColumn)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := model.NewTable(model.NewColumn("a", 1.0), model.NewColumn("b", 1.0, 2.0))
		gt.Error(t, err).Is(model.ErrColumnLength)
		gt.Error(t, err).Is(model.ErrSchema)
	})

	t.Run("declared type is kept", func(t *testing.T) {
		tbl, err := model.NewTable(&model.Column{Name: "a", Type: types.ColumnTypeFloat, Values: []any{}})
		gt.NoError(t, err).Required()
		col, _ := tbl.Column("a")
		gt.Value(t, col.Type).Equal(types.ColumnTypeFloat)
		gt.Bool(t, tbl.IsEmpty()).True()
	})
}

func TestTable_HeadAndFilter(t *testing.T) {
	tbl, err := model.NewTable(
		model.NewColumn("n", int64(1), int64(2), int64(3)),
		model.NewColumn("s", "a", "b", "a"),
	)
	gt.NoError(t, err).Required()

	head := tbl.Head(2)
	gt.Number(t, head.Len()).Equal(2)
	gt.Number(t, tbl.Head(10).Len()).Equal(3)

	filtered := tbl.Filter(func(row map[string]any) bool {
		return row["s"] == "a"
	})
	gt.Number(t, filtered.Len()).Equal(2)
	col, _ := filtered.Column("n")
	gt.Value(t, col.Values[1]).Equal(any(int64(3)))

	none := tbl.Filter(func(map[string]any) bool { return false })
	gt.Number(t, none.Len()).Equal(0)
	gt.Number(t, none.Width()).Equal(2)
}

func TestNewLossEventTable(t *testing.T) {
	t.Run("empty keeps columns", func(t *testing.T) {
		tbl := model.NewLossEventTable(nil)
		gt.Number(t, tbl.Len()).Equal(0)
		gt.Value(t, tbl.ColumnNames()).Equal(model.LossEventColumns())
		col, ok := tbl.Column(model.ColumnLossAmount)
		gt.Bool(t, ok).True()
		gt.Value(t, col.Type).Equal(types.ColumnTypeFloat)
	})

	t.Run("rows", func(t *testing.T) {
		ts := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		tbl := model.NewLossEventTable([]model.LossEvent{
			{Timestamp: ts, BusinessUnit: "BU1", RiskCategory: "RC1", LossAmount: 10, RecoveryTimeDays: 3, ControlBreachType: "Type1"},
			{Timestamp: ts, BusinessUnit: "BU2", RiskCategory: "RC2", LossAmount: 20, NearMissFlag: true, RecoveryTimeDays: 5, ControlBreachType: "Type2"},
		})
		gt.Number(t, tbl.Len()).Equal(2)
		row := tbl.Row(1)
		gt.Value(t, row[model.ColumnBusinessUnit]).Equal(any("BU2"))
		gt.Value(t, row[model.ColumnNearMissFlag]).Equal(any(true))
		gt.Value(t, row[model.ColumnRecoveryTimeDays]).Equal(any(int64(5)))
		gt.Bool(t, model.ValidateTable(tbl, model.LossEventSchema())).True()
	})
}
