package analytics_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/analytics"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func exampleTable(t *testing.T) *model.Table {
	t.Helper()
	tbl, err := model.NewTable(
		model.NewColumn(model.ColumnLossAmount, int64(100), int64(200), int64(300), int64(400), int64(500)),
		model.NewColumn(model.ColumnBaselEventType, "Fraud", "Fraud", "System Failure", "Fraud", "System Failure"),
	)
	gt.NoError(t, err).Required()
	return tbl
}

func TestSummarize(t *testing.T) {
	summary, err := analytics.Summarize(exampleTable(t), "")
	gt.NoError(t, err).Required()

	gt.Bool(t, almostEqual(summary.TotalLossAmount, 1500)).True()
	gt.Bool(t, almostEqual(summary.AverageLossAmount, 300)).True()
	gt.Value(t, summary.EventCountPerType["Fraud"]).Equal(3)
	gt.Value(t, summary.EventCountPerType["System Failure"]).Equal(2)
	gt.Bool(t, almostEqual(summary.AverageLossAmountPerType["Fraud"], 233.333)).True()
	gt.Bool(t, almostEqual(summary.AverageLossAmountPerType["System Failure"], 400)).True()

	// Fraud on 100, 200 and 500
	regrouped, err := model.NewTable(
		model.NewColumn(model.ColumnLossAmount, int64(100), int64(200), int64(300), int64(400), int64(500)),
		model.NewColumn(model.ColumnBaselEventType, "Fraud", "Fraud", "System Failure", "System Failure", "Fraud"),
	)
	gt.NoError(t, err).Required()
	summary, err = analytics.Summarize(regrouped, "")
	gt.NoError(t, err).Required()
	gt.Bool(t, almostEqual(summary.TotalLossAmount, 1500)).True()
	gt.Value(t, summary.EventCountPerType["Fraud"]).Equal(3)
	gt.Bool(t, almostEqual(summary.AverageLossAmountPerType["Fraud"], 266.667)).True()
	gt.Bool(t, almostEqual(summary.AverageLossAmountPerType["System Failure"], 350)).True()
}

func TestSummarize_Empty(t *testing.T) {
	empty, err := model.NewTable()
	gt.NoError(t, err).Required()

	for name, tbl := range map[string]*model.Table{
		"no columns": empty,
		"no rows":    model.NewLossEventTable(nil),
		"nil table":  nil,
	} {
		t.Run(name, func(t *testing.T) {
			summary, err := analytics.Summarize(tbl, "")
			gt.NoError(t, err).Required()
			gt.Value(t, summary.TotalLossAmount).Equal(0.0)
			gt.Value(t, summary.AverageLossAmount).Equal(0.0)
			gt.Value(t, len(summary.EventCountPerType)).Equal(0)
			gt.Value(t, len(summary.AverageLossAmountPerType)).Equal(0)
		})
	}
}

func TestSummarize_Errors(t *testing.T) {
	t.Run("null loss", func(t *testing.T) {
		tbl, err := model.NewTable(
			model.NewColumn(model.ColumnLossAmount, 100.0, nil),
			model.NewColumn(model.ColumnBaselEventType, "Fraud", "Fraud"),
		)
		gt.NoError(t, err).Required()
		_, err = analytics.Summarize(tbl, "")
		gt.Error(t, err).Is(model.ErrNullValue)
		gt.Bool(t, errors.Is(err, model.ErrDataQuality)).True()
	})

	t.Run("non numeric loss", func(t *testing.T) {
		tbl, err := model.NewTable(
			model.NewColumn(model.ColumnLossAmount, "100", "50"),
			model.NewColumn(model.ColumnBaselEventType, "Fraud", "System Failure"),
		)
		gt.NoError(t, err).Required()
		_, err = analytics.Summarize(tbl, "")
		gt.Error(t, err).Is(model.ErrNonNumeric)
	})

	t.Run("missing loss column", func(t *testing.T) {
		tbl, err := model.NewTable(model.NewColumn(model.ColumnBaselEventType, "Fraud"))
		gt.NoError(t, err).Required()
		_, err = analytics.Summarize(tbl, "")
		gt.Error(t, err).Is(model.ErrMissingColumn)
	})

	t.Run("missing category column", func(t *testing.T) {
		tbl, err := model.NewTable(model.NewColumn(model.ColumnLossAmount, 1.0))
		gt.NoError(t, err).Required()
		_, err = analytics.Summarize(tbl, "")
		gt.Error(t, err).Is(model.ErrMissingColumn)
	})
}

func TestSummarize_CustomColumn(t *testing.T) {
	tbl := model.NewLossEventTable([]model.LossEvent{
		{RiskCategory: "RC1", LossAmount: 10},
		{RiskCategory: "RC2", LossAmount: 30},
		{RiskCategory: "RC1", LossAmount: 20},
	})
	summary, err := analytics.Summarize(tbl, model.ColumnRiskCategory)
	gt.NoError(t, err).Required()
	gt.Value(t, summary.EventCountPerType["RC1"]).Equal(2)
	gt.Bool(t, almostEqual(summary.AverageLossAmountPerType["RC1"], 15)).True()
}

func TestTotalsBy(t *testing.T) {
	tbl := model.NewLossEventTable([]model.LossEvent{
		{BusinessUnit: "BU2", LossAmount: 10},
		{BusinessUnit: "BU1", LossAmount: 30},
		{BusinessUnit: "BU2", LossAmount: 20.5},
	})
	totals, err := analytics.TotalsBy(tbl, model.ColumnBusinessUnit)
	gt.NoError(t, err).Required()
	gt.Array(t, totals).Length(2)
	gt.Value(t, totals[0].Key).Equal("BU1")
	gt.Value(t, totals[1].Key).Equal("BU2")
	gt.Value(t, totals[1].Count).Equal(2)
	gt.Bool(t, almostEqual(totals[1].TotalLoss, 30.5)).True()

	_, err = analytics.TotalsBy(tbl, "Nope")
	gt.Error(t, err).Is(model.ErrMissingColumn)

	empty, err := analytics.TotalsBy(model.NewLossEventTable(nil), model.ColumnBusinessUnit)
	gt.NoError(t, err).Required()
	gt.Array(t, empty).Length(0)
}

func TestDailyTrend(t *testing.T) {
	jan1 := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)

	tbl, err := model.NewTable(
		model.NewColumn("Date", jan1, jan1.Add(3*time.Hour), feb1, feb1),
		model.NewColumn(model.ColumnBaselEventType, "Fraud", "System Failure", "Fraud", "System Failure"),
		model.NewColumn(model.ColumnLossAmount, int64(100), int64(50), int64(150), int64(75)),
	)
	gt.NoError(t, err).Required()

	t.Run("by category", func(t *testing.T) {
		trend, err := analytics.DailyTrend(tbl, "Date", model.ColumnBaselEventType)
		gt.NoError(t, err).Required()
		gt.Value(t, len(trend.Series)).Equal(2)

		fraud := trend.Series["Fraud"]
		gt.Array(t, fraud).Length(2)
		gt.Value(t, fraud[0].Date).Equal(jan1)
		gt.Bool(t, almostEqual(fraud[0].TotalLoss, 100)).True()
		gt.Value(t, fraud[1].Date).Equal(feb1)
	})

	t.Run("total series", func(t *testing.T) {
		trend, err := analytics.DailyTrend(tbl, "Date", "")
		gt.NoError(t, err).Required()
		total := trend.Series[analytics.TotalSeries]
		gt.Array(t, total).Length(2)
		gt.Bool(t, almostEqual(total[0].TotalLoss, 150)).True()
		gt.Bool(t, almostEqual(total[1].TotalLoss, 225)).True()
	})

	t.Run("missing date column", func(t *testing.T) {
		_, err := analytics.DailyTrend(tbl, "", "")
		gt.Error(t, err).Is(model.ErrMissingColumn)
	})

	t.Run("empty", func(t *testing.T) {
		empty, err := model.NewTable()
		gt.NoError(t, err).Required()
		trend, err := analytics.DailyTrend(empty, "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, len(trend.Series)).Equal(0)
	})
}

func TestRecoveryRelationship(t *testing.T) {
	tbl := model.NewLossEventTable([]model.LossEvent{
		{LossAmount: 100, RecoveryTimeDays: 1},
		{LossAmount: 200, RecoveryTimeDays: 2},
		{LossAmount: 300, RecoveryTimeDays: 3},
	})
	rel, err := analytics.RecoveryRelationship(tbl)
	gt.NoError(t, err).Required()
	gt.Array(t, rel.Points).Length(3)
	gt.Value(t, rel.Points[1]).Equal(analytics.Point{X: 2, Y: 200})
	gt.Bool(t, almostEqual(rel.Slope, 100)).True()
	gt.Bool(t, almostEqual(rel.Intercept, 0)).True()
	gt.Bool(t, almostEqual(rel.Correlation, 1)).True()

	t.Run("non numeric", func(t *testing.T) {
		bad, err := model.NewTable(
			model.NewColumn(model.ColumnLossAmount, "a", "b"),
			model.NewColumn(model.ColumnRecoveryTimeDays, int64(1), int64(2)),
		)
		gt.NoError(t, err).Required()
		_, err = analytics.RecoveryRelationship(bad)
		gt.Error(t, err).Is(model.ErrNonNumeric)
	})

	t.Run("empty", func(t *testing.T) {
		rel, err := analytics.RecoveryRelationship(model.NewLossEventTable(nil))
		gt.NoError(t, err).Required()
		gt.Array(t, rel.Points).Length(0)
	})
}

func TestDescribe(t *testing.T) {
	stats, err := analytics.Describe(exampleTable(t), model.ColumnLossAmount)
	gt.NoError(t, err).Required()
	gt.Value(t, stats.Count).Equal(5)
	gt.Bool(t, almostEqual(stats.Mean, 300)).True()
	gt.Bool(t, almostEqual(stats.Min, 100)).True()
	gt.Bool(t, almostEqual(stats.Max, 500)).True()
	gt.Bool(t, almostEqual(stats.Median, 300)).True()
	gt.Bool(t, stats.StdDev > 0).True()

	_, err = analytics.Describe(exampleTable(t), model.ColumnBaselEventType)
	gt.Error(t, err).Is(model.ErrNonNumeric)
}

func TestDescribe_NonFinite(t *testing.T) {
	t.Run("NaN is a missing value", func(t *testing.T) {
		tbl, err := model.NewTable(model.NewColumn(model.ColumnLossAmount, 100.0, math.NaN(), 300.0))
		gt.NoError(t, err).Required()
		_, err = analytics.Describe(tbl, model.ColumnLossAmount)
		gt.Error(t, err).Is(model.ErrNullValue)
	})

	t.Run("infinity is not numeric", func(t *testing.T) {
		tbl, err := model.NewTable(model.NewColumn(model.ColumnLossAmount, 100.0, math.Inf(1)))
		gt.NoError(t, err).Required()
		_, err = analytics.Describe(tbl, model.ColumnLossAmount)
		gt.Error(t, err).Is(model.ErrNonNumeric)
	})
}

func TestRecoveryRelationship_NonFinite(t *testing.T) {
	t.Run("NaN recovery days", func(t *testing.T) {
		tbl, err := model.NewTable(
			model.NewColumn(model.ColumnLossAmount, 100.0, 200.0),
			model.NewColumn(model.ColumnRecoveryTimeDays, 1.0, math.NaN()),
		)
		gt.NoError(t, err).Required()
		_, err = analytics.RecoveryRelationship(tbl)
		gt.Error(t, err).Is(model.ErrNullValue)
	})

	t.Run("infinite loss", func(t *testing.T) {
		tbl, err := model.NewTable(
			model.NewColumn(model.ColumnLossAmount, math.Inf(-1), 200.0),
			model.NewColumn(model.ColumnRecoveryTimeDays, 1.0, 2.0),
		)
		gt.NoError(t, err).Required()
		_, err = analytics.RecoveryRelationship(tbl)
		gt.Error(t, err).Is(model.ErrNonNumeric)
	})
}

func TestSummarizeAssessments(t *testing.T) {
	summary := analytics.SummarizeAssessments([]*model.Assessment{
		{
			UnitName:     "A",
			InherentRisk: types.RiskLevelHigh,
			ResidualRisk: types.RiskLevelLow,
			Controls: []model.Control{
				{Description: "x", Effectiveness: types.ControlEffective},
				{Description: "y"},
			},
		},
		{UnitName: "B", InherentRisk: types.RiskLevelMedium, ResidualRisk: types.RiskLevelMedium},
		{UnitName: "C", InherentRisk: types.RiskLevelHigh, ResidualRisk: types.RiskLevelHigh},
	})

	gt.Value(t, summary.Units).Equal(3)
	gt.Value(t, summary.Controls).Equal(2)
	gt.Value(t, summary.ByInherentRisk[types.RiskLevelHigh]).Equal(2)
	gt.Value(t, summary.ByResidualRisk[types.RiskLevelLow]).Equal(1)
	gt.Value(t, summary.ReducedUnits).Equal(1)
	gt.Value(t, summary.ControlsByEffectiveness[types.ControlEffective]).Equal(1)

	empty := analytics.SummarizeAssessments(nil)
	gt.Value(t, empty.Units).Equal(0)
}
