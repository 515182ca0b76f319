package analytics

import (
	"math"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"gonum.org/v1/gonum/stat"
)

// RecoveryRelationship pairs Recovery_Time_Days (x) with Loss_Amount (y) and
// fits a least squares line through the points.
func RecoveryRelationship(t *model.Table) (*Relationship, error) {
	rel := &Relationship{Points: []Point{}}
	if t.IsEmpty() {
		return rel, nil
	}

	losses, err := numericColumn(t, model.ColumnLossAmount)
	if err != nil {
		return nil, err
	}
	days, err := numericColumn(t, model.ColumnRecoveryTimeDays)
	if err != nil {
		return nil, err
	}

	for i := range losses {
		rel.Points = append(rel.Points, Point{X: days[i], Y: losses[i]})
	}

	if len(losses) > 1 {
		rel.Intercept, rel.Slope = stat.LinearRegression(days, losses, nil, false)
		rel.Correlation = stat.Correlation(days, losses, nil)
		// constant input has no defined fit
		for _, v := range []*float64{&rel.Intercept, &rel.Slope, &rel.Correlation} {
			if math.IsNaN(*v) || math.IsInf(*v, 0) {
				*v = 0
			}
		}
	}

	return rel, nil
}

// Describe computes descriptive statistics of a numeric column.
func Describe(t *model.Table, column string) (*Stats, error) {
	if t.IsEmpty() {
		return &Stats{}, nil
	}

	values, err := numericColumn(t, column)
	if err != nil {
		return nil, err
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return &Stats{
		Count:  len(values),
		Mean:   mean,
		StdDev: std,
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}, nil
}

func numericColumn(t *model.Table, name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, goerr.Wrap(model.ErrMissingColumn, "column is missing",
			goerr.V(model.ColumnKey, name))
	}

	values := make([]float64, len(col.Values))
	for i, v := range col.Values {
		f, err := finiteCell(name, i, v)
		if err != nil {
			return nil, err
		}
		values[i] = f
	}
	return values, nil
}

// finiteCell converts one cell to a finite float. NaN counts as a missing
// value, infinities as non-numeric.
func finiteCell(column string, row int, v any) (float64, error) {
	if v == nil {
		return 0, goerr.Wrap(model.ErrNullValue, "value is null",
			goerr.V(model.ColumnKey, column),
			goerr.V(model.RowKey, row))
	}
	f, ok := model.ToFloat(v)
	if ok && math.IsNaN(f) {
		return 0, goerr.Wrap(model.ErrNullValue, "value is NaN",
			goerr.V(model.ColumnKey, column),
			goerr.V(model.RowKey, row))
	}
	if !ok || math.IsInf(f, 0) {
		return 0, goerr.Wrap(model.ErrNonNumeric, "value is not numeric",
			goerr.V(model.ColumnKey, column),
			goerr.V(model.RowKey, row),
			goerr.V(model.ValueKey, v))
	}
	return f, nil
}
