package analytics

import (
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/shopspring/decimal"
)

// Summarize computes total and average loss over the table and per value of
// categoryColumn. An empty categoryColumn means Basel_Event_Type. A table
// without rows yields a zero summary. Rows whose category is null count toward
// the totals but not toward any category.
func Summarize(t *model.Table, categoryColumn string) (*Summary, error) {
	if categoryColumn == "" {
		categoryColumn = model.ColumnBaselEventType
	}

	summary := &Summary{
		EventCountPerType:        map[string]int{},
		AverageLossAmountPerType: map[string]float64{},
	}
	if t.IsEmpty() {
		return summary, nil
	}

	losses, err := lossValues(t)
	if err != nil {
		return nil, err
	}
	category, ok := t.Column(categoryColumn)
	if !ok {
		return nil, goerr.Wrap(model.ErrMissingColumn, "category column is missing",
			goerr.V(model.ColumnKey, categoryColumn))
	}

	total := decimal.Zero
	perType := map[string]decimal.Decimal{}
	for i, loss := range losses {
		total = total.Add(loss)

		key, ok := categoryKey(category.Values[i])
		if !ok {
			continue
		}
		if sum, exists := perType[key]; exists {
			perType[key] = sum.Add(loss)
		} else {
			perType[key] = loss
		}
		summary.EventCountPerType[key]++
	}

	summary.TotalLossAmount = total.InexactFloat64()
	summary.AverageLossAmount = total.Div(decimal.NewFromInt(int64(len(losses)))).InexactFloat64()
	for key, sum := range perType {
		n := decimal.NewFromInt(int64(summary.EventCountPerType[key]))
		summary.AverageLossAmountPerType[key] = sum.Div(n).InexactFloat64()
	}

	return summary, nil
}

// TotalsBy sums Loss_Amount per value of column, ordered by key. Null keys are skipped.
func TotalsBy(t *model.Table, column string) ([]GroupTotal, error) {
	if t.IsEmpty() {
		return []GroupTotal{}, nil
	}

	losses, err := lossValues(t)
	if err != nil {
		return nil, err
	}
	group, ok := t.Column(column)
	if !ok {
		return nil, goerr.Wrap(model.ErrMissingColumn, "group column is missing",
			goerr.V(model.ColumnKey, column))
	}

	sums := map[string]decimal.Decimal{}
	counts := map[string]int{}
	for i, loss := range losses {
		key, ok := categoryKey(group.Values[i])
		if !ok {
			continue
		}
		sums[key] = sums[key].Add(loss)
		counts[key]++
	}

	totals := make([]GroupTotal, 0, len(sums))
	for key, sum := range sums {
		totals = append(totals, GroupTotal{
			Key:       key,
			Count:     counts[key],
			TotalLoss: sum.InexactFloat64(),
		})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Key < totals[j].Key
	})

	return totals, nil
}

// lossValues reads Loss_Amount as decimals, rejecting nulls and non-numeric cells.
func lossValues(t *model.Table) ([]decimal.Decimal, error) {
	col, ok := t.Column(model.ColumnLossAmount)
	if !ok {
		return nil, goerr.Wrap(model.ErrMissingColumn, "loss amount column is missing",
			goerr.V(model.ColumnKey, model.ColumnLossAmount))
	}

	values := make([]decimal.Decimal, len(col.Values))
	for i, v := range col.Values {
		f, err := finiteCell(model.ColumnLossAmount, i, v)
		if err != nil {
			return nil, err
		}
		values[i] = decimal.NewFromFloat(f)
	}
	return values, nil
}

func categoryKey(v any) (string, bool) {
	switch c := v.(type) {
	case nil:
		return "", false
	case string:
		return c, true
	default:
		return fmt.Sprint(c), true
	}
}
