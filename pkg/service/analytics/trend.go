package analytics

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/shopspring/decimal"
)

// TotalSeries is the series name used when a trend is not split by category.
const TotalSeries = "Total"

// DailyTrend sums Loss_Amount per UTC day of dateColumn, split into one series
// per value of categoryColumn. An empty dateColumn means Timestamp and an empty
// categoryColumn puts every row into the Total series. Points are in date order.
func DailyTrend(t *model.Table, dateColumn, categoryColumn string) (*Trend, error) {
	if dateColumn == "" {
		dateColumn = model.ColumnTimestamp
	}

	trend := &Trend{Series: map[string][]TrendPoint{}}
	if t.IsEmpty() {
		return trend, nil
	}

	losses, err := lossValues(t)
	if err != nil {
		return nil, err
	}
	dates, ok := t.Column(dateColumn)
	if !ok {
		return nil, goerr.Wrap(model.ErrMissingColumn, "date column is missing",
			goerr.V(model.ColumnKey, dateColumn))
	}

	var category *model.Column
	if categoryColumn != "" {
		category, ok = t.Column(categoryColumn)
		if !ok {
			return nil, goerr.Wrap(model.ErrMissingColumn, "category column is missing",
				goerr.V(model.ColumnKey, categoryColumn))
		}
	}

	sums := map[string]map[time.Time]decimal.Decimal{}
	for i, loss := range losses {
		ts, ok := dates.Values[i].(time.Time)
		if !ok {
			if dates.Values[i] == nil {
				continue
			}
			return nil, goerr.Wrap(model.ErrColumnType, "date column holds a non datetime value",
				goerr.V(model.ColumnKey, dateColumn),
				goerr.V(model.RowKey, i))
		}

		series := TotalSeries
		if category != nil {
			key, ok := categoryKey(category.Values[i])
			if !ok {
				continue
			}
			series = key
		}

		day := ts.UTC().Truncate(24 * time.Hour)
		if sums[series] == nil {
			sums[series] = map[time.Time]decimal.Decimal{}
		}
		sums[series][day] = sums[series][day].Add(loss)
	}

	for series, byDay := range sums {
		points := make([]TrendPoint, 0, len(byDay))
		for day, sum := range byDay {
			points = append(points, TrendPoint{Date: day, TotalLoss: sum.InexactFloat64()})
		}
		sort.Slice(points, func(i, j int) bool {
			return points[i].Date.Before(points[j].Date)
		})
		trend.Series[series] = points
	}

	return trend, nil
}
