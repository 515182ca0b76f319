package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// EventFilter narrows a loss event table. Zero fields match every row.
type EventFilter struct {
	// CategoryColumn is the column Category is compared with, Risk_Category
	// when empty.
	CategoryColumn string
	Category       string
	// From and To bound Timestamp, both inclusive.
	From    time.Time
	To      time.Time
	MinLoss *float64
	MaxLoss *float64
	// Limit keeps the first rows after filtering. Zero keeps all of them.
	Limit int
}

// Validate rejects inverted ranges and a negative limit.
func (f EventFilter) Validate() error {
	if f.Limit < 0 {
		return goerr.Wrap(ErrInvalidArgument, "limit must not be negative",
			goerr.V(ArgumentKey, "limit"),
			goerr.V(ValueKey, f.Limit))
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return goerr.Wrap(ErrInvalidWindow, "from is after to",
			goerr.V(ArgumentKey, "from"),
			goerr.V("from", f.From),
			goerr.V("to", f.To))
	}
	if f.MinLoss != nil && f.MaxLoss != nil && *f.MinLoss > *f.MaxLoss {
		return goerr.Wrap(ErrInvalidArgument, "min_loss is above max_loss",
			goerr.V(ArgumentKey, "min_loss"),
			goerr.V("min_loss", *f.MinLoss),
			goerr.V("max_loss", *f.MaxLoss))
	}
	return nil
}

func (f EventFilter) byRow() bool {
	return f.Category != "" || !f.From.IsZero() || !f.To.IsZero() || f.MinLoss != nil || f.MaxLoss != nil
}

// Apply returns the rows of t matching every set condition, cut to Limit.
// A condition on a column the table lacks fails with ErrMissingColumn. Rows
// whose cell cannot be compared do not match.
func (f EventFilter) Apply(t *Table) (*Table, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	categoryColumn := f.CategoryColumn
	if categoryColumn == "" {
		categoryColumn = ColumnRiskCategory
	}

	var required []string
	if f.Category != "" {
		required = append(required, categoryColumn)
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		required = append(required, ColumnTimestamp)
	}
	if f.MinLoss != nil || f.MaxLoss != nil {
		required = append(required, ColumnLossAmount)
	}
	for _, name := range required {
		if _, ok := t.Column(name); !ok {
			return nil, goerr.Wrap(ErrMissingColumn, "filter column is missing",
				goerr.V(ColumnKey, name))
		}
	}

	out := t
	if f.byRow() {
		out = t.Filter(func(row map[string]any) bool {
			if f.Category != "" {
				if s, ok := row[categoryColumn].(string); !ok || s != f.Category {
					return false
				}
			}
			if !f.From.IsZero() || !f.To.IsZero() {
				ts, ok := row[ColumnTimestamp].(time.Time)
				if !ok {
					return false
				}
				if !f.From.IsZero() && ts.Before(f.From) {
					return false
				}
				if !f.To.IsZero() && ts.After(f.To) {
					return false
				}
			}
			if f.MinLoss != nil || f.MaxLoss != nil {
				loss, ok := ToFloat(row[ColumnLossAmount])
				if !ok {
					return false
				}
				if f.MinLoss != nil && loss < *f.MinLoss {
					return false
				}
				if f.MaxLoss != nil && loss > *f.MaxLoss {
					return false
				}
			}
			return true
		})
	}

	if f.Limit > 0 {
		out = out.Head(f.Limit)
	}
	return out, nil
}
