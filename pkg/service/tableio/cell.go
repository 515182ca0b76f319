package tableio

import (
	"strconv"
	"strings"
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseCell converts a text cell to the narrowest matching value. An empty
// cell is null.
func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if ts, ok := parseTime(s); ok {
		return ts
	}
	return s
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// formatCell renders a value as a text cell.
func formatCell(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case time.Time:
		return c.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(c, 10)
	case int:
		return strconv.Itoa(c)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case bool:
		return strconv.FormatBool(c)
	default:
		return toString(c)
	}
}

// buildTable creates a table from raw columns, upcasting ints of float columns.
func buildTable(names []string, values [][]any) (*model.Table, error) {
	cols := make([]*model.Column, len(names))
	for i, name := range names {
		col := model.NewColumn(name, values[i]...)
		if col.Type == types.ColumnTypeFloat {
			for j, v := range col.Values {
				if f, ok := model.ToFloat(v); ok {
					col.Values[j] = f
				}
			}
		}
		cols[i] = col
	}
	return model.NewTable(cols...)
}
