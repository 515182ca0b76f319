package tableio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// record is one table row that marshals with its keys in column order.
type record struct {
	names  []string
	values []any
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Records returns the rows of a table as order preserving JSON objects.
func Records(t *model.Table) []json.Marshaler {
	names := t.ColumnNames()
	cols := t.Columns()

	rows := make([]json.Marshaler, t.Len())
	for r := range rows {
		values := make([]any, len(cols))
		for i, col := range cols {
			values[i] = col.Values[r]
		}
		rows[r] = record{names: names, values: values}
	}
	return rows
}

// WriteJSON writes the table as an array of records.
func WriteJSON(w io.Writer, t *model.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Records(t)); err != nil {
		return goerr.Wrap(err, "failed to encode JSON table")
	}
	return nil
}

// ReadJSON reads an array of records. Column order follows first appearance of
// each key; keys missing from a record are null.
func ReadJSON(r io.Reader) (*model.Table, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read JSON table")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "JSON table must be an array of records")
	}

	var names []string
	index := map[string]int{}
	var values [][]any
	rows := 0

	for dec.More() {
		keys, row, err := decodeRecord(dec)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode JSON record", goerr.V("row", rows))
		}
		for _, key := range keys {
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = len(names)
			names = append(names, key)
			values = append(values, make([]any, rows))
		}
		for i, name := range names {
			values[i] = append(values[i], row[name])
		}
		rows++
	}

	if _, err := dec.Token(); err != nil {
		return nil, goerr.Wrap(err, "failed to read end of JSON table")
	}

	t, err := buildTable(names, values)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid JSON table")
	}
	return t, nil
}

// decodeRecord reads one JSON object keeping the order of its keys.
func decodeRecord(dec *json.Decoder) ([]string, map[string]any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, goerr.Wrap(model.ErrInvalidArgument, "record must be a JSON object")
	}

	var keys []string
	row := map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if _, seen := row[key]; !seen {
			keys = append(keys, key)
		}
		row[key] = jsonCell(raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, row, nil
}

func jsonCell(v any) any {
	switch c := v.(type) {
	case json.Number:
		if i, err := c.Int64(); err == nil {
			return i
		}
		if f, err := c.Float64(); err == nil {
			return f
		}
		return c.String()
	case string:
		if ts, ok := parseTime(c); ok {
			return ts
		}
		return c
	default:
		return c
	}
}

func toString(v any) string {
	return fmt.Sprint(v)
}
