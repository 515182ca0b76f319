package tableio

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// ReadCSV reads a table with a header row. Column types are inferred from the
// cells; empty cells are null.
func ReadCSV(r io.Reader) (*model.Table, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return model.NewTable()
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read CSV header")
	}

	values := make([][]any, len(header))
	for i := range values {
		values[i] = []any{}
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read CSV record", goerr.V("line", line))
		}
		for i, cell := range record {
			values[i] = append(values[i], parseCell(cell))
		}
	}

	t, err := buildTable(header, values)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid CSV table")
	}
	return t, nil
}

// WriteCSV writes a table with a header row. Nulls become empty cells.
func WriteCSV(w io.Writer, t *model.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.ColumnNames()); err != nil {
		return goerr.Wrap(err, "failed to write CSV header")
	}

	cols := t.Columns()
	record := make([]string, len(cols))
	for r := 0; r < t.Len(); r++ {
		for i, col := range cols {
			record[i] = formatCell(col.Values[r])
		}
		if err := writer.Write(record); err != nil {
			return goerr.Wrap(err, "failed to write CSV record", goerr.V("row", r))
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush CSV")
	}
	return nil
}
