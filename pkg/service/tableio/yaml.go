package tableio

import (
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"gopkg.in/yaml.v3"
)

// WriteYAML writes the table as a sequence of mappings in column order.
func WriteYAML(w io.Writer, t *model.Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}

	names := t.ColumnNames()
	cols := t.Columns()
	for r := 0; r < t.Len(); r++ {
		row := &yaml.Node{Kind: yaml.MappingNode}
		for i, col := range cols {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: names[i]}
			value := &yaml.Node{}
			if err := value.Encode(col.Values[r]); err != nil {
				return goerr.Wrap(err, "failed to encode YAML cell",
					goerr.V(model.ColumnKey, names[i]),
					goerr.V(model.RowKey, r))
			}
			row.Content = append(row.Content, key, value)
		}
		doc.Content = append(doc.Content, row)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return goerr.Wrap(err, "failed to encode YAML table")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush YAML table")
	}
	return nil
}

// WriteValue writes any value as YAML.
func WriteValue(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode YAML")
	}
	if err := enc.Close(); err != nil {
		return goerr.Wrap(err, "failed to flush YAML")
	}
	return nil
}
