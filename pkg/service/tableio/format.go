package tableio

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// Format is a table encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// AllFormats returns all supported formats.
func AllFormats() []Format {
	return []Format{FormatCSV, FormatJSON, FormatYAML}
}

// IsValid checks if the format is supported.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatJSON, FormatYAML:
		return true
	}
	return false
}

func (f Format) String() string {
	return string(f)
}

// ParseFormat parses a format name. "yml" is accepted as YAML.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "yml" {
		f = FormatYAML
	}
	if !f.IsValid() {
		return "", goerr.Wrap(model.ErrInvalidArgument, "unsupported format",
			goerr.V(model.ArgumentKey, "format"),
			goerr.V(model.ValueKey, s))
	}
	return f, nil
}

// FormatFromPath guesses the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return FormatCSV
	}
	return f
}

// Write encodes a table in the given format.
func Write(w io.Writer, t *model.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	case FormatYAML:
		return WriteYAML(w, t)
	default:
		return goerr.Wrap(model.ErrInvalidArgument, "unsupported format",
			goerr.V(model.ArgumentKey, "format"),
			goerr.V(model.ValueKey, format))
	}
}

// Read decodes a table in the given format. YAML input is not supported.
func Read(r io.Reader, format Format) (*model.Table, error) {
	switch format {
	case FormatCSV:
		return ReadCSV(r)
	case FormatJSON:
		return ReadJSON(r)
	default:
		return nil, goerr.Wrap(model.ErrInvalidArgument, "unsupported input format",
			goerr.V(model.ArgumentKey, "format"),
			goerr.V(model.ValueKey, format))
	}
}
