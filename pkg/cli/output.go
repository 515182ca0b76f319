package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/tableio"
	"github.com/secmon-lab/oprisk/pkg/utils/safe"
)

var levelColors = map[types.RiskLevel]*color.Color{
	types.RiskLevelHigh:   color.New(color.FgRed, color.Bold),
	types.RiskLevelMedium: color.New(color.FgYellow, color.Bold),
	types.RiskLevelLow:    color.New(color.FgGreen, color.Bold),
}

func colorLevel(level types.RiskLevel) string {
	if c, ok := levelColors[level]; ok {
		return c.Sprint(level.String())
	}
	return level.String()
}

// writeValue writes v as JSON or YAML.
func writeValue(w io.Writer, format tableio.Format, v any) error {
	switch format {
	case tableio.FormatYAML:
		return tableio.WriteValue(w, v)
	case tableio.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return goerr.Wrap(err, "failed to encode JSON")
		}
		return nil
	default:
		return goerr.Wrap(model.ErrInvalidArgument, "format must be json or yaml",
			goerr.V(model.ArgumentKey, "format"),
			goerr.V(model.ValueKey, format))
	}
}

func parseValueFormat(s string) (tableio.Format, error) {
	format, err := tableio.ParseFormat(s)
	if err != nil {
		return "", err
	}
	if format == tableio.FormatCSV {
		return "", goerr.Wrap(model.ErrInvalidArgument, "format must be json or yaml",
			goerr.V(model.ArgumentKey, "format"),
			goerr.V(model.ValueKey, s))
	}
	return format, nil
}

// readTable reads a CSV or JSON table from path, choosing the codec by extension.
func readTable(ctx context.Context, path string) (*model.Table, error) {
	// #nosec G304 - path is provided by CLI argument
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open input", goerr.V("path", path))
	}
	defer safe.Close(ctx, f)

	t, err := tableio.Read(f, tableio.FormatFromPath(path))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read table", goerr.V("path", path))
	}
	return t, nil
}
