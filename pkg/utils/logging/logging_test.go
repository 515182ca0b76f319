package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
)

func TestFromAndWith(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	ctx := logging.With(context.Background(), logger)
	logging.From(ctx).Info("hello", "unit", "Retail")

	gt.String(t, buf.String()).Contains(`"unit":"Retail"`)
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())
}

func TestSetDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	var buf bytes.Buffer
	logging.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	logging.Default().Warn("changed")

	gt.String(t, buf.String()).Contains(`"msg":"changed"`)
}
