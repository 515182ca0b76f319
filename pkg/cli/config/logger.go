package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Logger configures the process wide slog logger.
type Logger struct {
	level  string
	format string
	output string
}

func (x *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Aliases:     []string{"l"},
			Usage:       "Log level [debug|info|warn|error]",
			Category:    "Logging",
			Value:       "info",
			Destination: &x.level,
			Sources:     cli.EnvVars("OPRISK_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format [console|json]",
			Category:    "Logging",
			Value:       "console",
			Destination: &x.format,
			Sources:     cli.EnvVars("OPRISK_LOG_FORMAT"),
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output [stdout|stderr|FILE]",
			Category:    "Logging",
			Value:       "stderr",
			Destination: &x.output,
			Sources:     cli.EnvVars("OPRISK_LOG_OUTPUT"),
		},
	}
}

func (x Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", x.level),
		slog.String("format", x.format),
		slog.String("output", x.output),
	)
}

var levelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Configure builds the handler and installs it as the default logger. The
// returned closer releases the log file, if any.
func (x *Logger) Configure() (func(), error) {
	level, ok := levelMap[strings.ToLower(x.level)]
	if !ok {
		return nil, goerr.Wrap(ErrInvalidLogLevel, "unknown log level", goerr.V("level", x.level))
	}

	var w io.Writer
	closer := func() {}
	switch x.output {
	case "", "stderr", "-":
		w = os.Stderr
	case "stdout":
		w = os.Stdout
	default:
		// #nosec G304 - path is provided by CLI argument
		f, err := os.OpenFile(x.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", x.output))
		}
		w = f
		closer = func() { _ = f.Close() }
	}

	handler, err := newHandler(w, x.format, level)
	if err != nil {
		closer()
		return nil, err
	}

	logging.SetDefault(slog.New(handler))
	return closer, nil
}

// redactor hides attributes tagged `masq:"secret"` and fields named like credentials.
func redactor() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("DSN"),
		masq.WithFieldName("Token"),
		masq.WithFieldName("Password"),
	)
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	switch format {
	case "", "console":
		return clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redactor()),
			clog.WithSource(true),
		), nil

	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: redactor(),
		}), nil

	default:
		return nil, goerr.Wrap(ErrInvalidLogFormat, "unknown log format", goerr.V("format", format))
	}
}
