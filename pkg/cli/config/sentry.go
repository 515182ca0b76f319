package config

import (
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// sentryFlushTimeout bounds how long pending events are sent on exit.
const sentryFlushTimeout = 2 * time.Second

// Sentry configures error reporting. Reporting is disabled without a DSN.
type Sentry struct {
	dsn     string
	env     string
	release string
}

func (x *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN for error reporting",
			Category:    "Sentry",
			Destination: &x.dsn,
			Sources:     cli.EnvVars("OPRISK_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment",
			Category:    "Sentry",
			Destination: &x.env,
			Sources:     cli.EnvVars("OPRISK_SENTRY_ENV"),
		},
	}
}

func (x Sentry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("enabled", x.dsn != ""),
		slog.String("env", x.env),
	)
}

// Enabled reports whether a DSN is configured.
func (x *Sentry) Enabled() bool {
	return x.dsn != ""
}

// Configure initializes the global Sentry client. The returned closer flushes
// buffered events.
func (x *Sentry) Configure(release string) (func(), error) {
	if !x.Enabled() {
		return func() {}, nil
	}
	x.release = release

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         x.dsn,
		Environment: x.env,
		Release:     x.release,
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize sentry", goerr.V("env", x.env))
	}

	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}
