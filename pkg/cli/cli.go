package cli

import (
	"context"
	"io"
	"os"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/utils/errutil"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	return run(ctx, args, version, os.Stdout)
}

func run(ctx context.Context, args []string, version string, w io.Writer) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var appCfg config.Config
	var closers []func()
	// closers run after errors are reported so Sentry is flushed last
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	var flags []cli.Flag
	flags = append(flags, loggerCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, appCfg.Flags()...)

	app := &cli.Command{
		Name:    "oprisk",
		Usage:   "Operational risk assessment simulator",
		Version: version,
		Writer:  w,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			f, err = sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			logging.Default().Debug("Starting oprisk",
				"logger", loggerCfg,
				"sentry", sentryCfg,
				"config", appCfg,
			)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdGenerate(&appCfg),
			cmdSummarize(),
			cmdValidate(),
			cmdResidual(),
			cmdMatrix(),
			cmdAssess(&appCfg),
			cmdServe(&appCfg),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		return errutil.Handle(ctx, err, "failed to run app")
	}

	return nil
}
