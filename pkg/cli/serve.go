package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secmon-lab/oprisk/pkg/cli/config"
	httpctrl "github.com/secmon-lab/oprisk/pkg/controller/http"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/worker"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
	"github.com/urfave/cli/v3"
)

func cmdServe(appCfg *config.Config) *cli.Command {
	var (
		addr          string
		maxSessions   int
		maxBodySize   int64
		sessionIdle   time.Duration
		sweepInterval time.Duration
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("OPRISK_ADDR"),
			Destination: &addr,
		},
		&cli.IntFlag{
			Name:        "max-sessions",
			Usage:       "Maximum number of open sessions (0 means unlimited)",
			Category:    "Session",
			Value:       100,
			Sources:     cli.EnvVars("OPRISK_MAX_SESSIONS"),
			Destination: &maxSessions,
		},
		&cli.DurationFlag{
			Name:        "session-idle",
			Usage:       "Close sessions not accessed for this long (0 disables)",
			Category:    "Session",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("OPRISK_SESSION_IDLE"),
			Destination: &sessionIdle,
		},
		&cli.DurationFlag{
			Name:        "sweep-interval",
			Usage:       "Interval of idle session sweeping",
			Category:    "Session",
			Value:       time.Minute,
			Sources:     cli.EnvVars("OPRISK_SWEEP_INTERVAL"),
			Destination: &sweepInterval,
		},
		&cli.Int64Flag{
			Name:        "max-body-size",
			Usage:       "Maximum request body size in bytes",
			Value:       httpctrl.DefaultMaxBodySize,
			Sources:     cli.EnvVars("OPRISK_MAX_BODY_SIZE"),
			Destination: &maxBodySize,
		},
	}

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if sessionIdle > 0 && sweepInterval <= 0 {
				return goerr.Wrap(model.ErrInvalidArgument, "sweep interval must be positive",
					goerr.V(model.ArgumentKey, "sweep-interval"),
					goerr.V(model.ValueKey, sweepInterval.String()))
			}

			cfg, err := appCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load configuration")
			}

			m := metrics.New()
			uc := newUseCases(cfg,
				usecase.WithMetrics(m),
				usecase.WithMaxSessions(maxSessions),
			)

			handler, err := httpctrl.New(uc,
				httpctrl.WithMetrics(m),
				httpctrl.WithMaxBodySize(maxBodySize),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			var sweeper *worker.SessionSweeper
			if sessionIdle > 0 {
				sweeper = worker.NewSessionSweeper(uc.Sessions, sessionIdle, sweepInterval)
				if err := sweeper.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start session sweeper")
				}
				defer sweeper.Stop()
			}

			eg, ctx := errgroup.WithContext(ctx)
			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"max_sessions", maxSessions,
					"session_idle", sessionIdle,
				)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return goerr.Wrap(err, "failed to start server", goerr.V("addr", addr))
				}
				return nil
			})
			eg.Go(func() error {
				<-ctx.Done()
				logging.Default().Info("Shutting down HTTP server")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}
			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
