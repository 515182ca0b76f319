package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/repository/memory"
	"github.com/secmon-lab/oprisk/pkg/service/tableio"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(name, s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, goerr.Wrap(model.ErrInvalidArgument, "unrecognized date",
		goerr.V(model.ArgumentKey, name),
		goerr.V(model.ValueKey, s))
}

func newMemoryRepository() interfaces.Repository {
	return memory.New()
}

// newUseCases builds use cases whose sessions generate with the configured options.
func newUseCases(cfg *config.AppConfig, opts ...usecase.Option) *usecase.UseCases {
	opts = append(opts, usecase.WithGeneratorOptions(cfg.Simulation.GeneratorOptions()...))
	return usecase.New(newMemoryRepository, opts...)
}

func cmdGenerate(appCfg *config.Config) *cli.Command {
	var (
		count          int
		start          string
		end            string
		businessUnits  []string
		riskCategories []string
		basel          bool
		seed           uint64
		format         string
		output         string
		head           int
	)

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "count",
			Aliases:     []string{"n"},
			Usage:       "Number of events to generate",
			Value:       100,
			Destination: &count,
		},
		&cli.StringFlag{
			Name:        "start",
			Usage:       "Start of the time window (RFC3339 or YYYY-MM-DD)",
			Value:       "2023-01-01",
			Destination: &start,
		},
		&cli.StringFlag{
			Name:        "end",
			Usage:       "End of the time window (RFC3339 or YYYY-MM-DD)",
			Value:       "2023-12-31",
			Destination: &end,
		},
		&cli.StringSliceFlag{
			Name:        "business-unit",
			Aliases:     []string{"b"},
			Usage:       "Business unit candidate (repeatable)",
			Destination: &businessUnits,
		},
		&cli.StringSliceFlag{
			Name:        "risk-category",
			Aliases:     []string{"r"},
			Usage:       "Risk category candidate (repeatable)",
			Destination: &riskCategories,
		},
		&cli.BoolFlag{
			Name:        "basel",
			Usage:       "Use the Basel event types as risk categories",
			Destination: &basel,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "Random seed; a random seed is used when not set",
			Sources:     cli.EnvVars("OPRISK_SEED"),
			Destination: &seed,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Output format [csv|json|yaml]",
			Value:       "csv",
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file; stdout when empty",
			TakesFile:   true,
			Destination: &output,
		},
		&cli.IntFlag{
			Name:        "head",
			Usage:       "Write only the first N events as a preview; all when 0",
			Destination: &head,
		},
	}

	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"g"},
		Usage:   "Generate synthetic loss events",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			outFormat, err := tableio.ParseFormat(format)
			if err != nil {
				return err
			}
			startAt, err := parseDate("start", start)
			if err != nil {
				return err
			}
			endAt, err := parseDate("end", end)
			if err != nil {
				return err
			}

			cfg, err := appCfg.Load()
			if err != nil {
				return err
			}

			units := businessUnits
			if len(units) == 0 {
				units = cfg.Simulation.BusinessUnits
			}
			categories := riskCategories
			if len(categories) == 0 {
				categories = cfg.Simulation.RiskCategories
			}

			uc := newUseCases(cfg)
			var opts usecase.OpenOptions
			if c.IsSet("seed") {
				opts.Seed = &seed
			}
			session, err := uc.Sessions.Open(ctx, opts)
			if err != nil {
				return err
			}
			defer func() { _ = uc.Sessions.Close(ctx, session.ID) }()

			table, err := uc.Simulation.Generate(ctx, session.ID, usecase.GenerateInput{
				Count:          count,
				Start:          startAt,
				End:            endAt,
				BusinessUnits:  units,
				RiskCategories: categories,
				Basel:          basel,
			})
			if err != nil {
				return err
			}
			if head != 0 {
				table, err = uc.Simulation.Select(ctx, session.ID, model.EventFilter{Limit: head})
				if err != nil {
					return err
				}
			}

			var w io.Writer = c.Root().Writer
			if output != "" {
				// #nosec G304 - path is provided by CLI argument
				f, err := os.Create(output)
				if err != nil {
					return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
				}
				defer safe.Close(ctx, f)
				w = f
			}

			if err := tableio.Write(w, table, outFormat); err != nil {
				return goerr.Wrap(err, "failed to write events")
			}

			logging.Default().Info("events written",
				"count", table.Len(),
				"seed", session.Seed,
				"format", outFormat,
				"output", output,
			)
			return nil
		},
	}
}
