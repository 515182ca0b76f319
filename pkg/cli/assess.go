package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/cli/config"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/analytics"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type assessReport struct {
	Assessments []*model.Assessment          `json:"assessments" yaml:"assessments"`
	Summary     *analytics.AssessmentSummary `json:"summary" yaml:"summary"`
}

func cmdAssess(appCfg *config.Config) *cli.Command {
	var format string

	return &cli.Command{
		Name:    "assess",
		Aliases: []string{"a"},
		Usage:   "Evaluate residual risk of the business units in the configuration file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format [json|yaml]",
				Value:       "json",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			outFormat, err := parseValueFormat(format)
			if err != nil {
				return err
			}

			cfg, err := appCfg.Load()
			if err != nil {
				return err
			}
			if len(cfg.Assessment.Units) == 0 {
				return goerr.Wrap(model.ErrInvalidArgument, "no [[assessment.units]] in configuration",
					goerr.V(model.ArgumentKey, "config"))
			}

			uc := newUseCases(cfg)
			session, err := uc.Sessions.Open(ctx, usecase.OpenOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = uc.Sessions.Close(ctx, session.ID) }()

			for _, unit := range cfg.Assessment.Units {
				if _, err := uc.Assessment.Upsert(ctx, session.ID, unit.UpsertInput()); err != nil {
					return goerr.Wrap(err, "failed to assess unit", goerr.V(config.UnitNameKey, unit.Name))
				}
			}

			assessments, err := uc.Assessment.List(ctx, session.ID)
			if err != nil {
				return err
			}
			summary, err := uc.Assessment.Summary(ctx, session.ID)
			if err != nil {
				return err
			}

			logging.Default().Info("units assessed", "count", len(assessments))
			return writeValue(c.Root().Writer, outFormat, &assessReport{
				Assessments: assessments,
				Summary:     summary,
			})
		},
	}
}
