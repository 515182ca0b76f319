package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/usecase"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// ErrValidationFailed is returned when a table does not satisfy the schema.
var ErrValidationFailed = goerr.New("table validation failed")

func cmdValidate() *cli.Command {
	var (
		strict     bool
		allowExtra bool
		format     string
	)

	return &cli.Command{
		Name:      "validate",
		Aliases:   []string{"v"},
		Usage:     "Validate an event table against the loss event schema",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "Fail on the first problem instead of reporting all",
				Destination: &strict,
			},
			&cli.BoolFlag{
				Name:        "allow-extra",
				Usage:       "Accept columns beyond the loss event schema",
				Destination: &allowExtra,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format [json|yaml]",
				Value:       "json",
				Destination: &format,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.Wrap(model.ErrInvalidArgument, "exactly one FILE is required",
					goerr.V(model.ArgumentKey, "file"))
			}
			outFormat, err := parseValueFormat(format)
			if err != nil {
				return err
			}

			path := c.Args().First()
			table, err := readTable(ctx, path)
			if err != nil {
				return err
			}

			schema := model.LossEventSchema()
			schema.AllowExtraColumns = allowExtra

			result := usecase.ValidateTable(table, schema, strict)
			if err := writeValue(c.Root().Writer, outFormat, result); err != nil {
				return err
			}

			if !result.Valid {
				return goerr.Wrap(ErrValidationFailed, "table does not match the loss event schema",
					goerr.V("path", path))
			}
			logging.Default().Info("table is valid", "path", path, "rows", table.Len())
			return nil
		},
	}
}
