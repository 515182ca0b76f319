package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdResidual() *cli.Command {
	var (
		inherent      string
		effectiveness string
		approach      string
	)

	return &cli.Command{
		Name:  "residual",
		Usage: "Look up the residual risk of an inherent risk and a control effectiveness",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "inherent",
				Usage:       "Inherent risk [High|Medium|Low]",
				Required:    true,
				Destination: &inherent,
			},
			&cli.StringFlag{
				Name:        "effectiveness",
				Usage:       "Control effectiveness [Effective|Partially Effective|Ineffective]",
				Required:    true,
				Destination: &effectiveness,
			},
			&cli.StringFlag{
				Name:        "approach",
				Usage:       "Evaluation approach [Simple|Weighted]",
				Value:       types.ApproachSimple.String(),
				Destination: &approach,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			level, err := model.ResidualRisk(
				types.RiskLevel(inherent),
				types.ControlEffectiveness(effectiveness),
				types.Approach(approach),
			)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(c.Root().Writer, "Residual risk: %s\n", colorLevel(level))
			return err
		},
	}
}

func cmdMatrix() *cli.Command {
	var approach string

	return &cli.Command{
		Name:  "matrix",
		Usage: "Print the residual risk matrix of an approach",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "approach",
				Usage:       "Evaluation approach [Simple|Weighted]",
				Value:       types.ApproachSimple.String(),
				Destination: &approach,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			grid, err := model.Grid(types.Approach(approach))
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(c.Root().Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "%s\t", "Inherent \\ Control")
			for _, col := range grid.Columns {
				fmt.Fprintf(tw, "%s\t", col)
			}
			fmt.Fprintln(tw)

			for i, row := range grid.Rows {
				fmt.Fprintf(tw, "%s\t", row)
				for _, cell := range grid.Cells[i] {
					fmt.Fprintf(tw, "%s\t", colorLevel(cell))
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
}
