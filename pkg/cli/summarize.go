package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/service/analytics"
	"github.com/urfave/cli/v3"
)

func cmdSummarize() *cli.Command {
	var (
		categoryColumn string
		totalsBy       string
		describe       string
		format         string
		filterFlags    filterArgs
	)

	return &cli.Command{
		Name:      "summarize",
		Aliases:   []string{"sum"},
		Usage:     "Summarize losses of an event table (CSV or JSON)",
		ArgsUsage: "FILE",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:        "category-column",
				Usage:       "Column to group events by; Risk_Category when Basel_Event_Type is absent",
				Value:       model.ColumnBaselEventType,
				Destination: &categoryColumn,
			},
			&cli.StringFlag{
				Name:        "totals-by",
				Usage:       "Also total losses by this column",
				Destination: &totalsBy,
			},
			&cli.StringFlag{
				Name:        "describe",
				Usage:       "Also print descriptive statistics of this numeric column",
				Destination: &describe,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "Output format [json|yaml]",
				Value:       "json",
				Destination: &format,
			},
		}, filterFlags.flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.Wrap(model.ErrInvalidArgument, "exactly one FILE is required",
					goerr.V(model.ArgumentKey, "file"))
			}
			outFormat, err := parseValueFormat(format)
			if err != nil {
				return err
			}

			table, err := readTable(ctx, c.Args().First())
			if err != nil {
				return err
			}

			// generated tables carry Risk_Category only
			if !c.IsSet("category-column") {
				if _, ok := table.Column(categoryColumn); !ok {
					categoryColumn = model.ColumnRiskCategory
				}
			}

			filter, err := filterFlags.build(c)
			if err != nil {
				return err
			}
			filter.CategoryColumn = categoryColumn
			table, err = filter.Apply(table)
			if err != nil {
				return goerr.Wrap(err, "failed to filter events", goerr.V("path", c.Args().First()))
			}

			summary, err := analytics.Summarize(table, categoryColumn)
			if err != nil {
				return goerr.Wrap(err, "failed to summarize", goerr.V("path", c.Args().First()))
			}

			// without extras the summary itself is the document
			if totalsBy == "" && describe == "" {
				return writeValue(c.Root().Writer, outFormat, summary)
			}

			out := map[string]any{"summary": summary}
			if totalsBy != "" {
				totals, err := analytics.TotalsBy(table, totalsBy)
				if err != nil {
					return goerr.Wrap(err, "failed to total losses")
				}
				out["totals"] = totals
			}
			if describe != "" {
				stats, err := analytics.Describe(table, describe)
				if err != nil {
					return goerr.Wrap(err, "failed to describe column")
				}
				out["stats"] = stats
			}
			return writeValue(c.Root().Writer, outFormat, out)
		},
	}
}
