package cli

import (
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

// filterArgs holds the event filter flags shared by commands reading a table.
type filterArgs struct {
	category string
	from     string
	to       string
	minLoss  float64
	maxLoss  float64
	head     int
}

func (a *filterArgs) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Keep only events of this category",
			Destination: &a.category,
		},
		&cli.StringFlag{
			Name:        "from",
			Usage:       "Keep only events at or after this time (RFC3339 or YYYY-MM-DD)",
			Destination: &a.from,
		},
		&cli.StringFlag{
			Name:        "to",
			Usage:       "Keep only events at or before this time (RFC3339 or YYYY-MM-DD)",
			Destination: &a.to,
		},
		&cli.FloatFlag{
			Name:        "min-loss",
			Usage:       "Keep only events losing at least this amount",
			Destination: &a.minLoss,
		},
		&cli.FloatFlag{
			Name:        "max-loss",
			Usage:       "Keep only events losing at most this amount",
			Destination: &a.maxLoss,
		},
		&cli.IntFlag{
			Name:        "head",
			Usage:       "Keep only the first N events; all when 0",
			Destination: &a.head,
		},
	}
}

func (a *filterArgs) build(c *cli.Command) (model.EventFilter, error) {
	filter := model.EventFilter{Category: a.category, Limit: a.head}

	if a.from != "" {
		ts, err := parseDate("from", a.from)
		if err != nil {
			return filter, err
		}
		filter.From = ts
	}
	if a.to != "" {
		ts, err := parseDate("to", a.to)
		if err != nil {
			return filter, err
		}
		filter.To = ts
	}
	if c.IsSet("min-loss") {
		v := a.minLoss
		filter.MinLoss = &v
	}
	if c.IsSet("max-loss") {
		v := a.maxLoss
		filter.MaxLoss = &v
	}

	if err := filter.Validate(); err != nil {
		return filter, err
	}
	return filter, nil
}
