package simulation

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Generator draws synthetic loss events from an injected random source.
type Generator struct {
	mu             sync.Mutex
	rng            *rand.Rand
	loss           sampler
	distribution   LossDistribution
	granularity    types.Granularity
	breachTypes    []string
	includeUnknown bool
	maxEvents      int
}

// Option is a functional option for Generator configuration.
type Option func(*Generator)

// WithLossDistribution sets the distribution of Loss_Amount.
func WithLossDistribution(d LossDistribution) Option {
	return func(g *Generator) {
		g.distribution = d
	}
}

// WithGranularity sets whether timestamps are spread over whole days or seconds.
func WithGranularity(granularity types.Granularity) Option {
	return func(g *Generator) {
		g.granularity = granularity.Normalize()
	}
}

// WithBreachTypes replaces the control breach labels. An empty list keeps the defaults.
func WithBreachTypes(labels []string) Option {
	return func(g *Generator) {
		if len(labels) > 0 {
			g.breachTypes = append([]string(nil), labels...)
		}
	}
}

// WithUnknownBreach adds the Unknown sentinel to the breach labels.
func WithUnknownBreach(include bool) Option {
	return func(g *Generator) {
		g.includeUnknown = include
	}
}

// WithMaxEvents replaces DefaultMaxEvents. Values below 1 keep the default.
func WithMaxEvents(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxEvents = n
		}
	}
}

// New creates a Generator. The source is owned by the generator afterwards.
func New(src rand.Source, opts ...Option) (*Generator, error) {
	if src == nil {
		return nil, goerr.New("random source is required")
	}

	g := &Generator{
		rng:          rand.New(src),
		distribution: DefaultLossDistribution(),
		granularity:  types.GranularityDay,
		breachTypes:  DefaultBreachTypes,
		maxEvents:    DefaultMaxEvents,
	}

	for _, opt := range opts {
		opt(g)
	}

	if err := g.distribution.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid loss distribution")
	}
	if !g.granularity.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "invalid timestamp granularity",
			goerr.V(model.ArgumentKey, "granularity"),
			goerr.V(model.ValueKey, g.granularity))
	}
	if g.includeUnknown {
		g.breachTypes = append(append([]string(nil), g.breachTypes...), UnknownBreachType)
	}

	g.loss = g.distribution.sampler(src)

	return g, nil
}

// NewWithSeed creates a Generator over a PCG source seeded with seed.
func NewWithSeed(seed uint64, opts ...Option) (*Generator, error) {
	return New(rand.NewPCG(seed, seed), opts...)
}

// Distribution returns the configured loss distribution.
func (g *Generator) Distribution() LossDistribution {
	return g.distribution
}

// MaxEvents returns the largest count a single generation accepts.
func (g *Generator) MaxEvents() int {
	return g.maxEvents
}

// BreachTypes returns the labels Control_Breach_Type is drawn from.
func (g *Generator) BreachTypes() []string {
	return append([]string(nil), g.breachTypes...)
}

// Events draws count loss events. Empty candidate sets are replaced by the defaults.
func (g *Generator) Events(ctx context.Context, input Input) ([]model.LossEvent, error) {
	if input.Count < 0 {
		return nil, goerr.Wrap(model.ErrInvalidCount, "count must not be negative",
			goerr.V(model.ArgumentKey, "count"),
			goerr.V(model.ValueKey, input.Count))
	}
	if input.Count > g.maxEvents {
		return nil, goerr.Wrap(model.ErrTooManyEvents, "count exceeds the generation limit",
			goerr.V(model.ArgumentKey, "count"),
			goerr.V(model.ValueKey, input.Count),
			goerr.V("max_events", g.maxEvents))
	}
	if input.Start.After(input.End) {
		return nil, goerr.Wrap(model.ErrInvalidWindow, "start must not be after end",
			goerr.V("start", input.Start),
			goerr.V("end", input.End))
	}

	units := input.BusinessUnits
	if len(units) == 0 {
		units = DefaultBusinessUnits
	}
	categories := input.RiskCategories
	if len(categories) == 0 {
		categories = DefaultRiskCategories
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	events := make([]model.LossEvent, input.Count)
	for i := range events {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, goerr.Wrap(err, "generation canceled", goerr.V("generated", i))
			}
		}

		events[i] = model.LossEvent{
			Timestamp:         g.timestamp(input.Start, input.End),
			BusinessUnit:      pick(g.rng, units),
			RiskCategory:      pick(g.rng, categories),
			LossAmount:        draw(g.loss),
			NearMissFlag:      g.rng.Float64() < NearMissProbability,
			ControlBreachType: pick(g.rng, g.breachTypes),
			RecoveryTimeDays:  int64(minRecoveryDays + g.rng.IntN(maxRecoveryDays-minRecoveryDays+1)),
		}
	}

	return events, nil
}

// Generate draws count loss events and returns them as a loss event table.
func (g *Generator) Generate(ctx context.Context, input Input) (*model.Table, error) {
	events, err := g.Events(ctx, input)
	if err != nil {
		return nil, err
	}
	return model.NewLossEventTable(events), nil
}

func (g *Generator) timestamp(start, end time.Time) time.Time {
	span := end.Sub(start)
	switch g.granularity {
	case types.GranularitySecond:
		seconds := int64(span / time.Second)
		return start.Add(time.Duration(g.rng.Int64N(seconds+1)) * time.Second)
	default:
		days := int64(span / (24 * time.Hour))
		return start.Add(time.Duration(g.rng.Int64N(days+1)) * 24 * time.Hour)
	}
}

func pick(rng *rand.Rand, candidates []string) string {
	return candidates[rng.IntN(len(candidates))]
}
