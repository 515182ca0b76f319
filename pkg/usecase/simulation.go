package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/analytics"
	"github.com/secmon-lab/oprisk/pkg/service/simulation"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// GenerateInput is a generation request of a session.
type GenerateInput struct {
	Count          int
	Start          time.Time
	End            time.Time
	BusinessUnits  []string
	RiskCategories []string
	// Basel draws risk categories from the Basel event types when
	// RiskCategories is empty.
	Basel bool
}

// ValidationResult is the outcome of validating the session's event table.
type ValidationResult struct {
	Report *model.Report `json:"report,omitempty"`
	Valid  bool          `json:"valid"`
	Error  string        `json:"error,omitempty"`
}

type SimulationUseCase struct {
	sessions *SessionManager
	metrics  *metrics.Metrics
}

func NewSimulationUseCase(sessions *SessionManager, m *metrics.Metrics) *SimulationUseCase {
	return &SimulationUseCase{
		sessions: sessions,
		metrics:  m,
	}
}

// Generate draws a new event table for the session, replacing the previous one.
func (uc *SimulationUseCase) Generate(ctx context.Context, id types.SessionID, input GenerateInput) (*model.Table, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	categories := input.RiskCategories
	if len(categories) == 0 && input.Basel {
		categories = types.BaselEventTypeNames()
	}

	var table *model.Table
	err = session.update(func() error {
		t, err := session.generator.Generate(ctx, simulation.Input{
			Count:          input.Count,
			Start:          input.Start,
			End:            input.End,
			BusinessUnits:  input.BusinessUnits,
			RiskCategories: categories,
		})
		if err != nil {
			return err
		}
		session.events = t
		table = t
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate events", goerr.V(SessionIDKey, id))
	}

	uc.recordGenerated(table)
	logging.From(ctx).Info("events generated",
		"session_id", id,
		"count", table.Len(),
		"start", input.Start,
		"end", input.End,
	)

	return table, nil
}

func (uc *SimulationUseCase) recordGenerated(t *model.Table) {
	if uc.metrics == nil {
		return
	}
	col, ok := t.Column(model.ColumnRiskCategory)
	if !ok {
		return
	}
	counts := map[string]int{}
	for _, v := range col.Values {
		if s, ok := v.(string); ok {
			counts[s]++
		}
	}
	for category, n := range counts {
		uc.metrics.EventsGenerated(category, n)
	}
}

// Events returns the session's last generated table.
func (uc *SimulationUseCase) Events(ctx context.Context, id types.SessionID) (*model.Table, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	events := session.Events()
	if events == nil {
		return nil, goerr.Wrap(ErrNoEvents, "generate events first", goerr.V(SessionIDKey, id))
	}
	return events, nil
}

// Select returns the session's events narrowed by filter.
func (uc *SimulationUseCase) Select(ctx context.Context, id types.SessionID, filter model.EventFilter) (*model.Table, error) {
	events, err := uc.Events(ctx, id)
	if err != nil {
		return nil, err
	}

	selected, err := filter.Apply(events)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to filter events", goerr.V(SessionIDKey, id))
	}
	return selected, nil
}

// Summarize summarizes the session's events by categoryColumn, Risk_Category when empty.
func (uc *SimulationUseCase) Summarize(ctx context.Context, id types.SessionID, categoryColumn string, filter model.EventFilter) (*analytics.Summary, error) {
	events, err := uc.Select(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	if categoryColumn == "" {
		categoryColumn = model.ColumnRiskCategory
	}

	summary, err := analytics.Summarize(events, categoryColumn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to summarize events", goerr.V(SessionIDKey, id))
	}
	return summary, nil
}

// Totals sums losses of the session's events by column, Business_Unit when empty.
func (uc *SimulationUseCase) Totals(ctx context.Context, id types.SessionID, column string, filter model.EventFilter) ([]analytics.GroupTotal, error) {
	events, err := uc.Select(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	if column == "" {
		column = model.ColumnBusinessUnit
	}

	totals, err := analytics.TotalsBy(events, column)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to total events", goerr.V(SessionIDKey, id))
	}
	return totals, nil
}

// Trend returns the daily loss trend of the session's events.
func (uc *SimulationUseCase) Trend(ctx context.Context, id types.SessionID, categoryColumn string, filter model.EventFilter) (*analytics.Trend, error) {
	events, err := uc.Select(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	trend, err := analytics.DailyTrend(events, model.ColumnTimestamp, categoryColumn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build trend", goerr.V(SessionIDKey, id))
	}
	return trend, nil
}

// Relationship returns loss against recovery time of the session's events.
func (uc *SimulationUseCase) Relationship(ctx context.Context, id types.SessionID, filter model.EventFilter) (*analytics.Relationship, error) {
	events, err := uc.Select(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	rel, err := analytics.RecoveryRelationship(events)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build relationship", goerr.V(SessionIDKey, id))
	}
	return rel, nil
}

// Validate checks the session's events against the loss event schema.
func (uc *SimulationUseCase) Validate(ctx context.Context, id types.SessionID, strict bool) (*ValidationResult, error) {
	events, err := uc.Events(ctx, id)
	if err != nil {
		return nil, err
	}
	return ValidateTable(events, model.LossEventSchema(), strict), nil
}

// ValidateTable runs the report or the strict validator over a table.
func ValidateTable(t *model.Table, schema model.Schema, strict bool) *ValidationResult {
	if strict {
		if err := model.ValidateTableStrict(t, schema); err != nil {
			return &ValidationResult{Valid: false, Error: err.Error()}
		}
		return &ValidationResult{Valid: true}
	}

	report := model.CheckTable(t, schema)
	return &ValidationResult{Report: report, Valid: report.Valid}
}

// Describe returns descriptive statistics of a numeric column of the session's
// events, Loss_Amount when empty.
func (uc *SimulationUseCase) Describe(ctx context.Context, id types.SessionID, column string, filter model.EventFilter) (*analytics.Stats, error) {
	events, err := uc.Select(ctx, id, filter)
	if err != nil {
		return nil, err
	}
	if column == "" {
		column = model.ColumnLossAmount
	}

	stats, err := analytics.Describe(events, column)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to describe events", goerr.V(SessionIDKey, id))
	}
	return stats, nil
}
