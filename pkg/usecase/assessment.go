package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/service/analytics"
	"github.com/secmon-lab/oprisk/pkg/utils/logging"
	"github.com/secmon-lab/oprisk/pkg/utils/metrics"
)

// StorageApproach is the approach residual risk is stored with.
const StorageApproach = types.ApproachSimple

// UpsertInput is an assessment as entered by a user. Controls accepts anything
// model.ParseControls does.
type UpsertInput struct {
	UnitName             string
	InherentRisk         types.RiskLevel
	Controls             any
	ControlEffectiveness types.ControlEffectiveness
}

type AssessmentUseCase struct {
	sessions *SessionManager
	metrics  *metrics.Metrics
}

func NewAssessmentUseCase(sessions *SessionManager, m *metrics.Metrics) *AssessmentUseCase {
	return &AssessmentUseCase{
		sessions: sessions,
		metrics:  m,
	}
}

// Upsert validates the input, evaluates residual risk and stores the
// assessment under its unit name. Nothing is stored when validation fails.
func (uc *AssessmentUseCase) Upsert(ctx context.Context, id types.SessionID, input UpsertInput) (*model.Assessment, error) {
	assessment, err := buildAssessment(input)
	if err != nil {
		return nil, err
	}

	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var stored *model.Assessment
	err = session.update(func() error {
		s, err := session.repo.Assessment().Put(ctx, assessment)
		if err != nil {
			return err
		}
		stored = s
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store assessment",
			goerr.V(SessionIDKey, id),
			goerr.V(UnitNameKey, assessment.UnitName))
	}

	uc.metrics.AssessmentUpserted(stored.ResidualRisk.String())
	logging.From(ctx).Info("assessment stored",
		"session_id", id,
		"unit_name", stored.UnitName,
		"inherent_risk", stored.InherentRisk,
		"residual_risk", stored.ResidualRisk,
	)

	return stored, nil
}

func buildAssessment(input UpsertInput) (*model.Assessment, error) {
	// the name is the storage key and is kept exactly as given
	unitName := input.UnitName
	if strings.TrimSpace(unitName) == "" {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "unit name is required",
			goerr.V(model.ArgumentKey, "unit_name"))
	}
	if !input.InherentRisk.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "invalid inherent risk",
			goerr.V(model.ArgumentKey, "inherent_risk"),
			goerr.V(model.ValueKey, input.InherentRisk))
	}
	if input.ControlEffectiveness != "" && !input.ControlEffectiveness.IsValid() {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "invalid control effectiveness",
			goerr.V(model.ArgumentKey, "control_effectiveness"),
			goerr.V(model.ValueKey, input.ControlEffectiveness))
	}

	controls, err := model.ParseControls(input.Controls)
	if err != nil {
		return nil, err
	}
	for i, c := range controls {
		if err := c.Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid control", goerr.V("index", i))
		}
	}

	effectiveness := model.DeriveEffectiveness(input.ControlEffectiveness, controls)
	residual, err := model.ResidualRisk(input.InherentRisk, effectiveness, StorageApproach)
	if err != nil {
		return nil, err
	}

	return &model.Assessment{
		UnitName:             unitName,
		InherentRisk:         input.InherentRisk,
		Controls:             controls,
		ControlEffectiveness: input.ControlEffectiveness,
		ResidualRisk:         residual,
	}, nil
}

// Get returns the assessment of one unit.
func (uc *AssessmentUseCase) Get(ctx context.Context, id types.SessionID, unitName string) (*model.Assessment, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := session.repo.Assessment().Get(ctx, unitName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get assessment",
			goerr.V(SessionIDKey, id),
			goerr.V(UnitNameKey, unitName))
	}
	return a, nil
}

// List returns all assessments of the session.
func (uc *AssessmentUseCase) List(ctx context.Context, id types.SessionID) ([]*model.Assessment, error) {
	session, err := uc.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := session.repo.Assessment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assessments", goerr.V(SessionIDKey, id))
	}
	return list, nil
}

// Summary counts the session's assessments by level.
func (uc *AssessmentUseCase) Summary(ctx context.Context, id types.SessionID) (*analytics.AssessmentSummary, error) {
	list, err := uc.List(ctx, id)
	if err != nil {
		return nil, err
	}
	return analytics.SummarizeAssessments(list), nil
}

// Evaluate looks residual risk up without storing anything.
func (uc *AssessmentUseCase) Evaluate(inherent types.RiskLevel, effectiveness types.ControlEffectiveness, approach types.Approach) (types.RiskLevel, error) {
	return model.ResidualRisk(inherent, effectiveness, approach)
}

// Matrix returns the heatmap grid of an approach.
func (uc *AssessmentUseCase) Matrix(approach types.Approach) (*model.MatrixGrid, error) {
	return model.Grid(approach)
}
