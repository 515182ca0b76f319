package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

type assessmentRepository struct {
	mu          sync.RWMutex
	assessments map[string]*model.Assessment
	order       []string
}

func newAssessmentRepository() *assessmentRepository {
	return &assessmentRepository{
		assessments: make(map[string]*model.Assessment),
	}
}

func (r *assessmentRepository) Put(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error) {
	if assessment == nil || assessment.UnitName == "" {
		return nil, goerr.Wrap(model.ErrInvalidArgument, "unit name is required",
			goerr.V(model.ArgumentKey, "unit_name"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := assessment.Copy()
	stored.UpdatedAt = now

	if existing, exists := r.assessments[stored.UnitName]; exists {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
		r.order = append(r.order, stored.UnitName)
	}

	r.assessments[stored.UnitName] = stored

	// Return a copy to prevent external modification
	return stored.Copy(), nil
}

func (r *assessmentRepository) Get(ctx context.Context, unitName string) (*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessment, exists := r.assessments[unitName]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "assessment not found", goerr.V("unit_name", unitName))
	}

	return assessment.Copy(), nil
}

func (r *assessmentRepository) List(ctx context.Context) ([]*model.Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assessments := make([]*model.Assessment, 0, len(r.order))
	for _, name := range r.order {
		assessments = append(assessments, r.assessments[name].Copy())
	}

	return assessments, nil
}

func (r *assessmentRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.assessments), nil
}
