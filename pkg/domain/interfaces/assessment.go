package interfaces

import (
	"context"

	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

type AssessmentRepository interface {
	// Put inserts or replaces the assessment keyed by its unit name. CreatedAt of
	// an existing record is kept.
	Put(ctx context.Context, assessment *model.Assessment) (*model.Assessment, error)

	// Get retrieves the assessment of a unit.
	Get(ctx context.Context, unitName string) (*model.Assessment, error)

	// List retrieves all assessments in first insertion order.
	List(ctx context.Context) ([]*model.Assessment, error)

	// Count returns the number of stored units.
	Count(ctx context.Context) (int, error)
}
