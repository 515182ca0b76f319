package memory

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = goerr.Wrap(model.ErrNotFound, "record not found")

// Memory holds the stores of one session.
type Memory struct {
	assessment *assessmentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		assessment: newAssessmentRepository(),
	}
}

func (m *Memory) Assessment() interfaces.AssessmentRepository {
	return m.assessment
}
