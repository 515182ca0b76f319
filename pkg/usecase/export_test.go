package usecase

import "github.com/secmon-lab/oprisk/pkg/domain/model"

// BuildAssessment is exported for testing
func BuildAssessment(input UpsertInput) (*model.Assessment, error) {
	return buildAssessment(input)
}
