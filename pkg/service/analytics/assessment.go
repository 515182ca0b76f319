package analytics

import (
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// SummarizeAssessments counts assessments by inherent and residual risk level.
// ReducedUnits counts units whose residual risk is below their inherent risk.
func SummarizeAssessments(assessments []*model.Assessment) *AssessmentSummary {
	summary := &AssessmentSummary{
		ByInherentRisk:          map[types.RiskLevel]int{},
		ByResidualRisk:          map[types.RiskLevel]int{},
		ControlsByEffectiveness: map[types.ControlEffectiveness]int{},
	}

	for _, a := range assessments {
		summary.Units++
		summary.Controls += len(a.Controls)
		summary.ByInherentRisk[a.InherentRisk]++
		summary.ByResidualRisk[a.ResidualRisk]++
		if a.ResidualRisk.Score() < a.InherentRisk.Score() {
			summary.ReducedUnits++
		}
		for _, c := range a.Controls {
			if c.Effectiveness != "" {
				summary.ControlsByEffectiveness[c.Effectiveness]++
			}
		}
	}

	return summary
}
