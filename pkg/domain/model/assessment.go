package model

import (
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Assessment is the latest inherent risk and control assessment of a business unit.
type Assessment struct {
	UnitName             string                     `json:"unit_name" yaml:"unit_name"`
	InherentRisk         types.RiskLevel            `json:"inherent_risk" yaml:"inherent_risk"`
	Controls             []Control                  `json:"controls" yaml:"controls"`
	ControlEffectiveness types.ControlEffectiveness `json:"control_effectiveness,omitempty" yaml:"control_effectiveness,omitempty"`
	ResidualRisk         types.RiskLevel            `json:"residual_risk" yaml:"residual_risk"`
	CreatedAt            time.Time                  `json:"created_at" yaml:"created_at"`
	UpdatedAt            time.Time                  `json:"updated_at" yaml:"updated_at"`
}

// EffectiveControlEffectiveness returns the effectiveness used to evaluate
// residual risk. A declared value wins; otherwise the weakest effectiveness
// among the controls is used, and Ineffective when none is declared.
func (a *Assessment) EffectiveControlEffectiveness() types.ControlEffectiveness {
	return DeriveEffectiveness(a.ControlEffectiveness, a.Controls)
}

// DeriveEffectiveness resolves an optional effectiveness against the controls.
func DeriveEffectiveness(declared types.ControlEffectiveness, controls []Control) types.ControlEffectiveness {
	if declared != "" {
		return declared
	}
	if weakest := WeakestEffectiveness(controls); weakest != "" {
		return weakest
	}
	return types.ControlIneffective
}

// Copy returns a deep copy of the assessment.
func (a *Assessment) Copy() *Assessment {
	if a == nil {
		return nil
	}
	c := *a
	c.Controls = make([]Control, len(a.Controls))
	copy(c.Controls, a.Controls)
	return &c
}

// ControlNames returns the descriptions of all controls in order.
func (a *Assessment) ControlNames() []string {
	names := make([]string, len(a.Controls))
	for i, c := range a.Controls {
		names[i] = c.Description
	}
	return names
}
