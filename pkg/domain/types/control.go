package types

import "fmt"

// ControlEffectiveness describes how reliably a control prevents or detects an issue.
type ControlEffectiveness string

const (
	ControlEffective          ControlEffectiveness = "Effective"
	ControlPartiallyEffective ControlEffectiveness = "Partially Effective"
	ControlIneffective        ControlEffectiveness = "Ineffective"
)

// AllControlEffectiveness returns all valid effectiveness levels, strongest first.
func AllControlEffectiveness() []ControlEffectiveness {
	return []ControlEffectiveness{
		ControlEffective,
		ControlPartiallyEffective,
		ControlIneffective,
	}
}

// IsValid checks if the control effectiveness is valid.
func (e ControlEffectiveness) IsValid() bool {
	switch e {
	case ControlEffective,
		ControlPartiallyEffective,
		ControlIneffective:
		return true
	default:
		return false
	}
}

// Strength returns 3 for Effective, 2 for Partially Effective, 1 for Ineffective
// and 0 when the value is empty or unknown.
func (e ControlEffectiveness) Strength() int {
	switch e {
	case ControlEffective:
		return 3
	case ControlPartiallyEffective:
		return 2
	case ControlIneffective:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the control effectiveness.
func (e ControlEffectiveness) String() string {
	return string(e)
}

// ParseControlEffectiveness parses a string into a ControlEffectiveness.
func ParseControlEffectiveness(s string) (ControlEffectiveness, error) {
	e := ControlEffectiveness(s)
	if !e.IsValid() {
		return "", fmt.Errorf("invalid control effectiveness: %s", s)
	}
	return e, nil
}

// ControlType classifies what a control does.
type ControlType string

const (
	ControlTypePreventative ControlType = "Preventative"
	ControlTypeDetective    ControlType = "Detective"
	ControlTypeCorrective   ControlType = "Corrective"
)

// IsValid checks if the control type is valid. Empty is accepted as "not specified".
func (t ControlType) IsValid() bool {
	switch t {
	case "",
		ControlTypePreventative,
		ControlTypeDetective,
		ControlTypeCorrective:
		return true
	default:
		return false
	}
}

// String returns the string representation of the control type.
func (t ControlType) String() string {
	return string(t)
}
