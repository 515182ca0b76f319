package types

import "fmt"

// RiskLevel is a qualitative risk rating. It is used both for inherent risk
// (before controls) and residual risk (after controls).
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "High"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelLow    RiskLevel = "Low"
)

// AllRiskLevels returns all valid risk levels, highest first.
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelHigh,
		RiskLevelMedium,
		RiskLevelLow,
	}
}

// IsValid checks if the risk level is valid.
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelHigh,
		RiskLevelMedium,
		RiskLevelLow:
		return true
	default:
		return false
	}
}

// Score returns 3 for High, 2 for Medium, 1 for Low and 0 for anything else.
func (l RiskLevel) Score() int {
	switch l {
	case RiskLevelHigh:
		return 3
	case RiskLevelMedium:
		return 2
	case RiskLevelLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the risk level.
func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(s)
	if !level.IsValid() {
		return "", fmt.Errorf("invalid risk level: %s", s)
	}
	return level, nil
}
