package types

import "fmt"

// Approach selects which residual risk matrix variant is applied.
type Approach string

const (
	ApproachSimple   Approach = "Simple"
	ApproachWeighted Approach = "Weighted"
)

// AllApproaches returns all supported approaches.
func AllApproaches() []Approach {
	return []Approach{
		ApproachSimple,
		ApproachWeighted,
	}
}

// IsValid checks if the approach is supported.
func (a Approach) IsValid() bool {
	switch a {
	case ApproachSimple,
		ApproachWeighted:
		return true
	default:
		return false
	}
}

// String returns the string representation of the approach.
func (a Approach) String() string {
	return string(a)
}

// ParseApproach parses a string into an Approach.
func ParseApproach(s string) (Approach, error) {
	a := Approach(s)
	if !a.IsValid() {
		return "", fmt.Errorf("invalid approach: %s", s)
	}
	return a, nil
}
