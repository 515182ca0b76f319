package types

import "fmt"

// LossDistributionKind names the random distribution used for loss amounts.
type LossDistributionKind string

const (
	LossDistributionNormal    LossDistributionKind = "normal"
	LossDistributionLogNormal LossDistributionKind = "lognormal"
	LossDistributionUniform   LossDistributionKind = "uniform"
)

// IsValid checks if the distribution kind is supported.
func (k LossDistributionKind) IsValid() bool {
	switch k {
	case LossDistributionNormal,
		LossDistributionLogNormal,
		LossDistributionUniform:
		return true
	default:
		return false
	}
}

// String returns the string representation of the distribution kind.
func (k LossDistributionKind) String() string {
	return string(k)
}

// ParseLossDistributionKind parses a string into a LossDistributionKind.
func ParseLossDistributionKind(s string) (LossDistributionKind, error) {
	k := LossDistributionKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid loss distribution: %s", s)
	}
	return k, nil
}

// Granularity is the resolution of generated event timestamps.
type Granularity string

const (
	GranularityDay    Granularity = "day"
	GranularitySecond Granularity = "second"
)

// IsValid checks if the granularity is supported.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularitySecond:
		return true
	default:
		return false
	}
}

// Normalize returns the granularity, treating empty as GranularityDay.
func (g Granularity) Normalize() Granularity {
	if g == "" {
		return GranularityDay
	}
	return g
}

// String returns the string representation of the granularity.
func (g Granularity) String() string {
	return string(g)
}

// BaselEventType is a Basel II level-1 operational loss event category.
type BaselEventType string

const (
	BaselInternalFraud          BaselEventType = "Internal Fraud"
	BaselExternalFraud          BaselEventType = "External Fraud"
	BaselEmploymentPractices    BaselEventType = "Employment Practices and Workplace Safety"
	BaselClientsProducts        BaselEventType = "Clients, Products & Business Practices"
	BaselDamageToPhysicalAssets BaselEventType = "Damage to Physical Assets"
	BaselBusinessDisruption     BaselEventType = "Business Disruption and System Failures"
	BaselExecutionDelivery      BaselEventType = "Execution, Delivery & Process Management"
)

// AllBaselEventTypes returns the Basel II level-1 taxonomy in its canonical order.
func AllBaselEventTypes() []BaselEventType {
	return []BaselEventType{
		BaselInternalFraud,
		BaselExternalFraud,
		BaselEmploymentPractices,
		BaselClientsProducts,
		BaselDamageToPhysicalAssets,
		BaselBusinessDisruption,
		BaselExecutionDelivery,
	}
}

// BaselEventTypeNames returns the taxonomy as plain strings.
func BaselEventTypeNames() []string {
	all := AllBaselEventTypes()
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = string(t)
	}
	return names
}
