package simulation

import (
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Default candidate sets substituted for empty inputs
var (
	DefaultBusinessUnits  = []string{"BU1", "BU2", "BU3"}
	DefaultRiskCategories = []string{"RC1", "RC2", "RC3"}
	DefaultBreachTypes    = []string{"Type1", "Type2", "Type3"}
)

const (
	// UnknownBreachType is the sentinel label added by WithUnknownBreach.
	UnknownBreachType = "Unknown"

	// NearMissProbability is the chance of a row being flagged as near miss.
	NearMissProbability = 0.10

	// DefaultMaxEvents bounds the count of a single generation.
	DefaultMaxEvents = 1_000_000

	minRecoveryDays = 1
	maxRecoveryDays = 29
)

// Input is the request of a generation.
type Input struct {
	Count          int
	Start          time.Time
	End            time.Time
	BusinessUnits  []string
	RiskCategories []string
}

// LossDistribution configures the loss amount random variable. Mean and StdDev
// apply to normal and lognormal (as the mean and deviation of the loss itself),
// Min and Max to uniform.
type LossDistribution struct {
	Kind   types.LossDistributionKind `toml:"distribution"`
	Mean   float64                    `toml:"mean"`
	StdDev float64                    `toml:"stddev"`
	Min    float64                    `toml:"min"`
	Max    float64                    `toml:"max"`
}

// DefaultLossDistribution is normal with mean 10000 and deviation 5000.
func DefaultLossDistribution() LossDistribution {
	return LossDistribution{
		Kind:   types.LossDistributionNormal,
		Mean:   10000,
		StdDev: 5000,
		Min:    0,
		Max:    20000,
	}
}
