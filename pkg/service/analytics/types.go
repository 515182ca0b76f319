package analytics

import (
	"time"

	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

// Summary is the loss summary of an event table.
type Summary struct {
	TotalLossAmount          float64            `json:"total_loss_amount" yaml:"total_loss_amount"`
	AverageLossAmount        float64            `json:"average_loss_amount" yaml:"average_loss_amount"`
	EventCountPerType        map[string]int     `json:"event_count_per_type" yaml:"event_count_per_type"`
	AverageLossAmountPerType map[string]float64 `json:"average_loss_amount_per_type" yaml:"average_loss_amount_per_type"`
}

// GroupTotal is the total loss of one group, used for bar charts.
type GroupTotal struct {
	Key       string  `json:"key" yaml:"key"`
	Count     int     `json:"count" yaml:"count"`
	TotalLoss float64 `json:"total_loss" yaml:"total_loss"`
}

// TrendPoint is the total loss of one day in one series.
type TrendPoint struct {
	Date      time.Time `json:"date" yaml:"date"`
	TotalLoss float64   `json:"total_loss" yaml:"total_loss"`
}

// Trend is loss over time, one series per category value.
type Trend struct {
	Series map[string][]TrendPoint `json:"series" yaml:"series"`
}

// Point is a single (x, y) pair of a scatter chart.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Relationship is scatter chart data with a least squares fit.
type Relationship struct {
	Points      []Point `json:"points" yaml:"points"`
	Correlation float64 `json:"correlation" yaml:"correlation"`
	Slope       float64 `json:"slope" yaml:"slope"`
	Intercept   float64 `json:"intercept" yaml:"intercept"`
}

// Stats are descriptive statistics of a numeric column.
type Stats struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev"`
	Min    float64 `json:"min" yaml:"min"`
	Median float64 `json:"median" yaml:"median"`
	P95    float64 `json:"p95" yaml:"p95"`
	Max    float64 `json:"max" yaml:"max"`
}

// AssessmentSummary counts stored assessments by level.
type AssessmentSummary struct {
	Units                   int                                `json:"units" yaml:"units"`
	Controls                int                                `json:"controls" yaml:"controls"`
	ByInherentRisk          map[types.RiskLevel]int            `json:"by_inherent_risk" yaml:"by_inherent_risk"`
	ByResidualRisk          map[types.RiskLevel]int            `json:"by_residual_risk" yaml:"by_residual_risk"`
	ReducedUnits            int                                `json:"reduced_units" yaml:"reduced_units"`
	ControlsByEffectiveness map[types.ControlEffectiveness]int `json:"controls_by_effectiveness" yaml:"controls_by_effectiveness"`
}
