package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

type matrixKey struct {
	inherent      types.RiskLevel
	effectiveness types.ControlEffectiveness
}

type residualMatrix map[matrixKey]types.RiskLevel

var simpleMatrix = residualMatrix{
	{types.RiskLevelHigh, types.ControlEffective}:            types.RiskLevelLow,
	{types.RiskLevelHigh, types.ControlPartiallyEffective}:   types.RiskLevelMedium,
	{types.RiskLevelHigh, types.ControlIneffective}:          types.RiskLevelHigh,
	{types.RiskLevelMedium, types.ControlEffective}:          types.RiskLevelLow,
	{types.RiskLevelMedium, types.ControlPartiallyEffective}: types.RiskLevelMedium,
	{types.RiskLevelMedium, types.ControlIneffective}:        types.RiskLevelMedium,
	{types.RiskLevelLow, types.ControlEffective}:             types.RiskLevelLow,
	{types.RiskLevelLow, types.ControlPartiallyEffective}:    types.RiskLevelLow,
	{types.RiskLevelLow, types.ControlIneffective}:           types.RiskLevelLow,
}

// Weighted currently agrees with Simple cell for cell
var weightedMatrix = residualMatrix{
	{types.RiskLevelHigh, types.ControlEffective}:            types.RiskLevelLow,
	{types.RiskLevelHigh, types.ControlPartiallyEffective}:   types.RiskLevelMedium,
	{types.RiskLevelHigh, types.ControlIneffective}:          types.RiskLevelHigh,
	{types.RiskLevelMedium, types.ControlEffective}:          types.RiskLevelLow,
	{types.RiskLevelMedium, types.ControlPartiallyEffective}: types.RiskLevelMedium,
	{types.RiskLevelMedium, types.ControlIneffective}:        types.RiskLevelMedium,
	{types.RiskLevelLow, types.ControlEffective}:             types.RiskLevelLow,
	{types.RiskLevelLow, types.ControlPartiallyEffective}:    types.RiskLevelLow,
	{types.RiskLevelLow, types.ControlIneffective}:           types.RiskLevelLow,
}

func matrixFor(approach types.Approach) (residualMatrix, error) {
	switch approach {
	case types.ApproachSimple:
		return simpleMatrix, nil
	case types.ApproachWeighted:
		return weightedMatrix, nil
	default:
		return nil, goerr.Wrap(ErrInvalidApproach, "unsupported approach",
			goerr.V(ApproachKey, approach))
	}
}

// ResidualRisk looks up the residual risk level for an inherent risk and a
// control effectiveness under the given approach.
func ResidualRisk(inherent types.RiskLevel, effectiveness types.ControlEffectiveness, approach types.Approach) (types.RiskLevel, error) {
	m, err := matrixFor(approach)
	if err != nil {
		return "", err
	}
	if !inherent.IsValid() {
		return "", goerr.Wrap(ErrInvalidArgument, "invalid inherent risk",
			goerr.V(ArgumentKey, "inherent_risk"),
			goerr.V(ValueKey, inherent))
	}
	if !effectiveness.IsValid() {
		return "", goerr.Wrap(ErrInvalidArgument, "invalid control effectiveness",
			goerr.V(ArgumentKey, "control_effectiveness"),
			goerr.V(ValueKey, effectiveness))
	}

	level, ok := m[matrixKey{inherent, effectiveness}]
	if !ok {
		// every approach enumerates all nine cells
		panic("residual risk matrix is incomplete for " + approach.String())
	}
	return level, nil
}

// MatrixGrid is a heatmap friendly view of a residual risk matrix.
type MatrixGrid struct {
	Approach types.Approach               `json:"approach" yaml:"approach"`
	Rows     []types.RiskLevel            `json:"rows" yaml:"rows"`
	Columns  []types.ControlEffectiveness `json:"columns" yaml:"columns"`
	Cells    [][]types.RiskLevel          `json:"cells" yaml:"cells"`
	Scores   [][]int                      `json:"scores" yaml:"scores"`
}

// Grid lays the matrix of an approach out with inherent risk rows from High to
// Low and effectiveness columns from Ineffective to Effective.
func Grid(approach types.Approach) (*MatrixGrid, error) {
	m, err := matrixFor(approach)
	if err != nil {
		return nil, err
	}

	rows := types.AllRiskLevels()
	cols := []types.ControlEffectiveness{
		types.ControlIneffective,
		types.ControlPartiallyEffective,
		types.ControlEffective,
	}

	grid := &MatrixGrid{
		Approach: approach,
		Rows:     rows,
		Columns:  cols,
		Cells:    make([][]types.RiskLevel, len(rows)),
		Scores:   make([][]int, len(rows)),
	}
	for i, r := range rows {
		grid.Cells[i] = make([]types.RiskLevel, len(cols))
		grid.Scores[i] = make([]int, len(cols))
		for j, c := range cols {
			level := m[matrixKey{r, c}]
			grid.Cells[i][j] = level
			grid.Scores[i][j] = level.Score()
		}
	}
	return grid, nil
}
