package model_test

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
)

func TestResidualRisk(t *testing.T) {
	tests := []struct {
		inherent      types.RiskLevel
		effectiveness types.ControlEffectiveness
		want          types.RiskLevel
	}{
		{types.RiskLevelHigh, types.ControlEffective, types.RiskLevelLow},
		{types.RiskLevelHigh, types.ControlPartiallyEffective, types.RiskLevelMedium},
		{types.RiskLevelHigh, types.ControlIneffective, types.RiskLevelHigh},
		{types.RiskLevelMedium, types.ControlEffective, types.RiskLevelLow},
		{types.RiskLevelMedium, types.ControlPartiallyEffective, types.RiskLevelMedium},
		{types.RiskLevelMedium, types.ControlIneffective, types.RiskLevelMedium},
		{types.RiskLevelLow, types.ControlEffective, types.RiskLevelLow},
		{types.RiskLevelLow, types.ControlPartiallyEffective, types.RiskLevelLow},
		{types.RiskLevelLow, types.ControlIneffective, types.RiskLevelLow},
	}

	for _, approach := range types.AllApproaches() {
		for _, tt := range tests {
			t.Run(approach.String()+"/"+tt.inherent.String()+"/"+tt.effectiveness.String(), func(t *testing.T) {
				got, err := model.ResidualRisk(tt.inherent, tt.effectiveness, approach)
				gt.NoError(t, err).Required()
				gt.Value(t, got).Equal(tt.want)
			})
		}
	}
}

func TestResidualRisk_InvalidApproach(t *testing.T) {
	_, err := model.ResidualRisk(types.RiskLevelHigh, types.ControlEffective, types.Approach("Bogus"))
	gt.Error(t, err).Is(model.ErrInvalidApproach)
	gt.Bool(t, errors.Is(err, model.ErrUsage)).True()
}

func TestResidualRisk_InvalidArgument(t *testing.T) {
	t.Run("inherent risk", func(t *testing.T) {
		_, err := model.ResidualRisk(types.RiskLevel("Critical"), types.ControlEffective, types.ApproachSimple)
		gt.Error(t, err).Is(model.ErrInvalidArgument)
		gt.Bool(t, errors.Is(err, model.ErrUsage)).True()
	})

	t.Run("effectiveness", func(t *testing.T) {
		_, err := model.ResidualRisk(types.RiskLevelHigh, types.ControlEffectiveness("Sometimes"), types.ApproachSimple)
		gt.Error(t, err).Is(model.ErrInvalidArgument)
	})

	t.Run("approach is checked first", func(t *testing.T) {
		_, err := model.ResidualRisk(types.RiskLevel("Critical"), types.ControlEffective, types.Approach(""))
		gt.Error(t, err).Is(model.ErrInvalidApproach)
	})
}

func TestResidualRisk_NeverExceedsInherent(t *testing.T) {
	levels := types.AllRiskLevels()
	effs := types.AllControlEffectiveness()
	approaches := types.AllApproaches()

	properties := gopter.NewProperties(gopter.DefaultTestParameters())
	properties.Property("residual risk is defined and not above inherent risk", prop.ForAll(
		func(i, j, k int) bool {
			got, err := model.ResidualRisk(levels[i], effs[j], approaches[k])
			if err != nil {
				return false
			}
			return got.IsValid() && got.Score() <= levels[i].Score()
		},
		gen.IntRange(0, len(levels)-1),
		gen.IntRange(0, len(effs)-1),
		gen.IntRange(0, len(approaches)-1),
	))
	properties.TestingRun(t)
}

func TestGrid(t *testing.T) {
	grid, err := model.Grid(types.ApproachSimple)
	gt.NoError(t, err).Required()

	gt.Array(t, grid.Rows).Length(3)
	gt.Array(t, grid.Columns).Length(3)
	gt.Value(t, grid.Rows[0]).Equal(types.RiskLevelHigh)
	gt.Value(t, grid.Rows[2]).Equal(types.RiskLevelLow)
	gt.Value(t, grid.Columns[0]).Equal(types.ControlIneffective)
	gt.Value(t, grid.Columns[2]).Equal(types.ControlEffective)

	for i, inherent := range grid.Rows {
		for j, eff := range grid.Columns {
			want, err := model.ResidualRisk(inherent, eff, types.ApproachSimple)
			gt.NoError(t, err).Required()
			gt.Value(t, grid.Cells[i][j]).Equal(want)
			gt.Value(t, grid.Scores[i][j]).Equal(want.Score())
		}
	}

	// High inherent with ineffective controls stays High
	gt.Value(t, grid.Cells[0][0]).Equal(types.RiskLevelHigh)
	gt.Value(t, grid.Scores[0][0]).Equal(3)

	_, err = model.Grid(types.Approach("Bogus"))
	gt.Error(t, err).Is(model.ErrInvalidApproach)
}
