package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/oprisk/pkg/domain/interfaces"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"github.com/secmon-lab/oprisk/pkg/repository/memory"
)

func runAssessmentRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put stores a new assessment with timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		stored, err := repo.Assessment().Put(ctx, &model.Assessment{
			UnitName:             "Retail Banking",
			InherentRisk:         types.RiskLevelHigh,
			Controls:             []model.Control{{Description: "Dual approval"}},
			ControlEffectiveness: types.ControlEffective,
			ResidualRisk:         types.RiskLevelLow,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, stored.UnitName).Equal("Retail Banking")
		gt.Bool(t, stored.CreatedAt.IsZero()).False()
		gt.Bool(t, stored.UpdatedAt.IsZero()).False()
	})

	t.Run("Get round trips the stored fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		input := &model.Assessment{
			UnitName:     "Treasury",
			InherentRisk: types.RiskLevelMedium,
			Controls: []model.Control{
				{Description: "Reconciliation", Type: types.ControlTypeDetective, Effectiveness: types.ControlPartiallyEffective},
				{Description: "Limits"},
			},
			ControlEffectiveness: types.ControlPartiallyEffective,
			ResidualRisk:         types.RiskLevelMedium,
		}
		_, err := repo.Assessment().Put(ctx, input)
		gt.NoError(t, err).Required()

		got, err := repo.Assessment().Get(ctx, "Treasury")
		gt.NoError(t, err).Required()
		gt.Value(t, got.InherentRisk).Equal(input.InherentRisk)
		gt.Value(t, got.Controls).Equal(input.Controls)
		gt.Value(t, got.ControlEffectiveness).Equal(input.ControlEffectiveness)
		gt.Value(t, got.ResidualRisk).Equal(input.ResidualRisk)
	})

	t.Run("Put overwrites by unit name and keeps CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first, err := repo.Assessment().Put(ctx, &model.Assessment{
			UnitName:     "Payments",
			InherentRisk: types.RiskLevelLow,
			ResidualRisk: types.RiskLevelLow,
		})
		gt.NoError(t, err).Required()

		time.Sleep(time.Millisecond)

		second, err := repo.Assessment().Put(ctx, &model.Assessment{
			UnitName:     "Payments",
			InherentRisk: types.RiskLevelHigh,
			ResidualRisk: types.RiskLevelHigh,
		})
		gt.NoError(t, err).Required()
		gt.Value(t, second.CreatedAt).Equal(first.CreatedAt)
		gt.Bool(t, second.UpdatedAt.After(first.UpdatedAt)).True()

		list, err := repo.Assessment().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
		gt.Value(t, list[0].InherentRisk).Equal(types.RiskLevelHigh)

		n, err := repo.Assessment().Count(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(1)
	})

	t.Run("List keeps first insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, name := range []string{"C", "A", "B", "A"} {
			_, err := repo.Assessment().Put(ctx, &model.Assessment{
				UnitName:     name,
				InherentRisk: types.RiskLevelLow,
				ResidualRisk: types.RiskLevelLow,
			})
			gt.NoError(t, err).Required()
		}

		list, err := repo.Assessment().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(3)
		gt.Value(t, list[0].UnitName).Equal("C")
		gt.Value(t, list[1].UnitName).Equal("A")
		gt.Value(t, list[2].UnitName).Equal("B")
	})

	t.Run("Get returns copies", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Assessment().Put(ctx, &model.Assessment{
			UnitName: "Ops",
			Controls: []model.Control{{Description: "Original"}},
		})
		gt.NoError(t, err).Required()

		got, err := repo.Assessment().Get(ctx, "Ops")
		gt.NoError(t, err).Required()
		got.Controls[0].Description = "Mutated"

		again, err := repo.Assessment().Get(ctx, "Ops")
		gt.NoError(t, err).Required()
		gt.Value(t, again.Controls[0].Description).Equal("Original")
	})

	t.Run("Get of unknown unit fails", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Assessment().Get(context.Background(), "missing")
		gt.Bool(t, errors.Is(err, memory.ErrNotFound)).True()
	})

	t.Run("Put without unit name fails", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Assessment().Put(context.Background(), &model.Assessment{})
		gt.Error(t, err).Is(model.ErrInvalidArgument)

		n, err := repo.Assessment().Count(context.Background())
		gt.NoError(t, err).Required()
		gt.Number(t, n).Equal(0)
	})

	t.Run("concurrent puts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = repo.Assessment().Put(ctx, &model.Assessment{
					UnitName:     "Shared",
					InherentRisk: types.RiskLevelMedium,
				})
			}()
		}
		wg.Wait()

		list, err := repo.Assessment().List(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, list).Length(1)
	})
}

func TestMemoryAssessmentRepository(t *testing.T) {
	runAssessmentRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}
