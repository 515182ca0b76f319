package simulation

import (
	"math"
	"math/rand/v2"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/oprisk/pkg/domain/model"
	"github.com/secmon-lab/oprisk/pkg/domain/types"
	"gonum.org/v1/gonum/stat/distuv"
)

type sampler interface {
	Rand() float64
}

// Validate checks the parameters of the distribution.
func (d LossDistribution) Validate() error {
	switch d.Kind {
	case types.LossDistributionNormal:
		if d.StdDev < 0 {
			return goerr.Wrap(model.ErrInvalidArgument, "stddev must not be negative",
				goerr.V(model.ArgumentKey, "stddev"), goerr.V(model.ValueKey, d.StdDev))
		}
	case types.LossDistributionLogNormal:
		if d.Mean <= 0 {
			return goerr.Wrap(model.ErrInvalidArgument, "lognormal mean must be positive",
				goerr.V(model.ArgumentKey, "mean"), goerr.V(model.ValueKey, d.Mean))
		}
		if d.StdDev < 0 {
			return goerr.Wrap(model.ErrInvalidArgument, "stddev must not be negative",
				goerr.V(model.ArgumentKey, "stddev"), goerr.V(model.ValueKey, d.StdDev))
		}
	case types.LossDistributionUniform:
		if d.Min < 0 || d.Max < d.Min {
			return goerr.Wrap(model.ErrInvalidArgument, "uniform bounds must satisfy 0 <= min <= max",
				goerr.V(model.ArgumentKey, "min"),
				goerr.V("min", d.Min),
				goerr.V("max", d.Max))
		}
	default:
		return goerr.Wrap(model.ErrInvalidArgument, "unknown loss distribution",
			goerr.V(model.ArgumentKey, "distribution"), goerr.V(model.ValueKey, d.Kind))
	}
	return nil
}

func (d LossDistribution) sampler(src rand.Source) sampler {
	switch d.Kind {
	case types.LossDistributionLogNormal:
		// convert the mean and deviation of the loss to the underlying normal
		sigma2 := math.Log(1 + (d.StdDev*d.StdDev)/(d.Mean*d.Mean))
		return distuv.LogNormal{
			Mu:    math.Log(d.Mean) - sigma2/2,
			Sigma: math.Sqrt(sigma2),
			Src:   src,
		}
	case types.LossDistributionUniform:
		return distuv.Uniform{Min: d.Min, Max: d.Max, Src: src}
	default:
		return distuv.Normal{Mu: d.Mean, Sigma: d.StdDev, Src: src}
	}
}

// draw returns a non-negative loss amount.
func draw(s sampler) float64 {
	v := s.Rand()
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
