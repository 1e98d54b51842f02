package maybenot

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DistKind tags which probability distribution a Distribution samples from.
type DistKind int

const (
	// DistUniform samples uniformly from [Param1, Param2).
	DistUniform DistKind = iota
	// DistNormal samples from Normal(mean=Param1, stddev=Param2).
	DistNormal
	// DistSkewNormal samples from a skew-normal with scale=Param1,
	// shape=Param2 (location fixed at 0; Start/Max do the shifting).
	DistSkewNormal
	// DistLogNormal samples from LogNormal(mu=Param1, sigma=Param2).
	DistLogNormal
	// DistBinomial samples from Binomial(n=Param1, p=Param2).
	DistBinomial
	// DistGeometric samples from Geometric(p=Param1), number of failures
	// before the first success.
	DistGeometric
	// DistPareto samples from Pareto(scale=Param1, shape=Param2).
	DistPareto
	// DistPoisson samples from Poisson(lambda=Param1).
	DistPoisson
	// DistWeibull samples from Weibull(shape=Param1, scale=Param2).
	DistWeibull
	// DistGamma samples from Gamma(shape=Param1, rate=Param2).
	DistGamma
	// DistBeta samples from Beta(alpha=Param1, beta=Param2).
	DistBeta
)

// String renders the distribution kind for diagnostics.
func (k DistKind) String() string {
	switch k {
	case DistUniform:
		return "Uniform"
	case DistNormal:
		return "Normal"
	case DistSkewNormal:
		return "SkewNormal"
	case DistLogNormal:
		return "LogNormal"
	case DistBinomial:
		return "Binomial"
	case DistGeometric:
		return "Geometric"
	case DistPareto:
		return "Pareto"
	case DistPoisson:
		return "Poisson"
	case DistWeibull:
		return "Weibull"
	case DistGamma:
		return "Gamma"
	case DistBeta:
		return "Beta"
	default:
		return "DistKind(?)"
	}
}

// maxPoissonLambda bounds Poisson's rate parameter to a ceiling that keeps
// gonum's sampler from looping or overflowing on pathological inputs.
const maxPoissonLambda = 1e7

// Distribution is a tagged, parameterized probability distribution (§3). A
// zero Distribution (DistUniform with Param1==Param2==Start==Max==0) is
// invalid; always construct one through NewDistribution.
type Distribution struct {
	Kind   DistKind
	Param1 float64
	Param2 float64
	Start  float64
	Max    float64
}

// NewDistribution validates and returns a Distribution. Construction is the
// only place parameters are checked (§4.1); Sample never fails.
func NewDistribution(kind DistKind, param1, param2, start, max float64) (Distribution, error) {
	d := Distribution{Kind: kind, Param1: param1, Param2: param2, Start: start, Max: max}
	if err := d.validate(); err != nil {
		return Distribution{}, err
	}
	return d, nil
}

// validate checks the clamp range and kind-specific parameter constraints.
func (d *Distribution) validate() error {
	if !isFinite(d.Start) || !isFinite(d.Max) {
		return &InvalidDistributionError{Kind: d.Kind, Reason: "start/max must be finite"}
	}
	if d.Start < 0 {
		return &InvalidDistributionError{Kind: d.Kind, Reason: "start must be nonnegative"}
	}
	if d.Start > d.Max {
		return &InvalidDistributionError{Kind: d.Kind, Reason: "start must be <= max"}
	}
	if !isFinite(d.Param1) || !isFinite(d.Param2) {
		return &InvalidDistributionError{Kind: d.Kind, Reason: "parameters must be finite"}
	}

	switch d.Kind {
	case DistUniform:
		if d.Param1 >= d.Param2 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "low must be < high"}
		}
	case DistNormal:
		if d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "stddev must be > 0"}
		}
	case DistSkewNormal:
		if d.Param1 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "scale must be > 0"}
		}
	case DistLogNormal:
		if d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "sigma must be > 0"}
		}
	case DistBinomial:
		if d.Param1 < 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "n must be >= 0"}
		}
		if d.Param2 < 0 || d.Param2 > 1 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "p must be in [0,1]"}
		}
	case DistGeometric:
		if d.Param1 <= 0 || d.Param1 > 1 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "p must be in (0,1]"}
		}
	case DistPareto:
		if d.Param1 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "scale must be > 0"}
		}
		if d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "shape must be > 0"}
		}
	case DistPoisson:
		if d.Param1 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "lambda must be > 0"}
		}
		if d.Param1 > maxPoissonLambda {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "lambda exceeds safe ceiling"}
		}
	case DistWeibull:
		if d.Param1 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "shape (k) must be > 0"}
		}
		if d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "scale (lambda) must be > 0"}
		}
	case DistGamma:
		if d.Param1 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "shape (alpha) must be > 0"}
		}
		if d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "rate (beta) must be > 0"}
		}
	case DistBeta:
		if d.Param1 <= 0 || d.Param2 <= 0 {
			return &InvalidDistributionError{Kind: d.Kind, Reason: "alpha and beta must be > 0"}
		}
	default:
		return &InvalidDistributionError{Kind: d.Kind, Reason: "unknown distribution kind"}
	}
	return nil
}

// isFinite reports whether f is neither NaN nor +/-Inf.
func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// clamp restricts v to [start, max], replacing a non-finite raw sample with
// start so a pathological library result can never escape the contract.
func clamp(v, start, max float64) float64 {
	if !isFinite(v) {
		return start
	}
	if v < start {
		return start
	}
	if v > max {
		return max
	}
	return v
}

// Sample draws a value from the distribution via rng, then clamps it to
// [Start, Max] (§4.1). Sample never fails: every parameter was validated at
// construction, and clamp absorbs any residual numerical pathology.
func Sample(d Distribution, rng RNG) float64 {
	raw := sampleRaw(d, rng)
	return clamp(raw, d.Start, d.Max)
}

// sampleRaw draws the kind-specific, unclamped value.
func sampleRaw(d Distribution, rng RNG) float64 {
	switch d.Kind {
	case DistUniform:
		low, high := d.Param1, d.Param2
		return low + rng.Float64()*(high-low)
	case DistNormal:
		n := distuv.Normal{Mu: d.Param1, Sigma: d.Param2, Src: asRand(rng)}
		return n.Rand()
	case DistSkewNormal:
		return sampleSkewNormal(d.Param1, d.Param2, rng)
	case DistLogNormal:
		ln := distuv.LogNormal{Mu: d.Param1, Sigma: d.Param2, Src: asRand(rng)}
		return ln.Rand()
	case DistBinomial:
		b := distuv.Binomial{N: d.Param1, P: d.Param2, Src: asRand(rng)}
		return b.Rand()
	case DistGeometric:
		return sampleGeometric(d.Param1, rng)
	case DistPareto:
		p := distuv.Pareto{Xm: d.Param1, Alpha: d.Param2, Src: asRand(rng)}
		return p.Rand()
	case DistPoisson:
		p := distuv.Poisson{Lambda: d.Param1, Src: asRand(rng)}
		return p.Rand()
	case DistWeibull:
		w := distuv.Weibull{K: d.Param1, Lambda: d.Param2, Src: asRand(rng)}
		return w.Rand()
	case DistGamma:
		g := distuv.Gamma{Alpha: d.Param1, Beta: d.Param2, Src: asRand(rng)}
		return g.Rand()
	case DistBeta:
		b := distuv.Beta{Alpha: d.Param1, Beta: d.Param2, Src: asRand(rng)}
		return b.Rand()
	default:
		return 0
	}
}

// sampleSkewNormal draws from Azzalini's skew-normal construction: two
// independent standard normals combined via a shape-derived correlation.
// gonum's distuv has no SkewNormal type, so this builds one from
// distuv.Normal the way the rest of this file builds every other kind from
// a gonum primitive (see DESIGN.md).
func sampleSkewNormal(scale, shape float64, rng RNG) float64 {
	std := distuv.Normal{Mu: 0, Sigma: 1, Src: asRand(rng)}
	u0 := std.Rand()
	v := std.Rand()
	delta := shape / math.Sqrt(1+shape*shape)
	u1 := delta*u0 + math.Sqrt(1-delta*delta)*v
	z := u1
	if u0 < 0 {
		z = -u1
	}
	return scale * z
}

// sampleGeometric draws the number of failures before the first success of
// a Bernoulli(p) trial, via inverse-CDF sampling. gonum's distuv has no
// Geometric type; the inverse CDF of a geometric distribution is a single
// closed-form log, so no sampler rejection loop is needed (see DESIGN.md).
func sampleGeometric(p float64, rng RNG) float64 {
	u := rng.Float64()
	if p >= 1 {
		return 0
	}
	return math.Floor(math.Log(1-u) / math.Log(1-p))
}
