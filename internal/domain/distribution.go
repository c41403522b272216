package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownModel reports a fragility model the evaluator does not recognize.
// Callers log it and keep the zero-series fallback; it never aborts a
// traversal.
var ErrUnknownModel = errors.New("unknown fragility model")

// logEpsilon guards ln(0) for the lognormal family.
const logEpsilon = 1e-9

// EvaluateDistribution maps a climate intensity series to a probability of
// failure series under the named fragility model. It is total on numeric
// input: malformed parameters produce clamped zeros rather than NaN, an
// unknown model returns a zero series alongside [ErrUnknownModel], and an
// empty input yields an empty output. Every returned value is in [0,1].
func EvaluateDistribution(model string, params map[string]float64, xs []float64) (Series, error) {
	out := make(Series, len(xs))

	switch model {
	case ModelLognormal:
		mu, hasMu := params["mu"]
		sigma, hasSigma := params["sigma"]
		if !hasMu || !hasSigma {
			median := paramOr(params, "median", 100.0)
			dispersion := paramOr(params, "dispersion", 0.3)
			mu = math.Log(median)
			sigma = dispersion
		}
		for i, x := range xs {
			z := (math.Log(x+logEpsilon) - mu) / sigma
			out[i] = clampUnit(stdNormCDF(z))
		}

	case ModelWeibull:
		shape := paramOr(params, "shape", 2.0)
		scale := paramOr(params, "scale", 100.0)
		for i, x := range xs {
			out[i] = clampUnit(weibullCDF(x, shape, scale))
		}

	case ModelLogistic:
		midPoint := paramOr(params, "mid_point", 50.0)
		slope := paramOr(params, "slope", 0.5)
		for i, x := range xs {
			out[i] = clampUnit(sigmoid(slope * (x - midPoint)))
		}

	default:
		return out, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}

	return out, nil
}

func paramOr(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

// stdNormCDF is the standard normal CDF Φ(z).
func stdNormCDF(z float64) float64 {
	return 0.5 * math.Erfc(-z/math.Sqrt2)
}

// weibullCDF is the two-parameter Weibull CDF. The Expm1 form stays accurate
// for small x/scale and saturates cleanly at 1 for large x/scale instead of
// overflowing.
func weibullCDF(x, shape, scale float64) float64 {
	if x <= 0 || scale <= 0 {
		return 0
	}
	return -math.Expm1(-math.Pow(x/scale, shape))
}

// sigmoid is the logistic function 1/(1+e^(-t)), computed without overflow
// for large |t|.
func sigmoid(t float64) float64 {
	if t >= 0 {
		return 1 / (1 + math.Exp(-t))
	}
	e := math.Exp(t)
	return e / (1 + e)
}
