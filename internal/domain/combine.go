package domain

import "math"

// SeriesCombine is the reliability series rule: the probability that a system
// of independent members fails is 1 − Π(1 − pᵢ). Inputs are clamped first, so
// an absent or corrupt figure degrades to 0 (no failure) instead of poisoning
// the product.
func SeriesCombine(pofs ...float64) float64 {
	survival := 1.0
	for _, p := range pofs {
		survival *= 1 - clampUnit(p)
	}
	return clampUnit(1 - survival)
}

// ReduceGrids collapses per-grid-cell curves for one (component, variable)
// pair to a scalar: the maximum FinalPoF across cells. The worst-case cell
// dominates.
func ReduceGrids(grids map[int]*GridCurve) float64 {
	maxPoF := 0.0
	for _, curve := range grids {
		if p := clampUnit(curve.FinalPoF); p > maxPoF {
			maxPoF = p
		}
	}
	return maxPoF
}

// MaxAtTimestep is the per-timestep grid reduction used for time-series
// extraction: the maximum PoF across cells at index t, with cells shorter than
// the time axis contributing 0.
func MaxAtTimestep(grids map[int]*GridCurve, t int) float64 {
	maxPoF := 0.0
	for _, curve := range grids {
		if t >= len(curve.FCValues) {
			continue
		}
		if p := clampUnit(curve.FCValues[t]); p > maxPoF {
			maxPoF = p
		}
	}
	return maxPoF
}

// CombineNode produces a node's combined per-variable PoF map and headline
// scalar from its own (post grid-reduction) PoF map and the already-combined
// maps of its direct children. For each variable in the union, the children
// are combined in series with each other and the result placed in series with
// the node's own contribution. Absent data defaults to 0.
func CombineNode(own map[string]float64, children []map[string]float64) (map[string]float64, float64) {
	variables := make(map[string]struct{}, len(own))
	for v := range own {
		variables[v] = struct{}{}
	}
	for _, child := range children {
		for v := range child {
			variables[v] = struct{}{}
		}
	}

	combined := make(map[string]float64, len(variables))
	headline := 0.0
	for v := range variables {
		childSurvival := 1.0
		for _, child := range children {
			childSurvival *= 1 - clampUnit(child[v])
		}
		childCombined := 1 - childSurvival
		combined[v] = clampUnit(1 - (1-clampUnit(own[v]))*(1-childCombined))
		headline = math.Max(headline, combined[v])
	}
	return combined, headline
}
