// Package engine computes fragility curves over HBOM trees: it walks each
// tree post-order, evaluates the node's distribution against every grid
// cell's climate series, reduces across space, and combines each node with
// its subcomponents under a series-reliability model.
package engine

import (
	"log/slog"
	"time"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/observability"
)

// Evaluator maps a fragility model, its parameters, and an intensity series
// to a probability-of-failure series. Implementations must be total on
// numeric input; an unknown model returns a zero series and an error the
// caller logs without aborting.
type Evaluator interface {
	Evaluate(model string, params map[string]float64, xs []float64) (domain.Series, error)
}

// DistributionEvaluator is the default Evaluator backed by the domain
// distribution functions.
type DistributionEvaluator struct{}

// Evaluate implements [Evaluator].
func (DistributionEvaluator) Evaluate(model string, params map[string]float64, xs []float64) (domain.Series, error) {
	return domain.EvaluateDistribution(model, params, xs)
}

// Computer orchestrates fragility computation for whole trees. Each call is a
// pure function of its inputs: the supplied tree is cloned and the clone
// annotated, so callers may share input trees across concurrent requests.
type Computer struct {
	eval    Evaluator
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Computer. A nil evaluator defaults to
// [DistributionEvaluator].
func New(eval Evaluator, logger *slog.Logger, metrics *observability.Metrics) *Computer {
	if eval == nil {
		eval = DistributionEvaluator{}
	}
	return &Computer{eval: eval, logger: logger, metrics: metrics}
}

// ComputeForTree evaluates fragility for every node of the tree against the
// prepared dataset and returns an annotated clone: pof, pof_by_var, and
// per-grid fragility_curves populated throughout. Children are always fully
// combined before their parent.
func (c *Computer) ComputeForTree(tree *domain.HBOMTree, hazard string, prepared *domain.PreparedDataset) *domain.HBOMTree {
	start := time.Now()
	c.metrics.EngineBusy.Set(1)
	defer c.metrics.EngineBusy.Set(0)

	c.logger.Info("computing fragility",
		"sector", tree.Sector,
		"hazard", hazard,
		"variables", len(prepared.Variables),
		"grid_cells", len(prepared.Data),
	)

	annotated := tree.Clone()
	for _, root := range annotated.Components {
		c.computeNode(root, hazard, prepared.Variables, prepared.Data)
	}

	c.metrics.AssessmentDuration.Observe(time.Since(start).Seconds())
	return annotated
}

// ComputeTimeseries runs the full computation and extracts, for every node
// carrying curves for the hazard, one PoF series per variable aligned to the
// dataset's time axis: at each index the maximum PoF across that variable's
// grid cells. Nodes with no curves for the hazard are omitted, which
// distinguishes "no model" from "modeled, zero risk".
func (c *Computer) ComputeTimeseries(tree *domain.HBOMTree, hazard string, prepared *domain.PreparedDataset) map[string]map[string][]float64 {
	annotated := c.ComputeForTree(tree, hazard, prepared)

	out := map[string]map[string][]float64{}
	steps := len(prepared.Times)
	for _, root := range annotated.Components {
		extractSeries(root, hazard, steps, out)
	}

	c.logger.Info("extracted pof time series", "components", len(out), "steps", steps)
	return out
}

// computeNode is the post-order fold: evaluate this node's own curves, recurse
// into children, then combine.
func (c *Computer) computeNode(node *domain.ComponentNode, hazard string, variables []string, cells []domain.GridCell) {
	own := map[string]float64{}

	hb := node.Hazards[hazard]
	if hb != nil && hb.FragilityModel != "" && hb.FragilityModel != domain.ModelInherit {
		curves := map[string]map[int]*domain.GridCurve{}
		for _, variable := range variables {
			if hb.ClimateVariable != "" && variable != hb.ClimateVariable {
				continue
			}
			grids := make(map[int]*domain.GridCurve, len(cells))
			for _, cell := range cells {
				grids[cell.GridIndex] = c.evaluateCell(node.UUID, hb, cell.Climate[variable])
			}
			curves[variable] = grids
			own[variable] = domain.ReduceGrids(grids)
		}
		hb.FragilityCurves = curves
	}

	childMaps := make([]map[string]float64, 0, len(node.Subcomponents))
	for _, child := range node.Subcomponents {
		c.computeNode(child, hazard, variables, cells)
		childMaps = append(childMaps, child.PoFByVar)
	}

	node.PoFByVar, node.PoF = domain.CombineNode(own, childMaps)
	c.metrics.NodesCombined.Inc()
}

// evaluateCell produces one grid curve. An absent or empty series is the
// explicit no-data case and maps to the single-point zero curve.
func (c *Computer) evaluateCell(uuid string, hb *domain.HazardBinding, xs domain.Series) *domain.GridCurve {
	if len(xs) == 0 {
		return &domain.GridCurve{
			XValues:  domain.Series{0},
			FCValues: domain.Series{0},
			FinalPoF: 0,
		}
	}

	fc, err := c.eval.Evaluate(hb.FragilityModel, hb.FragilityParams, xs)
	if err != nil {
		c.logger.Warn("fragility evaluation fell back to zero",
			"component", uuid,
			"model", hb.FragilityModel,
			"error", err,
		)
		c.metrics.UnknownModels.Inc()
	}
	c.metrics.CurvesEvaluated.Inc()

	finalPoF := 0.0
	if len(fc) > 0 {
		finalPoF = domain.SanitizeUnit(fc[len(fc)-1])
	}
	return &domain.GridCurve{
		XValues:  xs.Clone(),
		FCValues: fc,
		FinalPoF: finalPoF,
	}
}

func extractSeries(node *domain.ComponentNode, hazard string, steps int, out map[string]map[string][]float64) {
	if hb := node.Hazards[hazard]; hb != nil && len(hb.FragilityCurves) > 0 {
		series := make(map[string][]float64, len(hb.FragilityCurves))
		for variable, grids := range hb.FragilityCurves {
			s := make([]float64, steps)
			for t := 0; t < steps; t++ {
				s[t] = domain.MaxAtTimestep(grids, t)
			}
			series[variable] = s
		}
		out[node.UUID] = series
	}
	for _, child := range node.Subcomponents {
		extractSeries(child, hazard, steps, out)
	}
}
