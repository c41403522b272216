package domain

import "time"

// Fragility model identifiers accepted in curve documents.
const (
	ModelLognormal = "lognormal"
	ModelWeibull   = "weibull"
	ModelLogistic  = "logistic"

	// ModelInherit is a sentinel: the node has no failure mode of its own and
	// aggregates purely from its children.
	ModelInherit = "inherit"
)

// FlatComponent is the database-shaped component record. ParentUUID and
// ChildrenUUIDs are reconstruction bookkeeping and do not appear on the
// nested tree.
type FlatComponent struct {
	UUID          string         `json:"uuid"`
	Label         string         `json:"label"`
	AssetType     string         `json:"asset_type"`
	Level         int            `json:"level"`
	NodePath      string         `json:"node_path"`
	ParentUUID    *string        `json:"parent_uuid"`
	ChildrenUUIDs []string       `json:"children_uuids"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// FragilityCurveDoc is one uploaded fragility parameterization for a
// (component, hazard) pair. Priority and Conditions are carried through but
// not evaluated during selection unless the caller opts into
// [SelectHighestPriority].
type FragilityCurveDoc struct {
	ComponentUUID   string             `json:"component_uuid"`
	Hazard          string             `json:"hazard"`
	Model           string             `json:"model"`
	Parameters      map[string]float64 `json:"parameters"`
	ClimateVariable string             `json:"climate_variable,omitempty"`
	Conditions      map[string]any     `json:"conditions,omitempty"`
	Priority        int                `json:"priority,omitempty"`
	Provenance      Provenance         `json:"provenance,omitempty"`
}

// Provenance records where a curve document came from.
type Provenance struct {
	Source string `json:"source,omitempty"`
}

// HazardBinding is a fragility parameterization attached to one tree node for
// one hazard. FragilityCurves is populated by the engine, keyed by climate
// variable then grid index.
type HazardBinding struct {
	FragilityModel  string             `json:"fragility_model"`
	FragilityParams map[string]float64 `json:"fragility_params"`
	ClimateVariable string             `json:"climate_variable,omitempty"`
	Conditions      map[string]any     `json:"conditions,omitempty"`
	Priority        int                `json:"priority"`
	Source          string             `json:"source"`
	FragilityCurves map[string]map[int]*GridCurve `json:"fragility_curves,omitempty"`
}

// GridCurve is the evaluated fragility result for one (component, hazard,
// variable, grid cell). XValues is the raw intensity series at that cell,
// FCValues the PoF series of equal length, and FinalPoF the last FCValues
// entry, the snapshot probability at the latest evaluated time point.
type GridCurve struct {
	XValues  Series  `json:"x_values"`
	FCValues Series  `json:"fc_values"`
	FinalPoF float64 `json:"final_pof"`
}

// ComponentNode is one node of a reconstructed HBOM tree. PoF and PoFByVar are
// populated bottom-up by the fragility engine; a parent exclusively owns its
// Subcomponents.
type ComponentNode struct {
	UUID          string                    `json:"uuid"`
	Label         string                    `json:"label"`
	ComponentType string                    `json:"component_type"`
	Level         int                       `json:"level"`
	NodePath      string                    `json:"node_path"`
	Metadata      map[string]any            `json:"metadata,omitempty"`
	Hazards       map[string]*HazardBinding `json:"hazards"`
	Subcomponents []*ComponentNode          `json:"subcomponents"`
	PoFByVar      map[string]float64        `json:"pof_by_var,omitempty"`
	PoF           float64                   `json:"pof"`
}

// HBOMTree is the reconstructed decomposition for one infrastructure sector.
type HBOMTree struct {
	Sector     string           `json:"sector"`
	Components []*ComponentNode `json:"components"`
}

// AssessmentSummary is the event published after a completed fragility
// computation: one headline PoF per root component.
type AssessmentSummary struct {
	ID             string             `json:"id"`
	Sector         string             `json:"sector"`
	Hazard         string             `json:"hazard"`
	RootPoFs       map[string]float64 `json:"root_pofs"`
	ComponentCount int                `json:"component_count"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// NewAssessmentSummary builds a summary from a computed tree. PoFs are
// sanitized once more so a summary can never carry a non-finite number.
func NewAssessmentSummary(id string, tree *HBOMTree, hazard string) AssessmentSummary {
	rootPoFs := make(map[string]float64, len(tree.Components))
	count := 0
	for _, root := range tree.Components {
		rootPoFs[root.UUID] = clampUnit(root.PoF)
		count += root.countNodes()
	}
	return AssessmentSummary{
		ID:             id,
		Sector:         tree.Sector,
		Hazard:         hazard,
		RootPoFs:       rootPoFs,
		ComponentCount: count,
		ComputedAt:     clock.Now().UTC(),
	}
}

func (n *ComponentNode) countNodes() int {
	count := 1
	for _, child := range n.Subcomponents {
		count += child.countNodes()
	}
	return count
}

// Clone deep-copies the node and its subtree. The engine annotates clones so
// callers' trees are never mutated.
func (n *ComponentNode) Clone() *ComponentNode {
	if n == nil {
		return nil
	}
	out := &ComponentNode{
		UUID:          n.UUID,
		Label:         n.Label,
		ComponentType: n.ComponentType,
		Level:         n.Level,
		NodePath:      n.NodePath,
		PoF:           n.PoF,
	}
	if n.Metadata != nil {
		out.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			out.Metadata[k] = v
		}
	}
	if n.Hazards != nil {
		out.Hazards = make(map[string]*HazardBinding, len(n.Hazards))
		for name, hb := range n.Hazards {
			out.Hazards[name] = hb.clone()
		}
	}
	if n.Subcomponents != nil {
		out.Subcomponents = make([]*ComponentNode, len(n.Subcomponents))
		for i, child := range n.Subcomponents {
			out.Subcomponents[i] = child.Clone()
		}
	}
	if n.PoFByVar != nil {
		out.PoFByVar = make(map[string]float64, len(n.PoFByVar))
		for k, v := range n.PoFByVar {
			out.PoFByVar[k] = v
		}
	}
	return out
}

// Clone deep-copies the tree.
func (t *HBOMTree) Clone() *HBOMTree {
	if t == nil {
		return nil
	}
	out := &HBOMTree{Sector: t.Sector, Components: make([]*ComponentNode, len(t.Components))}
	for i, root := range t.Components {
		out.Components[i] = root.Clone()
	}
	return out
}

func (hb *HazardBinding) clone() *HazardBinding {
	if hb == nil {
		return nil
	}
	out := &HazardBinding{
		FragilityModel:  hb.FragilityModel,
		ClimateVariable: hb.ClimateVariable,
		Priority:        hb.Priority,
		Source:          hb.Source,
	}
	if hb.FragilityParams != nil {
		out.FragilityParams = make(map[string]float64, len(hb.FragilityParams))
		for k, v := range hb.FragilityParams {
			out.FragilityParams[k] = v
		}
	}
	if hb.Conditions != nil {
		out.Conditions = make(map[string]any, len(hb.Conditions))
		for k, v := range hb.Conditions {
			out.Conditions[k] = v
		}
	}
	if hb.FragilityCurves != nil {
		out.FragilityCurves = make(map[string]map[int]*GridCurve, len(hb.FragilityCurves))
		for variable, grids := range hb.FragilityCurves {
			cp := make(map[int]*GridCurve, len(grids))
			for idx, curve := range grids {
				cp[idx] = &GridCurve{
					XValues:  curve.XValues.Clone(),
					FCValues: curve.FCValues.Clone(),
					FinalPoF: curve.FinalPoF,
				}
			}
			out.FragilityCurves[variable] = cp
		}
	}
	return out
}
