package domain

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrCycle reports a parent/child reference cycle or a node claimed by two
	// parents. This is the one structurally impossible state reconstruction
	// refuses to paper over.
	ErrCycle = errors.New("component records contain a cycle or shared child")

	// ErrTooDeep reports nesting beyond the configured depth guard.
	ErrTooDeep = errors.New("component tree exceeds maximum depth")
)

// DefaultMaxDepth bounds recursion during reconstruction and computation.
// Physical asset decompositions are a handful of levels deep; anything near
// this limit is corrupt data.
const DefaultMaxDepth = 1024

// CurveSelector resolves the ambiguity of multiple curve documents targeting
// the same (component, hazard). It receives the documents in upload order and
// returns the one to attach.
type CurveSelector func(curves []FragilityCurveDoc) FragilityCurveDoc

// SelectFirst takes the first document per hazard, matching upstream behavior
// where priority and condition fields exist but are not consulted.
func SelectFirst(curves []FragilityCurveDoc) FragilityCurveDoc {
	return curves[0]
}

// SelectHighestPriority takes the document with the largest Priority,
// preferring the earlier one on ties.
func SelectHighestPriority(curves []FragilityCurveDoc) FragilityCurveDoc {
	best := curves[0]
	for _, c := range curves[1:] {
		if c.Priority > best.Priority {
			best = c
		}
	}
	return best
}

// Reconstructor turns flat component records into nested HBOM trees.
type Reconstructor struct {
	selector CurveSelector
	maxDepth int
	logger   *slog.Logger
}

// NewReconstructor creates a Reconstructor. A nil selector defaults to
// [SelectFirst]; maxDepth <= 0 defaults to [DefaultMaxDepth].
func NewReconstructor(selector CurveSelector, maxDepth int, logger *slog.Logger) *Reconstructor {
	if selector == nil {
		selector = SelectFirst
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Reconstructor{selector: selector, maxDepth: maxDepth, logger: logger}
}

// Reconstruct builds nested trees from flat records, attaching fragility curve
// documents as hazard bindings. Dangling child references are dropped (and
// counted once at batch level); cycles and over-deep nesting return an error.
// Roots are the nodes with no parent, in input order.
func (r *Reconstructor) Reconstruct(flat []FlatComponent, curves []FragilityCurveDoc) ([]*ComponentNode, error) {
	if len(flat) == 0 {
		return []*ComponentNode{}, nil
	}

	nodes := make(map[string]*ComponentNode, len(flat))
	parents := make(map[string]*string, len(flat))
	for _, rec := range flat {
		nodes[rec.UUID] = prepareNode(rec)
		parents[rec.UUID] = rec.ParentUUID
	}

	droppedCurves := r.mergeCurves(nodes, curves)

	danglingChildren := 0
	var roots []*ComponentNode
	for _, rec := range flat {
		node := nodes[rec.UUID]
		for _, childUUID := range rec.ChildrenUUIDs {
			child, ok := nodes[childUUID]
			if !ok {
				danglingChildren++
				continue
			}
			node.Subcomponents = append(node.Subcomponents, child)
		}
		if parents[rec.UUID] == nil {
			roots = append(roots, node)
		}
	}

	visited := make(map[string]bool, len(nodes))
	for _, root := range roots {
		if err := checkShape(root, visited, 1, r.maxDepth); err != nil {
			return nil, err
		}
	}
	orphans := 0
	for uuid := range nodes {
		if visited[uuid] {
			continue
		}
		parent := parents[uuid]
		if parent != nil {
			if _, parentKnown := nodes[*parent]; parentKnown {
				// Unreachable from any root with an in-set parent: the parent
				// chain must loop.
				return nil, fmt.Errorf("%w: component %s unreachable from any root", ErrCycle, uuid)
			}
		}
		orphans++
	}

	if r.logger != nil {
		r.logger.Info("reconstructed component trees",
			"roots", len(roots),
			"flat_nodes", len(flat),
			"dangling_children", danglingChildren,
			"orphaned_nodes", orphans,
			"dropped_curves", droppedCurves,
		)
	}
	if roots == nil {
		roots = []*ComponentNode{}
	}
	return roots, nil
}

// mergeCurves attaches curve documents to their components, grouped by hazard,
// resolving duplicates through the configured selector. Returns the number of
// documents referencing unknown components.
func (r *Reconstructor) mergeCurves(nodes map[string]*ComponentNode, curves []FragilityCurveDoc) int {
	type key struct{ uuid, hazard string }
	grouped := make(map[key][]FragilityCurveDoc)
	var order []key
	dropped := 0

	for _, curve := range curves {
		if curve.ComponentUUID == "" {
			dropped++
			continue
		}
		if _, ok := nodes[curve.ComponentUUID]; !ok {
			dropped++
			continue
		}
		hazard := curve.Hazard
		if hazard == "" {
			hazard = "Unknown"
		}
		k := key{uuid: curve.ComponentUUID, hazard: hazard}
		if _, seen := grouped[k]; !seen {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], curve)
	}

	for _, k := range order {
		selected := r.selector(grouped[k])
		source := selected.Provenance.Source
		if source == "" {
			source = "Unknown"
		}
		nodes[k.uuid].Hazards[k.hazard] = &HazardBinding{
			FragilityModel:  selected.Model,
			FragilityParams: selected.Parameters,
			ClimateVariable: selected.ClimateVariable,
			Conditions:      selected.Conditions,
			Priority:        selected.Priority,
			Source:          source,
		}
	}
	return dropped
}

func prepareNode(rec FlatComponent) *ComponentNode {
	componentType := rec.AssetType
	if componentType == "" {
		componentType = "unknown"
	}
	return &ComponentNode{
		UUID:          rec.UUID,
		Label:         rec.Label,
		ComponentType: componentType,
		Level:         rec.Level,
		NodePath:      rec.NodePath,
		Metadata:      rec.Metadata,
		Hazards:       map[string]*HazardBinding{},
		Subcomponents: []*ComponentNode{},
	}
}

func checkShape(node *ComponentNode, visited map[string]bool, depth, maxDepth int) error {
	if depth > maxDepth {
		return fmt.Errorf("%w: depth %d at component %s", ErrTooDeep, depth, node.UUID)
	}
	if visited[node.UUID] {
		return fmt.Errorf("%w: component %s has two parents", ErrCycle, node.UUID)
	}
	visited[node.UUID] = true
	for _, child := range node.Subcomponents {
		if err := checkShape(child, visited, depth+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}

// FilterHazard recursively prunes every node's hazard map down to the single
// requested hazard. Tree structure is untouched: a node whose bindings are all
// pruned stays in place with an empty map.
func FilterHazard(roots []*ComponentNode, hazard string) {
	for _, root := range roots {
		filterHazardNode(root, hazard)
	}
}

func filterHazardNode(node *ComponentNode, hazard string) {
	filtered := map[string]*HazardBinding{}
	if hb, ok := node.Hazards[hazard]; ok {
		filtered[hazard] = hb
	}
	node.Hazards = filtered
	for _, child := range node.Subcomponents {
		filterHazardNode(child, hazard)
	}
}
