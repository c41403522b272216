// Command validate performs integrity checks over a fixture data directory:
// HBOM linkage, curve document references, climate series alignment, and a
// trial fragility computation. It exits non-zero if any phase fails.
//
// Usage:
//
//	go run ./cmd/validate -data-dir data -sector power_grid
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/tbphil/final-ACCLIMATE/internal/adapter/climatefile"
	"github.com/tbphil/final-ACCLIMATE/internal/adapter/hbomfile"
	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/engine"
	"github.com/tbphil/final-ACCLIMATE/internal/observability"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data-dir", "data", "fixture data directory")
	sector := flag.String("sector", "power_grid", "sector to validate")
	flag.Parse()

	if code := run(*dataDir, *sector); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir, sector string) int {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	hazards := domain.DefaultHazards()
	hboms := hbomfile.New(dataDir, logger)
	climate := climatefile.New(dataDir, domain.NewCompositeRegistry(), logger)

	flat, err := hboms.FlatComponents(ctx, sector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading components: %v\n", err)
		return 1
	}
	curves, err := hboms.FragilityCurves(ctx, sector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading curves: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkLinkage(flat, logger),
		checkCurves(flat, curves, hazards),
		checkClimate(ctx, climate, hazards),
		checkComputation(ctx, flat, curves, climate, hazards, logger),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed\n", len(phases))
	return 0
}

// checkLinkage verifies uuid uniqueness, parent/child consistency, and that
// the records reconstruct without cycles.
func checkLinkage(flat []domain.FlatComponent, logger *slog.Logger) *phase {
	p := &phase{name: "hbom linkage"}
	if len(flat) == 0 {
		p.errorf("no component records")
		return p
	}

	byUUID := map[string]domain.FlatComponent{}
	for _, rec := range flat {
		if rec.UUID == "" {
			p.errorf("record %q has empty uuid", rec.Label)
			continue
		}
		if _, dup := byUUID[rec.UUID]; dup {
			p.errorf("duplicate uuid %s", rec.UUID)
		}
		byUUID[rec.UUID] = rec
	}

	for _, rec := range flat {
		for _, childUUID := range rec.ChildrenUUIDs {
			child, ok := byUUID[childUUID]
			if !ok {
				p.errorf("%s references missing child %s", rec.UUID, childUUID)
				continue
			}
			if child.ParentUUID == nil || *child.ParentUUID != rec.UUID {
				p.errorf("child %s of %s does not point back to its parent", childUUID, rec.UUID)
			}
		}
	}

	recon := domain.NewReconstructor(nil, 0, logger)
	roots, err := recon.Reconstruct(flat, nil)
	if err != nil {
		p.errorf("reconstruction failed: %v", err)
		return p
	}
	if len(roots) == 0 {
		p.errorf("no roots after reconstruction")
	}
	return p
}

// checkCurves verifies curve documents reference known components, models,
// and hazards.
func checkCurves(flat []domain.FlatComponent, curves []domain.FragilityCurveDoc, hazards *domain.HazardRegistry) *phase {
	p := &phase{name: "fragility curves"}
	known := map[string]bool{}
	for _, rec := range flat {
		known[rec.UUID] = true
	}

	for i, curve := range curves {
		if !known[curve.ComponentUUID] {
			p.errorf("curve %d references unknown component %s", i, curve.ComponentUUID)
		}
		switch curve.Model {
		case domain.ModelLognormal, domain.ModelWeibull, domain.ModelLogistic, domain.ModelInherit:
		default:
			p.errorf("curve %d has unknown model %q", i, curve.Model)
		}
		def, ok := hazards.Get(curve.Hazard)
		if !ok {
			p.errorf("curve %d targets unknown hazard %q", i, curve.Hazard)
			continue
		}
		if curve.ClimateVariable != "" && !contains(def.AllVariables(), curve.ClimateVariable) {
			p.errorf("curve %d targets variable %q not provided by hazard %q",
				i, curve.ClimateVariable, curve.Hazard)
		}
	}
	return p
}

// checkClimate verifies every available dataset is aligned: each series as
// long as the time axis, each base variable present.
func checkClimate(ctx context.Context, climate *climatefile.Source, hazards *domain.HazardRegistry) *phase {
	p := &phase{name: "climate datasets"}
	available := 0

	for _, def := range hazards.List() {
		if !climate.Available(ctx, def) {
			continue
		}
		available++
		ds, err := climate.PreparedData(ctx, def)
		if err != nil {
			p.errorf("%s: %v", def.Name, err)
			continue
		}
		steps := len(ds.Times)
		if steps == 0 {
			p.errorf("%s: empty time axis", def.Name)
		}
		for _, base := range def.BaseVariables {
			if !ds.HasVariable(base) {
				p.errorf("%s: missing base variable %q", def.Name, base)
			}
		}
		for _, cell := range ds.Data {
			for variable, series := range cell.Climate {
				if len(series) != steps {
					p.errorf("%s: grid %d variable %q has %d values for %d timesteps",
						def.Name, cell.GridIndex, variable, len(series), steps)
				}
			}
		}
	}

	if available == 0 {
		p.errorf("no climate datasets found")
	}
	return p
}

// checkComputation runs a trial computation per available hazard and asserts
// every PoF figure lands in [0,1] with aligned time series.
func checkComputation(
	ctx context.Context,
	flat []domain.FlatComponent,
	curves []domain.FragilityCurveDoc,
	climate *climatefile.Source,
	hazards *domain.HazardRegistry,
	logger *slog.Logger,
) *phase {
	p := &phase{name: "trial computation"}

	recon := domain.NewReconstructor(nil, 0, logger)
	computer := engine.New(nil, logger, observability.NewMetricsForTesting())

	for _, def := range hazards.List() {
		if !climate.Available(ctx, def) {
			continue
		}
		ds, err := climate.PreparedData(ctx, def)
		if err != nil {
			p.errorf("%s: %v", def.Name, err)
			continue
		}
		roots, err := recon.Reconstruct(flat, curves)
		if err != nil {
			p.errorf("%s: reconstruct: %v", def.Name, err)
			continue
		}
		domain.FilterHazard(roots, def.Name)
		tree := &domain.HBOMTree{Sector: "validate", Components: roots}

		annotated := computer.ComputeForTree(tree, def.Name, ds)
		for _, root := range annotated.Components {
			checkPoFRange(p, def.Name, root)
		}

		series := computer.ComputeTimeseries(tree, def.Name, ds)
		for uuid, byVar := range series {
			for variable, s := range byVar {
				if len(s) != len(ds.Times) {
					p.errorf("%s: %s/%s series has %d values for %d timesteps",
						def.Name, uuid, variable, len(s), len(ds.Times))
				}
			}
		}
	}
	return p
}

func checkPoFRange(p *phase, hazard string, node *domain.ComponentNode) {
	if node.PoF < 0 || node.PoF > 1 {
		p.errorf("%s: component %s pof %v out of range", hazard, node.UUID, node.PoF)
	}
	for variable, pof := range node.PoFByVar {
		if pof < 0 || pof > 1 {
			p.errorf("%s: component %s pof_by_var[%s] %v out of range", hazard, node.UUID, variable, pof)
		}
	}
	for _, child := range node.Subcomponents {
		checkPoFRange(p, hazard, child)
	}
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
