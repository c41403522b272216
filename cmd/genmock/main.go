// Command genmock writes deterministic HBOM, fragility curve, and prepared
// climate fixtures for local development and the validate command. The same
// inputs always produce byte-identical output, so fixtures can be committed
// and diffed.
//
// Usage:
//
//	go run ./cmd/genmock -out data -sector power_grid
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
)

// baseTime anchors the monthly time axis of every generated dataset.
var baseTime = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

const (
	timeSteps = 24 // two years, monthly
	gridSide  = 2  // 2x2 grid cells
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data", "output directory for fixtures")
	sector := flag.String("sector", "power_grid", "sector name for HBOM fixtures")
	flag.Parse()

	components := mockComponents()
	curves := mockCurves()

	if err := writeJSON(filepath.Join(*out, "hbom", *sector+"_components.json"), components); err != nil {
		return fmt.Errorf("writing components: %w", err)
	}
	log.Printf("wrote %d components for sector %s", len(components), *sector)

	if err := writeJSON(filepath.Join(*out, "hbom", *sector+"_curves.json"), curves); err != nil {
		return fmt.Errorf("writing curves: %w", err)
	}
	log.Printf("wrote %d curve documents", len(curves))

	for _, def := range domain.DefaultHazards().List() {
		ds := mockDataset(def)
		name := strings.ReplaceAll(strings.ToLower(def.Name), " ", "_")
		path := filepath.Join(*out, "climate", name+".json")
		if err := writeJSON(path, ds); err != nil {
			return fmt.Errorf("writing climate data for %s: %w", def.Name, err)
		}
		log.Printf("wrote climate fixture %s: %d grids x %d steps", path, len(ds.Data), timeSteps)
	}

	return nil
}

func strptr(s string) *string { return &s }

// mockComponents is a small power grid decomposition: a substation with a
// transformer (bushing, radiator) and switchgear, plus a transmission line
// with a tower and conductor.
func mockComponents() []domain.FlatComponent {
	return []domain.FlatComponent{
		{
			UUID: "sub-01", Label: "Substation Alpha", AssetType: "substation",
			Level: 0, NodePath: "Substation Alpha",
			ChildrenUUIDs: []string{"tx-01", "swg-01"},
		},
		{
			UUID: "tx-01", Label: "Power Transformer", AssetType: "transformer",
			Level: 1, NodePath: "Substation Alpha > Power Transformer",
			ParentUUID: strptr("sub-01"), ChildrenUUIDs: []string{"bsh-01", "rad-01"},
		},
		{
			UUID: "bsh-01", Label: "HV Bushing", AssetType: "bushing",
			Level: 2, NodePath: "Substation Alpha > Power Transformer > HV Bushing",
			ParentUUID: strptr("tx-01"), ChildrenUUIDs: []string{},
		},
		{
			UUID: "rad-01", Label: "Radiator Bank", AssetType: "radiator",
			Level: 2, NodePath: "Substation Alpha > Power Transformer > Radiator Bank",
			ParentUUID: strptr("tx-01"), ChildrenUUIDs: []string{},
		},
		{
			UUID: "swg-01", Label: "Switchgear", AssetType: "switchgear",
			Level: 1, NodePath: "Substation Alpha > Switchgear",
			ParentUUID: strptr("sub-01"), ChildrenUUIDs: []string{},
		},
		{
			UUID: "line-12", Label: "Transmission Line 12", AssetType: "transmission_line",
			Level: 0, NodePath: "Transmission Line 12",
			ChildrenUUIDs: []string{"twr-100", "cond-100"},
		},
		{
			UUID: "twr-100", Label: "Lattice Tower 100", AssetType: "tower",
			Level: 1, NodePath: "Transmission Line 12 > Lattice Tower 100",
			ParentUUID: strptr("line-12"), ChildrenUUIDs: []string{},
		},
		{
			UUID: "cond-100", Label: "Conductor Span 100", AssetType: "conductor",
			Level: 1, NodePath: "Transmission Line 12 > Conductor Span 100",
			ParentUUID: strptr("line-12"), ChildrenUUIDs: []string{},
		},
	}
}

func mockCurves() []domain.FragilityCurveDoc {
	return []domain.FragilityCurveDoc{
		{
			ComponentUUID: "sub-01", Hazard: "Heat Stress", Model: domain.ModelInherit,
		},
		{
			ComponentUUID: "tx-01", Hazard: "Heat Stress", Model: domain.ModelLognormal,
			Parameters:      map[string]float64{"median": 118, "dispersion": 0.25},
			ClimateVariable: "hi", Priority: 10,
			Provenance: domain.Provenance{Source: "EPRI transformer thermal study"},
		},
		{
			ComponentUUID: "bsh-01", Hazard: "Heat Stress", Model: domain.ModelLogistic,
			Parameters:      map[string]float64{"mid_point": 108, "slope": 0.3},
			ClimateVariable: "hi",
			Provenance:      domain.Provenance{Source: "manufacturer derating sheet"},
		},
		{
			ComponentUUID: "swg-01", Hazard: "Heat Stress", Model: domain.ModelLognormal,
			Parameters:      map[string]float64{"median": 315, "dispersion": 0.04},
			ClimateVariable: "tas",
			Provenance:      domain.Provenance{Source: "IEEE C37 thermal limits"},
		},
		{
			ComponentUUID: "line-12", Hazard: "Wind", Model: domain.ModelInherit,
		},
		{
			ComponentUUID: "twr-100", Hazard: "Wind", Model: domain.ModelWeibull,
			Parameters:      map[string]float64{"shape": 6, "scale": 52},
			ClimateVariable: "sfcWind",
			Provenance:      domain.Provenance{Source: "ASCE 7 tower fragility"},
		},
		{
			ComponentUUID: "cond-100", Hazard: "Wind", Model: domain.ModelLogistic,
			Parameters:      map[string]float64{"mid_point": 38, "slope": 0.25},
			ClimateVariable: "sfcWind",
			Provenance:      domain.Provenance{Source: "conductor gallop study"},
		},
	}
}

// mockDataset builds a deterministic prepared dataset for one hazard: a 2x2
// grid around central Texas with seasonally varying base-variable series.
func mockDataset(def domain.HazardDefinition) *domain.PreparedDataset {
	times := make([]string, timeSteps)
	for t := range times {
		times[t] = baseTime.AddDate(0, t, 0).Format(time.RFC3339)
	}

	ds := &domain.PreparedDataset{
		Variables: def.BaseVariables,
		Times:     times,
		BoundingBox: &domain.GridBounds{
			MinLat: 30.0, MaxLat: 30.5, MinLon: -97.5, MaxLon: -97.0,
		},
	}

	for i := 0; i < gridSide; i++ {
		for j := 0; j < gridSide; j++ {
			idx := i*gridSide + j
			cell := domain.GridCell{
				GridIndex: idx,
				Bounds: domain.GridBounds{
					MinLat: 30.0 + 0.25*float64(i), MaxLat: 30.25 + 0.25*float64(i),
					MinLon: -97.5 + 0.25*float64(j), MaxLon: -97.25 + 0.25*float64(j),
				},
				Climate: map[string]domain.Series{},
			}
			for _, v := range def.BaseVariables {
				cell.Climate[v] = mockSeries(v, idx)
			}
			ds.Data = append(ds.Data, cell)
		}
	}
	return ds
}

// mockSeries produces a seasonal sinusoid per variable with a slight warming
// trend and per-cell offset.
func mockSeries(variable string, cellIdx int) domain.Series {
	out := make(domain.Series, timeSteps)
	for t := range out {
		season := math.Sin(2 * math.Pi * float64(t%12-6) / 12)
		trend := float64(t) / float64(timeSteps)
		cell := float64(cellIdx)

		switch variable {
		case "tas": // Kelvin
			out[t] = 288 + 14*season + 2*trend + 0.4*cell
		case "hurs": // percent
			out[t] = 58 - 12*season + 1.5*cell
		case "sfcWind": // m/s
			out[t] = 9 + 6*season + 3*trend + 0.8*cell
		case "pr": // kg m-2 s-1, scaled up for readability
			out[t] = 2.4 - 1.1*season - 0.5*trend + 0.1*cell
		case "rsds": // W m-2
			out[t] = 210 + 70*season + 5*cell
		default:
			out[t] = 0
		}
	}
	return out
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
