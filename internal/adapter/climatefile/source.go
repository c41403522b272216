// Package climatefile reads prepared climate datasets from per-hazard JSON
// files produced by the climate preparation pipeline. It stands in for that
// pipeline's cache: one file per hazard under <dir>/climate/.
package climatefile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
)

// Source is a file-backed climate data provider.
type Source struct {
	dir        string
	composites *domain.CompositeRegistry
	logger     *slog.Logger
}

// New creates a Source rooted at dir. Composite variables listed by a hazard
// definition are derived into the dataset on load.
func New(dir string, composites *domain.CompositeRegistry, logger *slog.Logger) *Source {
	return &Source{dir: dir, composites: composites, logger: logger}
}

// PreparedData loads and returns the prepared dataset for the hazard,
// deriving any composite variables the hazard needs.
func (s *Source) PreparedData(ctx context.Context, hazard domain.HazardDefinition) (*domain.PreparedDataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(hazard.Name)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read climate data for %q: %w", hazard.Name, err)
	}

	var ds domain.PreparedDataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("parse climate data %s: %w", path, err)
	}

	if len(hazard.CompositeVariables) > 0 {
		if err := s.composites.Derive(&ds, hazard.CompositeVariables); err != nil {
			return nil, fmt.Errorf("derive composites for %q: %w", hazard.Name, err)
		}
	}

	s.logger.Debug("loaded climate data",
		"hazard", hazard.Name,
		"variables", len(ds.Variables),
		"grid_cells", len(ds.Data),
		"steps", len(ds.Times),
	)
	return &ds, nil
}

// Available reports whether a prepared dataset exists for the hazard.
func (s *Source) Available(ctx context.Context, hazard domain.HazardDefinition) bool {
	if ctx.Err() != nil {
		return false
	}
	_, err := os.Stat(s.path(hazard.Name))
	return err == nil
}

func (s *Source) path(hazard string) string {
	return filepath.Join(s.dir, "climate", hazardSlug(hazard)+".json")
}

// hazardSlug maps a display hazard name to its file name:
// "Heat Stress" -> "heat_stress".
func hazardSlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
