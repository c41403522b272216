// Package hbomfile reads flat HBOM component records and fragility curve
// documents from per-sector JSON files under <dir>/hbom/. It plays the role
// of the persistence layer, which is out of scope here; the shapes match the
// database documents one for one.
package hbomfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
)

// Store is a file-backed HBOM record source.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// FlatComponents returns the sector's flat component records. An unknown
// sector yields an empty slice, not an error.
func (s *Store) FlatComponents(ctx context.Context, sector string) ([]domain.FlatComponent, error) {
	var out []domain.FlatComponent
	if err := s.read(ctx, sector, "components", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FragilityCurves returns the sector's uploaded curve documents. A sector
// with no curve file yields an empty slice.
func (s *Store) FragilityCurves(ctx context.Context, sector string) ([]domain.FragilityCurveDoc, error) {
	var out []domain.FragilityCurveDoc
	if err := s.read(ctx, sector, "curves", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) read(ctx context.Context, sector, kind string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(s.dir, "hbom", fmt.Sprintf("%s_%s.json", sector, kind))
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("no hbom file for sector", "sector", sector, "kind", kind)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s for sector %q: %w", kind, sector, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
