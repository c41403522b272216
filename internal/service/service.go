// Package service ties the fragility engine to its collaborators: the flat
// HBOM store, the prepared climate source, and the optional summary
// publisher.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/engine"
	"github.com/tbphil/final-ACCLIMATE/internal/observability"
)

var (
	// ErrNoClimateData means no prepared dataset is loaded for the hazard.
	ErrNoClimateData = errors.New("climate data not loaded for hazard")

	// ErrNoComponents means the sector has no HBOM components.
	ErrNoComponents = errors.New("no components found for sector")

	// ErrUnknownHazard means the hazard is not in the registry.
	ErrUnknownHazard = errors.New("unknown hazard")
)

// HBOMStore supplies flat component records and fragility curve documents for
// a sector.
type HBOMStore interface {
	FlatComponents(ctx context.Context, sector string) ([]domain.FlatComponent, error)
	FragilityCurves(ctx context.Context, sector string) ([]domain.FragilityCurveDoc, error)
}

// ClimateSource supplies prepared climate datasets per hazard.
type ClimateSource interface {
	PreparedData(ctx context.Context, hazard domain.HazardDefinition) (*domain.PreparedDataset, error)
	Available(ctx context.Context, hazard domain.HazardDefinition) bool
}

// SummaryPublisher emits an assessment summary event after each successful
// computation.
type SummaryPublisher interface {
	PublishSummary(ctx context.Context, summary domain.AssessmentSummary) error
}

// Service exposes the two fragility operations over reconstructed trees.
type Service struct {
	hboms     HBOMStore
	climate   ClimateSource
	computer  *engine.Computer
	recon     *domain.Reconstructor
	hazards   *domain.HazardRegistry
	publisher SummaryPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service. Pass a nil publisher to disable summary events.
func New(
	hboms HBOMStore,
	climate ClimateSource,
	computer *engine.Computer,
	recon *domain.Reconstructor,
	hazards *domain.HazardRegistry,
	publisher SummaryPublisher,
	logger *slog.Logger,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		hboms:     hboms,
		climate:   climate,
		computer:  computer,
		recon:     recon,
		hazards:   hazards,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Hazards lists the supported hazard definitions.
func (s *Service) Hazards() []domain.HazardDefinition {
	return s.hazards.List()
}

// Assess reconstructs the sector's HBOM tree, computes fragility for the
// hazard, publishes a summary event, and returns the annotated tree.
func (s *Service) Assess(ctx context.Context, sector, hazard string) (*domain.HBOMTree, error) {
	tree, prepared, err := s.loadInputs(ctx, sector, hazard)
	if err != nil {
		s.metrics.AssessmentsTotal.WithLabelValues(hazard, "error").Inc()
		return nil, err
	}

	annotated := s.computer.ComputeForTree(tree, hazard, prepared)
	s.metrics.AssessmentsTotal.WithLabelValues(hazard, "success").Inc()

	s.publish(ctx, annotated, hazard)
	return annotated, nil
}

// Timeseries computes the per-component PoF time series map for the sector
// and hazard, aligned to the dataset's time axis.
func (s *Service) Timeseries(ctx context.Context, sector, hazard string) (map[string]map[string][]float64, error) {
	tree, prepared, err := s.loadInputs(ctx, sector, hazard)
	if err != nil {
		s.metrics.AssessmentsTotal.WithLabelValues(hazard, "error").Inc()
		return nil, err
	}

	series := s.computer.ComputeTimeseries(tree, hazard, prepared)
	s.metrics.AssessmentsTotal.WithLabelValues(hazard, "success").Inc()
	return series, nil
}

// CheckReadiness reports whether at least one hazard has prepared climate
// data available to compute against.
func (s *Service) CheckReadiness(ctx context.Context) error {
	for _, def := range s.hazards.List() {
		if s.climate.Available(ctx, def) {
			return nil
		}
	}
	return errors.New("no prepared climate data available for any hazard")
}

func (s *Service) loadInputs(ctx context.Context, sector, hazard string) (*domain.HBOMTree, *domain.PreparedDataset, error) {
	def, ok := s.hazards.Get(hazard)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownHazard, hazard)
	}

	if !s.climate.Available(ctx, def) {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoClimateData, hazard)
	}
	prepared, err := s.climate.PreparedData(ctx, def)
	if err != nil {
		return nil, nil, fmt.Errorf("load climate data: %w", err)
	}

	flat, err := s.hboms.FlatComponents(ctx, sector)
	if err != nil {
		return nil, nil, fmt.Errorf("load components: %w", err)
	}
	if len(flat) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoComponents, sector)
	}
	curves, err := s.hboms.FragilityCurves(ctx, sector)
	if err != nil {
		return nil, nil, fmt.Errorf("load fragility curves: %w", err)
	}

	roots, err := s.recon.Reconstruct(flat, curves)
	if err != nil {
		return nil, nil, fmt.Errorf("reconstruct tree: %w", err)
	}
	if len(roots) == 0 {
		return nil, nil, fmt.Errorf("%w: %q", ErrNoComponents, sector)
	}
	domain.FilterHazard(roots, hazard)

	return &domain.HBOMTree{Sector: sector, Components: roots}, prepared, nil
}

// publish emits the summary event. Publishing is best-effort: a sink outage
// must not fail the assessment that already completed.
func (s *Service) publish(ctx context.Context, tree *domain.HBOMTree, hazard string) {
	if s.publisher == nil {
		return
	}
	summary := domain.NewAssessmentSummary(uuid.NewString(), tree, hazard)
	if err := s.publisher.PublishSummary(ctx, summary); err != nil {
		s.logger.Warn("summary publish failed",
			"assessment_id", summary.ID,
			"sector", summary.Sector,
			"hazard", summary.Hazard,
			"error", err,
		)
		return
	}
	s.metrics.SummariesPublished.Inc()
}
