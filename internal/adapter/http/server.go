// Package http exposes the fragility REST endpoints plus health, readiness,
// and metrics routes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/service"
)

// AssessmentAPI is the service surface the server exposes.
type AssessmentAPI interface {
	Assess(ctx context.Context, sector, hazard string) (*domain.HBOMTree, error)
	Timeseries(ctx context.Context, sector, hazard string) (map[string]map[string][]float64, error)
	Hazards() []domain.HazardDefinition
	CheckReadiness(ctx context.Context) error
}

// Server exposes the assessment API over HTTP.
type Server struct {
	httpServer     *http.Server
	api            AssessmentAPI
	logger         *slog.Logger
	requestTimeout time.Duration
}

// NewServer creates an HTTP server with the fragility API and operational
// routes.
func NewServer(addr string, api AssessmentAPI, requestTimeout time.Duration, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: requestTimeout + 10*time.Second,
			IdleTimeout:  60 * time.Second,
		},
		api:            api,
		logger:         logger,
		requestTimeout: requestTimeout,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/hazards", s.handleHazards)
	mux.HandleFunc("GET /api/fragility/compute/{sector}/{hazard}", s.handleCompute)
	mux.HandleFunc("GET /api/fragility/timeseries/{sector}/{hazard}", s.handleTimeseries)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.api.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleHazards(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"hazards": s.api.Hazards()})
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	sector, hazard := r.PathValue("sector"), r.PathValue("hazard")
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	tree, err := s.api.Assess(ctx, sector, hazard)
	if err != nil {
		s.writeError(w, sector, hazard, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

func (s *Server) handleTimeseries(w http.ResponseWriter, r *http.Request) {
	sector, hazard := r.PathValue("sector"), r.PathValue("hazard")
	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	series, err := s.api.Timeseries(ctx, sector, hazard)
	if err != nil {
		s.writeError(w, sector, hazard, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) writeError(w http.ResponseWriter, sector, hazard string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNoClimateData), errors.Is(err, service.ErrUnknownHazard):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNoComponents):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("assessment request failed", "sector", sector, "hazard", hazard, "error", err)
	}
	writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
