package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
	"github.com/tbphil/final-ACCLIMATE/internal/service"
)

type stubAPI struct {
	tree     *domain.HBOMTree
	series   map[string]map[string][]float64
	err      error
	readyErr error
}

func (s *stubAPI) Assess(_ context.Context, sector, _ string) (*domain.HBOMTree, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.tree == nil {
		return &domain.HBOMTree{Sector: sector, Components: []*domain.ComponentNode{}}, nil
	}
	return s.tree, nil
}

func (s *stubAPI) Timeseries(_ context.Context, _, _ string) (map[string]map[string][]float64, error) {
	return s.series, s.err
}

func (s *stubAPI) Hazards() []domain.HazardDefinition {
	return domain.DefaultHazards().List()
}

func (s *stubAPI) CheckReadiness(_ context.Context) error {
	return s.readyErr
}

func doRequest(t *testing.T, api *stubAPI, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(":0", api, 5*time.Second, slog.Default())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	t.Run("healthz", func(t *testing.T) {
		rec := doRequest(t, &stubAPI{}, "/healthz")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("readyz ready", func(t *testing.T) {
		rec := doRequest(t, &stubAPI{}, "/readyz")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz not ready", func(t *testing.T) {
		rec := doRequest(t, &stubAPI{readyErr: errors.New("no data")}, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("metrics exposed", func(t *testing.T) {
		rec := doRequest(t, &stubAPI{}, "/metrics")

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestHazardsEndpoint(t *testing.T) {
	rec := doRequest(t, &stubAPI{}, "/api/hazards")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hazards []domain.HazardDefinition `json:"hazards"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Hazards, 3)
	assert.Equal(t, "Heat Stress", body.Hazards[0].Name)
}

func TestComputeEndpoint(t *testing.T) {
	t.Run("returns the annotated tree", func(t *testing.T) {
		api := &stubAPI{tree: &domain.HBOMTree{
			Sector: "power-grid",
			Components: []*domain.ComponentNode{
				{UUID: "root", PoF: 0.42, Hazards: map[string]*domain.HazardBinding{}, Subcomponents: []*domain.ComponentNode{}},
			},
		}}

		rec := doRequest(t, api, "/api/fragility/compute/power-grid/Wind")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var tree domain.HBOMTree
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
		assert.Equal(t, "power-grid", tree.Sector)
		require.Len(t, tree.Components, 1)
		assert.InDelta(t, 0.42, tree.Components[0].PoF, 1e-9)
	})

	t.Run("unknown hazard maps to 400", func(t *testing.T) {
		api := &stubAPI{err: service.ErrUnknownHazard}

		rec := doRequest(t, api, "/api/fragility/compute/power-grid/Earthquake")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing climate data maps to 400", func(t *testing.T) {
		api := &stubAPI{err: service.ErrNoClimateData}

		rec := doRequest(t, api, "/api/fragility/compute/power-grid/Wind")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty sector maps to 404", func(t *testing.T) {
		api := &stubAPI{err: service.ErrNoComponents}

		rec := doRequest(t, api, "/api/fragility/compute/nowhere/Wind")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unexpected error maps to 500", func(t *testing.T) {
		api := &stubAPI{err: errors.New("boom")}

		rec := doRequest(t, api, "/api/fragility/compute/power-grid/Wind")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"detail":"boom"}`, rec.Body.String())
	})
}

func TestTimeseriesEndpoint(t *testing.T) {
	api := &stubAPI{series: map[string]map[string][]float64{
		"tower": {"sfcWind": {0.1, 0.5}},
	}}

	rec := doRequest(t, api, "/api/fragility/timeseries/power-grid/Wind")

	require.Equal(t, http.StatusOK, rec.Code)

	var series map[string]map[string][]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &series))
	assert.Equal(t, []float64{0.1, 0.5}, series["tower"]["sfcWind"])
}
