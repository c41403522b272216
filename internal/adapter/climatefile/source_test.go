package climatefile

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbphil/final-ACCLIMATE/internal/domain"
)

const heatStressFixture = `{
  "variables": ["tas", "hurs"],
  "times": ["2025-01-01T00:00:00", "2025-01-01T03:00:00"],
  "data": [
    {
      "grid_index": 0,
      "bounds": {"min_lat": 34.0, "max_lat": 34.5, "min_lon": -118.5, "max_lon": -118.0},
      "climate": {
        "tas": [305.15, null],
        "hurs": [70.0, 65.0]
      }
    }
  ]
}`

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	climateDir := filepath.Join(dir, "climate")
	require.NoError(t, os.MkdirAll(climateDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(climateDir, name), []byte(content), 0o644))
}

func heatStressDef() domain.HazardDefinition {
	def, ok := domain.DefaultHazards().Get("Heat Stress")
	if !ok {
		panic("Heat Stress not registered")
	}
	return def
}

func TestPreparedData(t *testing.T) {
	t.Run("loads dataset and derives composites", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "heat_stress.json", heatStressFixture)
		src := New(dir, domain.NewCompositeRegistry(), slog.Default())

		ds, err := src.PreparedData(context.Background(), heatStressDef())

		require.NoError(t, err)
		assert.Equal(t, []string{"tas", "hurs", "hi"}, ds.Variables)
		require.Len(t, ds.Data, 1)

		hi := ds.Data[0].Climate["hi"]
		require.Len(t, hi, 2)
		assert.False(t, math.IsNaN(hi[0]))
		// The null tas entry propagates as a gap.
		assert.True(t, math.IsNaN(hi[1]))
	})

	t.Run("null climate entries unmarshal as NaN", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "heat_stress.json", heatStressFixture)
		src := New(dir, domain.NewCompositeRegistry(), slog.Default())

		ds, err := src.PreparedData(context.Background(), heatStressDef())

		require.NoError(t, err)
		tas := ds.Data[0].Climate["tas"]
		assert.Equal(t, 305.15, tas[0])
		assert.True(t, math.IsNaN(tas[1]))
	})

	t.Run("missing file errors", func(t *testing.T) {
		src := New(t.TempDir(), domain.NewCompositeRegistry(), slog.Default())

		_, err := src.PreparedData(context.Background(), heatStressDef())

		assert.Error(t, err)
	})

	t.Run("malformed file errors", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "heat_stress.json", "{not json")
		src := New(dir, domain.NewCompositeRegistry(), slog.Default())

		_, err := src.PreparedData(context.Background(), heatStressDef())

		assert.ErrorContains(t, err, "parse climate data")
	})

	t.Run("cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFixture(t, dir, "heat_stress.json", heatStressFixture)
		src := New(dir, domain.NewCompositeRegistry(), slog.Default())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := src.PreparedData(ctx, heatStressDef())

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestAvailable(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "heat_stress.json", heatStressFixture)
	src := New(dir, domain.NewCompositeRegistry(), slog.Default())

	def := heatStressDef()
	assert.True(t, src.Available(context.Background(), def))

	wind, _ := domain.DefaultHazards().Get("Wind")
	assert.False(t, src.Available(context.Background(), wind))
}

func TestHazardSlug(t *testing.T) {
	assert.Equal(t, "heat_stress", hazardSlug("Heat Stress"))
	assert.Equal(t, "wind", hazardSlug(" Wind "))
}
