package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeatIndex(t *testing.T) {
	// 295.15 K = 71.6°F, below the Rothfusz threshold.
	coolK := 295.15
	// 305.15 K = 89.6°F.
	hotK := 305.15

	t.Run("cool or dry air passes temperature through", func(t *testing.T) {
		climate := map[string]Series{
			"tas":  {coolK, hotK},
			"hurs": {80, 30},
		}

		hi, err := HeatIndex(climate, 2)

		require.NoError(t, err)
		require.Len(t, hi, 2)
		assert.InDelta(t, 71.6, hi[0], 1e-9)
		assert.InDelta(t, 89.6, hi[1], 1e-9)
	})

	t.Run("hot humid air reads above air temperature", func(t *testing.T) {
		climate := map[string]Series{
			"tas":  {hotK},
			"hurs": {70},
		}

		hi, err := HeatIndex(climate, 1)

		require.NoError(t, err)
		assert.Greater(t, hi[0], 89.6)
		// NWS tables give roughly 105°F at 90°F / 70% RH.
		assert.InDelta(t, 105, hi[0], 2)
	})

	t.Run("missing base variable", func(t *testing.T) {
		_, err := HeatIndex(map[string]Series{"tas": {hotK}}, 1)

		assert.Error(t, err)
	})

	t.Run("gaps and short series become NaN", func(t *testing.T) {
		climate := map[string]Series{
			"tas":  {hotK, math.NaN()},
			"hurs": {70, 70},
		}

		hi, err := HeatIndex(climate, 3)

		require.NoError(t, err)
		require.Len(t, hi, 3)
		assert.False(t, math.IsNaN(hi[0]))
		assert.True(t, math.IsNaN(hi[1]))
		assert.True(t, math.IsNaN(hi[2]))
	})
}

func TestCompositeRegistryDerive(t *testing.T) {
	newDataset := func() *PreparedDataset {
		return &PreparedDataset{
			Variables: []string{"tas", "hurs"},
			Times:     []string{"2025-01-01", "2025-01-02"},
			Data: []GridCell{
				{GridIndex: 0, Climate: map[string]Series{
					"tas":  {300, 305},
					"hurs": {50, 60},
				}},
			},
		}
	}

	t.Run("derives heat index into every cell", func(t *testing.T) {
		reg := NewCompositeRegistry()
		ds := newDataset()

		require.NoError(t, reg.Derive(ds, []string{"hi"}))

		assert.True(t, ds.HasVariable("hi"))
		require.Contains(t, ds.Data[0].Climate, "hi")
		assert.Len(t, ds.Data[0].Climate["hi"], 2)
	})

	t.Run("already present composite left alone", func(t *testing.T) {
		reg := NewCompositeRegistry()
		ds := newDataset()
		ds.Variables = append(ds.Variables, "hi")
		ds.Data[0].Climate["hi"] = Series{1, 2}

		require.NoError(t, reg.Derive(ds, []string{"hi"}))

		assert.Equal(t, Series{1, 2}, ds.Data[0].Climate["hi"])
	})

	t.Run("unknown composite errors", func(t *testing.T) {
		reg := NewCompositeRegistry()

		err := reg.Derive(newDataset(), []string{"wetbulb"})

		assert.ErrorContains(t, err, "wetbulb")
	})

	t.Run("cell missing base variable is skipped", func(t *testing.T) {
		reg := NewCompositeRegistry()
		ds := newDataset()
		ds.Data = append(ds.Data, GridCell{GridIndex: 1, Climate: map[string]Series{"tas": {300, 305}}})

		require.NoError(t, reg.Derive(ds, []string{"hi"}))

		assert.Contains(t, ds.Data[0].Climate, "hi")
		assert.NotContains(t, ds.Data[1].Climate, "hi")
	})

	t.Run("custom composite registered by caller", func(t *testing.T) {
		reg := NewCompositeRegistry()
		reg.Register("double_tas", func(climate map[string]Series, steps int) (Series, error) {
			tas := climate["tas"]
			out := make(Series, steps)
			for i := range out {
				out[i] = tas[i] * 2
			}
			return out, nil
		})
		ds := newDataset()

		require.NoError(t, reg.Derive(ds, []string{"double_tas"}))

		assert.Equal(t, Series{600, 610}, ds.Data[0].Climate["double_tas"])
	})
}
