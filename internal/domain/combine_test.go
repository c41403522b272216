package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeriesCombine(t *testing.T) {
	t.Run("two members", func(t *testing.T) {
		// 1 - (1-0.2)(1-0.4) = 0.52
		assert.InDelta(t, 0.52, SeriesCombine(0.2, 0.4), 1e-12)
	})

	t.Run("no members", func(t *testing.T) {
		assert.Equal(t, 0.0, SeriesCombine())
	})

	t.Run("corrupt input degrades to no-failure", func(t *testing.T) {
		assert.InDelta(t, 0.3, SeriesCombine(0.3, math.NaN(), -2), 1e-12)
	})
}

func TestCombineNode(t *testing.T) {
	t.Run("own in series with two children", func(t *testing.T) {
		own := map[string]float64{"tas": 0.3}
		children := []map[string]float64{{"tas": 0.2}, {"tas": 0.4}}

		combined, headline := CombineNode(own, children)

		// 1 - 0.7 * (1 - 0.52) = 0.664
		assert.InDelta(t, 0.664, combined["tas"], 1e-12)
		assert.InDelta(t, 0.664, headline, 1e-12)
	})

	t.Run("variable union across node and children", func(t *testing.T) {
		own := map[string]float64{"tas": 0.5}
		children := []map[string]float64{{"sfcWind": 0.2}}

		combined, headline := CombineNode(own, children)

		assert.InDelta(t, 0.5, combined["tas"], 1e-12)
		assert.InDelta(t, 0.2, combined["sfcWind"], 1e-12)
		assert.InDelta(t, 0.5, headline, 1e-12)
	})

	t.Run("no data at all", func(t *testing.T) {
		combined, headline := CombineNode(nil, nil)

		assert.Empty(t, combined)
		assert.Equal(t, 0.0, headline)
	})

	t.Run("combining never decreases risk", func(t *testing.T) {
		grid := []float64{0, 0.1, 0.5, 0.9, 1}
		for _, ownPoF := range grid {
			for _, childA := range grid {
				for _, childB := range grid {
					own := map[string]float64{"v": ownPoF}
					children := []map[string]float64{{"v": childA}, {"v": childB}}

					combined, _ := CombineNode(own, children)

					childCombined := SeriesCombine(childA, childB)
					assert.GreaterOrEqual(t, combined["v"]+1e-12, math.Max(ownPoF, childCombined),
						"own=%v children=%v,%v", ownPoF, childA, childB)
					assert.LessOrEqual(t, combined["v"], 1.0)
				}
			}
		}
	})
}

func TestReduceGrids(t *testing.T) {
	t.Run("worst cell dominates", func(t *testing.T) {
		grids := map[int]*GridCurve{
			0: {FinalPoF: 0.2},
			1: {FinalPoF: 0.7},
			2: {FinalPoF: 0.4},
		}
		assert.Equal(t, 0.7, ReduceGrids(grids))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, 0.0, ReduceGrids(nil))
	})

	t.Run("non-finite final pof is ignored", func(t *testing.T) {
		grids := map[int]*GridCurve{
			0: {FinalPoF: math.NaN()},
			1: {FinalPoF: 0.3},
		}
		assert.Equal(t, 0.3, ReduceGrids(grids))
	})
}

func TestMaxAtTimestep(t *testing.T) {
	grids := map[int]*GridCurve{
		0: {FCValues: Series{0.1, 0.2, 0.3}},
		1: {FCValues: Series{0.5, 0.1}},
	}

	assert.Equal(t, 0.5, MaxAtTimestep(grids, 0))
	assert.Equal(t, 0.2, MaxAtTimestep(grids, 1))
	// The short cell contributes 0 past its end.
	assert.Equal(t, 0.3, MaxAtTimestep(grids, 2))
	assert.Equal(t, 0.0, MaxAtTimestep(grids, 3))
}
