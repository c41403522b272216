package domain

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesMarshalJSON(t *testing.T) {
	t.Run("non-finite values become null", func(t *testing.T) {
		s := Series{1.5, math.NaN(), math.Inf(1), math.Inf(-1), 0}

		data, err := json.Marshal(s)

		require.NoError(t, err)
		assert.JSONEq(t, `[1.5, null, null, null, 0]`, string(data))
	})

	t.Run("empty series", func(t *testing.T) {
		data, err := json.Marshal(Series{})

		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("marshals inside a struct field", func(t *testing.T) {
		curve := GridCurve{
			XValues:  Series{10, math.NaN()},
			FCValues: Series{0.1, 0.2},
			FinalPoF: 0.2,
		}

		data, err := json.Marshal(curve)

		require.NoError(t, err)
		assert.JSONEq(t, `{"x_values":[10,null],"fc_values":[0.1,0.2],"final_pof":0.2}`, string(data))
	})
}

func TestSeriesUnmarshalJSON(t *testing.T) {
	t.Run("null becomes NaN", func(t *testing.T) {
		var s Series
		require.NoError(t, json.Unmarshal([]byte(`[0.5, null, 2]`), &s))

		require.Len(t, s, 3)
		assert.Equal(t, 0.5, s[0])
		assert.True(t, math.IsNaN(s[1]))
		assert.Equal(t, 2.0, s[2])
	})

	t.Run("round trip preserves gaps", func(t *testing.T) {
		orig := Series{3, math.NaN(), 7}

		data, err := json.Marshal(orig)
		require.NoError(t, err)

		var back Series
		require.NoError(t, json.Unmarshal(data, &back))
		require.Len(t, back, 3)
		assert.Equal(t, 3.0, back[0])
		assert.True(t, math.IsNaN(back[1]))
		assert.Equal(t, 7.0, back[2])
	})

	t.Run("malformed input errors", func(t *testing.T) {
		var s Series
		assert.Error(t, json.Unmarshal([]byte(`{"not":"a list"}`), &s))
	})
}

func TestSeriesClone(t *testing.T) {
	orig := Series{1, 2, 3}
	cp := orig.Clone()
	cp[0] = 99

	assert.Equal(t, 1.0, orig[0])
	assert.Nil(t, Series(nil).Clone())
}

func TestSanitizeUnit(t *testing.T) {
	assert.Equal(t, 0.0, SanitizeUnit(math.NaN()))
	assert.Equal(t, 0.0, SanitizeUnit(-0.2))
	assert.Equal(t, 1.0, SanitizeUnit(1.7))
	assert.Equal(t, 1.0, SanitizeUnit(math.Inf(1)))
	assert.Equal(t, 0.0, SanitizeUnit(math.Inf(-1)))
	assert.Equal(t, 0.42, SanitizeUnit(0.42))
}
