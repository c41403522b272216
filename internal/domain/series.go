package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// Series is a time-aligned numeric sequence in which missing observations are
// held as NaN. It marshals NaN and ±Inf as JSON null and unmarshals null back
// to NaN, so non-finite values never reach a serialization layer. This is the
// boundary sanitization contract for every series crossing the subsystem edge.
type Series []float64

// MarshalJSON writes non-finite values as null.
func (s Series) MarshalJSON() ([]byte, error) {
	out := make([]*float64, len(s))
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		v := v
		out[i] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null entries as NaN.
func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal series: %w", err)
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = *v
	}
	*s = out
	return nil
}

// Clone returns an independent copy of the series.
func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// clampUnit forces v into [0,1]. NaN coerces to 0 (the conservative
// no-failure default), +Inf to 1. This is what keeps every PoF figure finite.
func clampUnit(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// SanitizeUnit exposes clampUnit for callers assembling responses from
// already-computed figures.
func SanitizeUnit(v float64) float64 { return clampUnit(v) }
