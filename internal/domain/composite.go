package domain

import (
	"fmt"
	"math"
)

// CompositeFunc derives one series from a grid cell's base-variable series.
// The result must be aligned to the same time axis; entries it cannot compute
// should be NaN.
type CompositeFunc func(climate map[string]Series, steps int) (Series, error)

// CompositeRegistry maps composite variable names to their transforms. It is
// built once at startup and passed by reference, so tests and callers can
// carry their own registries.
type CompositeRegistry struct {
	funcs map[string]CompositeFunc
}

// NewCompositeRegistry returns a registry with the built-in composites
// registered: "hi" (heat index).
func NewCompositeRegistry() *CompositeRegistry {
	r := &CompositeRegistry{funcs: map[string]CompositeFunc{}}
	r.Register("hi", HeatIndex)
	return r
}

// Register adds or replaces a composite transform.
func (r *CompositeRegistry) Register(name string, fn CompositeFunc) {
	r.funcs[name] = fn
}

// Has reports whether a composite is registered.
func (r *CompositeRegistry) Has(name string) bool {
	_, ok := r.funcs[name]
	return ok
}

// Derive computes the named composites into every grid cell of the dataset
// and appends them to its variable list. Composites already present in the
// dataset are left alone; cells missing a required base variable simply do
// not receive the composite series.
func (r *CompositeRegistry) Derive(ds *PreparedDataset, names []string) error {
	steps := len(ds.Times)
	for _, name := range names {
		if ds.HasVariable(name) {
			continue
		}
		fn, ok := r.funcs[name]
		if !ok {
			return fmt.Errorf("unknown composite variable: %q", name)
		}
		derived := false
		for i := range ds.Data {
			series, err := fn(ds.Data[i].Climate, steps)
			if err != nil {
				continue
			}
			if ds.Data[i].Climate == nil {
				ds.Data[i].Climate = map[string]Series{}
			}
			ds.Data[i].Climate[name] = series
			derived = true
		}
		if derived {
			ds.Variables = append(ds.Variables, name)
		}
	}
	return nil
}

// HeatIndex computes the NWS heat index (°F) from air temperature ("tas",
// Kelvin) and relative humidity ("hurs", %). Below 80°F or 40% RH the
// apparent temperature is the air temperature itself; above, the Rothfusz
// regression applies.
func HeatIndex(climate map[string]Series, steps int) (Series, error) {
	tas, okT := climate["tas"]
	hurs, okH := climate["hurs"]
	if !okT || !okH {
		return nil, fmt.Errorf("heat index requires tas and hurs")
	}

	out := make(Series, steps)
	for i := range out {
		if i >= len(tas) || i >= len(hurs) {
			out[i] = math.NaN()
			continue
		}
		tempF := (tas[i]-273.15)*9/5 + 32
		rh := hurs[i]
		if math.IsNaN(tempF) || math.IsNaN(rh) {
			out[i] = math.NaN()
			continue
		}
		out[i] = rothfusz(tempF, rh)
	}
	return out, nil
}

func rothfusz(tempF, rh float64) float64 {
	if tempF < 80 || rh < 40 {
		return tempF
	}
	return -42.379 +
		2.04901523*tempF +
		10.14333127*rh -
		0.22475541*tempF*rh -
		0.00683783*tempF*tempF -
		0.05481717*rh*rh +
		0.00122874*tempF*tempF*rh +
		0.00085282*tempF*rh*rh -
		0.00000199*tempF*tempF*rh*rh
}
