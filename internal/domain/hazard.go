package domain

// HazardDefinition declares which climate variables a hazard needs and which
// of them are computed locally from base variables.
type HazardDefinition struct {
	Name               string   `json:"name"`
	DisplayName        string   `json:"display_name"`
	BaseVariables      []string `json:"base_variables"`
	CompositeVariables []string `json:"composite_variables"`
	Description        string   `json:"description,omitempty"`
}

// AllVariables returns base plus composite variables, base first.
func (d HazardDefinition) AllVariables() []string {
	out := make([]string, 0, len(d.BaseVariables)+len(d.CompositeVariables))
	out = append(out, d.BaseVariables...)
	out = append(out, d.CompositeVariables...)
	return out
}

// HazardRegistry is the single source of truth for supported hazards.
// Adding a hazard means adding one definition.
type HazardRegistry struct {
	defs  map[string]HazardDefinition
	order []string
}

// DefaultHazards returns the registry of supported hazards.
func DefaultHazards() *HazardRegistry {
	r := &HazardRegistry{defs: map[string]HazardDefinition{}}
	r.add(HazardDefinition{
		Name:               "Heat Stress",
		DisplayName:        "Heat Stress",
		BaseVariables:      []string{"tas", "hurs"},
		CompositeVariables: []string{"hi"},
		Description:        "Temperature and humidity-based heat stress",
	})
	r.add(HazardDefinition{
		Name:          "Drought",
		DisplayName:   "Drought",
		BaseVariables: []string{"pr", "rsds", "sfcWind"},
		Description:   "Precipitation deficit and evapotranspiration",
	})
	r.add(HazardDefinition{
		Name:          "Wind",
		DisplayName:   "Extreme Wind",
		BaseVariables: []string{"sfcWind"},
		Description:   "Surface wind speed",
	})
	return r
}

func (r *HazardRegistry) add(d HazardDefinition) {
	if _, exists := r.defs[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.defs[d.Name] = d
}

// Get looks up a hazard definition by name.
func (r *HazardRegistry) Get(name string) (HazardDefinition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// List returns all definitions in registration order.
func (r *HazardRegistry) List() []HazardDefinition {
	out := make([]HazardDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}
