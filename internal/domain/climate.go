package domain

// GridBounds is the spatial extent of one grid cell or of a whole dataset,
// in WGS-84 degrees.
type GridBounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// GridCell is one discretized spatial unit of a prepared climate dataset.
// Every series in Climate is aligned to the dataset's shared time axis;
// missing observations are NaN (JSON null).
type GridCell struct {
	GridIndex int               `json:"grid_index"`
	Bounds    GridBounds        `json:"bounds"`
	Climate   map[string]Series `json:"climate"`
}

// PreparedDataset is the climate pipeline's output consumed by the fragility
// engine: spatially subset, unit-converted, ensemble-aggregated series per
// grid cell and variable.
type PreparedDataset struct {
	Variables         []string    `json:"variables"`
	VariableLongNames []string    `json:"variable_long_names,omitempty"`
	Times             []string    `json:"times"`
	BoundingBox       *GridBounds `json:"bounding_box,omitempty"`
	Data              []GridCell  `json:"data"`
}

// HasVariable reports whether the dataset carries a series for the variable
// in at least one grid cell.
func (d *PreparedDataset) HasVariable(name string) bool {
	for _, v := range d.Variables {
		if v == name {
			return true
		}
	}
	return false
}
