package mdaseq

import "math"

// GridMode selects the traversal order of grid rows.
type GridMode string

const (
	// GridModeSerpentine reverses every other row, minimizing stage travel.
	// This is the default.
	GridModeSerpentine GridMode = "serpentine"
	// GridModeRaster traverses every row left to right.
	GridModeRaster GridMode = "raster"
)

func (m GridMode) valid() bool {
	return m == "" || m == GridModeSerpentine || m == GridModeRaster
}

// GridPosition is one resolved grid/tile coordinate.
type GridPosition struct {
	X   float64
	Y   float64
	Row int
	Col int
}

// GridPlan yields the ordered tile coordinates of a grid acquisition.
// Iteration depends on the current field-of-view size, which converts
// percentage overlap into physical spacing.
type GridPlan interface {
	// Positions returns the ordered tile coordinates for the given
	// field-of-view size, in microns.
	Positions(fovWidth, fovHeight float64) []GridPosition
	// IsRelative reports whether coordinates are offsets from a stage
	// position rather than absolute device coordinates.
	IsRelative() bool

	validateGrid() error
}

// gridSpacing converts overlap percentages into physical tile spacing.
func gridSpacing(fovW, fovH, overlapX, overlapY float64) (dx, dy float64) {
	return fovW * (1 - overlapX/100), fovH * (1 - overlapY/100)
}

// walkGrid emits rows*cols tiles starting at (x0, y0), the top-left tile
// center, honoring the traversal mode. Rows advance in -y.
func walkGrid(rows, cols int, x0, y0, dx, dy float64, mode GridMode) []GridPosition {
	out := make([]GridPosition, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for i := 0; i < cols; i++ {
			c := i
			if mode != GridModeRaster && r%2 == 1 {
				c = cols - 1 - i
			}
			out = append(out, GridPosition{
				X:   x0 + float64(c)*dx,
				Y:   y0 - float64(r)*dy,
				Row: r,
				Col: c,
			})
		}
	}
	return out
}

// GridRelative is a rows x columns grid of tiles centered on the current
// stage position.
type GridRelative struct {
	Rows     int      `yaml:"rows" json:"rows" mapstructure:"rows"`
	Columns  int      `yaml:"columns" json:"columns" mapstructure:"columns"`
	OverlapX float64  `yaml:"overlap_x,omitempty" json:"overlap_x,omitempty" mapstructure:"overlap_x"` // percent of fov width
	OverlapY float64  `yaml:"overlap_y,omitempty" json:"overlap_y,omitempty" mapstructure:"overlap_y"` // percent of fov height
	Mode     GridMode `yaml:"mode,omitempty" json:"mode,omitempty" mapstructure:"mode"`
}

func (g GridRelative) Positions(fovW, fovH float64) []GridPosition {
	dx, dy := gridSpacing(fovW, fovH, g.OverlapX, g.OverlapY)
	x0 := -dx * float64(g.Columns-1) / 2
	y0 := dy * float64(g.Rows-1) / 2
	return walkGrid(g.Rows, g.Columns, x0, y0, dx, dy, g.Mode)
}

func (g GridRelative) IsRelative() bool { return true }

func (g GridRelative) validateGrid() error {
	if g.Rows < 1 || g.Columns < 1 {
		return &ConfigError{Field: "grid_plan", Reason: "rows and columns must be >= 1"}
	}
	if g.OverlapX >= 100 || g.OverlapY >= 100 {
		return &ConfigError{Field: "grid_plan", Reason: "overlap must be < 100 percent"}
	}
	if !g.Mode.valid() {
		return &ConfigError{Field: "grid_plan", Reason: "mode must be serpentine or raster"}
	}
	return nil
}

// GridFromEdges is an absolute grid covering the rectangle bounded by the
// four stage coordinates. Enough tiles are emitted to cover the full
// bounds, starting from the top-left corner.
type GridFromEdges struct {
	Top      float64  `yaml:"top" json:"top" mapstructure:"top"`
	Bottom   float64  `yaml:"bottom" json:"bottom" mapstructure:"bottom"`
	Left     float64  `yaml:"left" json:"left" mapstructure:"left"`
	Right    float64  `yaml:"right" json:"right" mapstructure:"right"`
	OverlapX float64  `yaml:"overlap_x,omitempty" json:"overlap_x,omitempty" mapstructure:"overlap_x"`
	OverlapY float64  `yaml:"overlap_y,omitempty" json:"overlap_y,omitempty" mapstructure:"overlap_y"`
	Mode     GridMode `yaml:"mode,omitempty" json:"mode,omitempty" mapstructure:"mode"`
}

func (g GridFromEdges) Positions(fovW, fovH float64) []GridPosition {
	dx, dy := gridSpacing(fovW, fovH, g.OverlapX, g.OverlapY)
	rows := coverCount(g.Top-g.Bottom, dy)
	cols := coverCount(g.Right-g.Left, dx)
	return walkGrid(rows, cols, g.Left, g.Top, dx, dy, g.Mode)
}

func (g GridFromEdges) IsRelative() bool { return false }

func (g GridFromEdges) validateGrid() error {
	if g.Top < g.Bottom {
		return &ConfigError{Field: "grid_plan", Reason: "top must be >= bottom"}
	}
	if g.Right < g.Left {
		return &ConfigError{Field: "grid_plan", Reason: "right must be >= left"}
	}
	if g.OverlapX >= 100 || g.OverlapY >= 100 {
		return &ConfigError{Field: "grid_plan", Reason: "overlap must be < 100 percent"}
	}
	if !g.Mode.valid() {
		return &ConfigError{Field: "grid_plan", Reason: "mode must be serpentine or raster"}
	}
	return nil
}

// coverCount returns the number of tiles of the given spacing needed to
// cover span.
func coverCount(span, spacing float64) int {
	if span <= 0 || spacing <= 0 {
		return 1
	}
	return int(math.Ceil(span/spacing-1e-9)) + 1
}
