package mdaseq

import "math"

// ZPlan yields the ordered z values of a stack, either absolute device
// coordinates or offsets relative to a stage position's z.
type ZPlan interface {
	// Values returns the ordered z positions or offsets, in microns.
	Values() []float64
	// IsRelative reports whether values are offsets from a position's z
	// rather than absolute device coordinates.
	IsRelative() bool

	validateZ() error
}

// stepped builds an arithmetic series start, start+step, ... of n values.
func stepped(start, step float64, n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	return vals
}

// stepCount returns the number of steps covering span, endpoints included.
func stepCount(span, step float64) int {
	if span <= 0 || step <= 0 {
		return 1
	}
	return int(math.Floor(span/step+1e-9)) + 1
}

// ZTopBottom is an absolute stack between two device coordinates,
// acquired bottom to top.
type ZTopBottom struct {
	Top    float64 `yaml:"top" json:"top" mapstructure:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom" mapstructure:"bottom"`
	Step   float64 `yaml:"step" json:"step" mapstructure:"step"`
}

func (z ZTopBottom) Values() []float64 {
	return stepped(z.Bottom, z.Step, stepCount(z.Top-z.Bottom, z.Step))
}

func (z ZTopBottom) IsRelative() bool { return false }

func (z ZTopBottom) validateZ() error {
	if z.Top < z.Bottom {
		return &ConfigError{Field: "z_plan", Reason: "top must be >= bottom"}
	}
	if z.Top > z.Bottom && z.Step <= 0 {
		return &ConfigError{Field: "z_plan", Reason: "step must be > 0"}
	}
	return nil
}

// ZRangeAround is a relative stack of the given total range symmetric
// around the position's z.
type ZRangeAround struct {
	Range float64 `yaml:"range" json:"range" mapstructure:"range"`
	Step  float64 `yaml:"step" json:"step" mapstructure:"step"`
}

func (z ZRangeAround) Values() []float64 {
	return stepped(-z.Range/2, z.Step, stepCount(z.Range, z.Step))
}

func (z ZRangeAround) IsRelative() bool { return true }

func (z ZRangeAround) validateZ() error {
	if z.Range < 0 {
		return &ConfigError{Field: "z_plan", Reason: "range must be >= 0"}
	}
	if z.Range > 0 && z.Step <= 0 {
		return &ConfigError{Field: "z_plan", Reason: "step must be > 0"}
	}
	return nil
}

// ZAboveBelow is a relative stack spanning below microns under to above
// microns over the position's z.
type ZAboveBelow struct {
	Above float64 `yaml:"above" json:"above" mapstructure:"above"`
	Below float64 `yaml:"below" json:"below" mapstructure:"below"`
	Step  float64 `yaml:"step" json:"step" mapstructure:"step"`
}

func (z ZAboveBelow) Values() []float64 {
	return stepped(-z.Below, z.Step, stepCount(z.Above+z.Below, z.Step))
}

func (z ZAboveBelow) IsRelative() bool { return true }

func (z ZAboveBelow) validateZ() error {
	if z.Above < 0 || z.Below < 0 {
		return &ConfigError{Field: "z_plan", Reason: "above and below must be >= 0"}
	}
	if z.Above+z.Below > 0 && z.Step <= 0 {
		return &ConfigError{Field: "z_plan", Reason: "step must be > 0"}
	}
	return nil
}

// ZRelativePositions is an explicit list of offsets from the position's z.
type ZRelativePositions struct {
	Relative []float64 `yaml:"relative" json:"relative" mapstructure:"relative"`
}

func (z ZRelativePositions) Values() []float64 { return z.Relative }

func (z ZRelativePositions) IsRelative() bool { return true }

func (z ZRelativePositions) validateZ() error { return nil }

// ZAbsolutePositions is an explicit list of absolute device coordinates.
type ZAbsolutePositions struct {
	Absolute []float64 `yaml:"absolute" json:"absolute" mapstructure:"absolute"`
}

func (z ZAbsolutePositions) Values() []float64 { return z.Absolute }

func (z ZAbsolutePositions) IsRelative() bool { return false }

func (z ZAbsolutePositions) validateZ() error { return nil }
