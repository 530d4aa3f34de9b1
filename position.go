package mdaseq

// PropertyValue is a device property override applied while acquiring at
// a stage position.
type PropertyValue struct {
	Device   string `yaml:"device" json:"device" mapstructure:"device"`
	Property string `yaml:"property" json:"property" mapstructure:"property"`
	Value    any    `yaml:"value" json:"value" mapstructure:"value"`
}

// Position is a stage position in up to three dimensions. A nil
// coordinate means "do not move this axis". A position may scope its own
// nested sequence, acquired in place of the parent's per-position events.
type Position struct {
	X    *float64 `yaml:"x,omitempty" json:"x,omitempty" mapstructure:"x"`
	Y    *float64 `yaml:"y,omitempty" json:"y,omitempty" mapstructure:"y"`
	Z    *float64 `yaml:"z,omitempty" json:"z,omitempty" mapstructure:"z"`
	Name string   `yaml:"name,omitempty" json:"name,omitempty" mapstructure:"name"`

	// Sequence is an optional position-local sub-sequence. It may define
	// any plan except stage positions of its own.
	Sequence *Sequence `yaml:"sequence,omitempty" json:"sequence,omitempty" mapstructure:"-"`

	// Properties are device property overrides for this position.
	Properties []PropertyValue `yaml:"properties,omitempty" json:"properties,omitempty" mapstructure:"properties"`
}

// Float returns a pointer to v, for optional coordinate fields.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v, for optional flag fields.
func Bool(v bool) *bool { return &v }
