package mdaseq

// Channel configures one acquisition channel: a named configuration in a
// config group, with per-channel exposure and z behavior.
type Channel struct {
	// Config is the configuration preset name, e.g. "DAPI". Required.
	Config string `yaml:"config" json:"config" mapstructure:"config"`
	// Group is the configuration group. Defaults to "Channel".
	Group string `yaml:"group,omitempty" json:"group,omitempty" mapstructure:"group"`
	// Exposure is the exposure time in milliseconds, if set.
	Exposure *float64 `yaml:"exposure,omitempty" json:"exposure,omitempty" mapstructure:"exposure"`
	// DoStack controls whether this channel is acquired through the full
	// z stack (default) or only at the central plane.
	DoStack *bool `yaml:"do_stack,omitempty" json:"do_stack,omitempty" mapstructure:"do_stack"`
	// ZOffset shifts this channel's focal plane, in microns.
	ZOffset *float64 `yaml:"z_offset,omitempty" json:"z_offset,omitempty" mapstructure:"z_offset"`
	// AcquireEvery strides the time axis: the channel is acquired only at
	// time indices divisible by this value. Defaults to 1 (every frame).
	AcquireEvery int `yaml:"acquire_every,omitempty" json:"acquire_every,omitempty" mapstructure:"acquire_every"`
}

// DefaultChannelGroup is used when a channel does not name a group.
const DefaultChannelGroup = "Channel"

func (c Channel) group() string {
	if c.Group == "" {
		return DefaultChannelGroup
	}
	return c.Group
}

func (c Channel) doStack() bool {
	return c.DoStack == nil || *c.DoStack
}

func (c Channel) acquireEvery() int {
	if c.AcquireEvery == 0 {
		return 1
	}
	return c.AcquireEvery
}

func (c Channel) validate() error {
	if c.Config == "" {
		return &ConfigError{Field: "channels", Reason: "channel config name is required"}
	}
	if c.AcquireEvery < 0 {
		return &ConfigError{Field: "channels", Reason: "acquire_every must be >= 1"}
	}
	if c.Exposure != nil && *c.Exposure <= 0 {
		return &ConfigError{Field: "channels", Reason: "exposure must be > 0"}
	}
	return nil
}
