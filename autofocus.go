package mdaseq

// AutofocusPlan describes when and how a hardware autofocus device is
// engaged during a sequence. The variant set is closed: the engine only
// understands the variants defined in this package.
type AutofocusPlan interface {
	validateAF() error

	// sealed marks the closed variant set.
	sealed()
}

// AxesBasedAF engages autofocus whenever the index of any of the listed
// axes changes between emitted events. It operates relative to the
// current focal plane, so it requires a relative z plan (or none).
type AxesBasedAF struct {
	// Device names the hardware autofocus z device.
	Device string `yaml:"device" json:"device" mapstructure:"device"`
	// MotorOffset is the autofocus motor position to apply before the
	// device is engaged, if any.
	MotorOffset *float64 `yaml:"motor_offset,omitempty" json:"motor_offset,omitempty" mapstructure:"motor_offset"`
	// Axes lists the trigger axes. An event whose index differs from the
	// last triggering event on any of these axes re-engages autofocus.
	Axes []Axis `yaml:"axes" json:"axes" mapstructure:"axes"`
}

func (a AxesBasedAF) sealed() {}

func (a AxesBasedAF) validateAF() error {
	if a.Device == "" {
		return &ConfigError{Field: "autofocus_plan", Reason: "device name is required"}
	}
	for _, ax := range a.Axes {
		if !isAxis(ax) {
			return &ConfigError{
				Field:  "autofocus_plan",
				Reason: "unknown trigger axis " + string(ax),
			}
		}
	}
	return nil
}

// PerformAF is the resolved autofocus directive attached to an event.
type PerformAF struct {
	// Device names the hardware autofocus z device.
	Device string `yaml:"device" json:"device"`
	// FocusZ is the stage z anchored to the focal plane: the event's z
	// with the active relative z-plan offset removed, so the stored value
	// does not drift with the stack.
	FocusZ *float64 `yaml:"focus_z,omitempty" json:"focus_z,omitempty"`
	// MotorOffset is the autofocus motor position, from the plan.
	MotorOffset *float64 `yaml:"motor_offset,omitempty" json:"motor_offset,omitempty"`
}
