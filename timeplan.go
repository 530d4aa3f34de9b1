package mdaseq

import "math"

// TimePlan yields the minimum start time, in seconds, of each time point.
// Implementations are immutable and iterate in acquisition order.
type TimePlan interface {
	// Times returns the ordered start offsets in seconds.
	Times() []float64

	validateTime() error
}

// TIntervalLoops acquires a fixed number of loops at a fixed interval.
type TIntervalLoops struct {
	Interval float64 `yaml:"interval" json:"interval" mapstructure:"interval"` // seconds
	Loops    int     `yaml:"loops" json:"loops" mapstructure:"loops"`
}

func (t TIntervalLoops) Times() []float64 {
	times := make([]float64, t.Loops)
	for i := range times {
		times[i] = float64(i) * t.Interval
	}
	return times
}

func (t TIntervalLoops) validateTime() error {
	if t.Loops < 1 {
		return &ConfigError{Field: "time_plan", Reason: "loops must be >= 1"}
	}
	if t.Interval < 0 {
		return &ConfigError{Field: "time_plan", Reason: "interval must be >= 0"}
	}
	return nil
}

// TIntervalDuration acquires at a fixed interval for a total duration.
// The number of loops is floor(duration/interval)+1, so both endpoints
// are included.
type TIntervalDuration struct {
	Interval float64 `yaml:"interval" json:"interval" mapstructure:"interval"` // seconds
	Duration float64 `yaml:"duration" json:"duration" mapstructure:"duration"` // seconds
}

func (t TIntervalDuration) Times() []float64 {
	loops := int(math.Floor(t.Duration/t.Interval+1e-9)) + 1
	times := make([]float64, loops)
	for i := range times {
		times[i] = float64(i) * t.Interval
	}
	return times
}

func (t TIntervalDuration) validateTime() error {
	if t.Interval <= 0 {
		return &ConfigError{Field: "time_plan", Reason: "interval must be > 0"}
	}
	if t.Duration < 0 {
		return &ConfigError{Field: "time_plan", Reason: "duration must be >= 0"}
	}
	return nil
}

// TDurationLoops spreads a fixed number of loops evenly over a duration.
type TDurationLoops struct {
	Duration float64 `yaml:"duration" json:"duration" mapstructure:"duration"` // seconds
	Loops    int     `yaml:"loops" json:"loops" mapstructure:"loops"`
}

func (t TDurationLoops) Times() []float64 {
	times := make([]float64, t.Loops)
	if t.Loops == 1 {
		return times
	}
	interval := t.Duration / float64(t.Loops-1)
	for i := range times {
		times[i] = float64(i) * interval
	}
	return times
}

func (t TDurationLoops) validateTime() error {
	if t.Loops < 1 {
		return &ConfigError{Field: "time_plan", Reason: "loops must be >= 1"}
	}
	if t.Duration < 0 {
		return &ConfigError{Field: "time_plan", Reason: "duration must be >= 0"}
	}
	return nil
}

// MultiPhaseTimePlan chains several time plans. Later phases continue from
// the last emitted time: each contributes its non-zero offsets shifted by
// the running total, so phase boundaries are not acquired twice.
type MultiPhaseTimePlan struct {
	Phases []TimePlan `yaml:"phases" json:"phases" mapstructure:"phases"`
}

func (t MultiPhaseTimePlan) Times() []float64 {
	var times []float64
	for i, phase := range t.Phases {
		pt := phase.Times()
		if i == 0 {
			times = append(times, pt...)
			continue
		}
		var last float64
		if len(times) > 0 {
			last = times[len(times)-1]
		}
		if len(pt) > 1 {
			for _, v := range pt[1:] {
				times = append(times, last+v)
			}
		}
	}
	return times
}

func (t MultiPhaseTimePlan) validateTime() error {
	for _, phase := range t.Phases {
		if err := phase.validateTime(); err != nil {
			return err
		}
	}
	return nil
}
