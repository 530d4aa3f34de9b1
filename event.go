package mdaseq

import (
	"fmt"
	"sort"
	"strings"
)

// EventChannel identifies the channel an event acquires.
type EventChannel struct {
	Config string `yaml:"config" json:"config" mapstructure:"config"`
	Group  string `yaml:"group,omitempty" json:"group,omitempty" mapstructure:"group"`
}

// Event is one fully resolved acquisition instruction. All hardware state
// is explicit: a consumer needs no knowledge of the plans that produced it.
type Event struct {
	// Index holds the per-axis counters of this event, only for axes the
	// sequence actually uses.
	Index map[Axis]int `yaml:"index" json:"index"`

	Channel      *EventChannel `yaml:"channel,omitempty" json:"channel,omitempty"`
	Exposure     *float64      `yaml:"exposure,omitempty" json:"exposure,omitempty"`
	MinStartTime *float64      `yaml:"min_start_time,omitempty" json:"min_start_time,omitempty"`
	PosName      string        `yaml:"pos_name,omitempty" json:"pos_name,omitempty"`
	X            *float64      `yaml:"x_pos,omitempty" json:"x_pos,omitempty"`
	Y            *float64      `yaml:"y_pos,omitempty" json:"y_pos,omitempty"`
	Z            *float64      `yaml:"z_pos,omitempty" json:"z_pos,omitempty"`

	// Properties are device property settings to apply before acquiring.
	Properties []PropertyValue `yaml:"properties,omitempty" json:"properties,omitempty"`

	// Autofocus, when non-nil, directs the consumer to run a hardware
	// autofocus routine before acquiring this frame.
	Autofocus *PerformAF `yaml:"autofocus,omitempty" json:"autofocus,omitempty"`

	// GlobalIndex numbers emitted events contiguously from zero; skipped
	// combinations leave no gaps.
	GlobalIndex int `yaml:"global_index" json:"global_index"`

	// Sequence points back at the top-level sequence that produced this
	// event, also for events that originated in a position sub-sequence.
	Sequence *Sequence `yaml:"-" json:"-"`
}

// String renders a compact single-line summary for logs and tables.
func (e Event) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "event %d [%s]", e.GlobalIndex, formatIndex(e.Index))
	if e.Channel != nil {
		fmt.Fprintf(&b, " ch=%s", e.Channel.Config)
	}
	if e.PosName != "" {
		fmt.Fprintf(&b, " pos=%s", e.PosName)
	}
	if e.X != nil {
		fmt.Fprintf(&b, " x=%g", *e.X)
	}
	if e.Y != nil {
		fmt.Fprintf(&b, " y=%g", *e.Y)
	}
	if e.Z != nil {
		fmt.Fprintf(&b, " z=%g", *e.Z)
	}
	if e.MinStartTime != nil {
		fmt.Fprintf(&b, " t=%gs", *e.MinStartTime)
	}
	if e.Autofocus != nil {
		b.WriteString(" af")
	}
	return b.String()
}

func formatIndex(index map[Axis]int) string {
	keys := make([]string, 0, len(index))
	for a := range index {
		keys = append(keys, string(a))
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, index[Axis(k)]))
	}
	return strings.Join(parts, " ")
}
