package mdaseq

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Sequence is an immutable multi-dimensional acquisition: one plan per
// axis plus the order in which axes nest during expansion. Build one with
// New, derive variants with Replace, and expand it with Events.
type Sequence struct {
	axisOrder []Axis
	orderStr  string // pending WithAxisOrder input, parsed during validation
	positions []Position
	channels  []Channel
	timePlan  TimePlan
	zPlan     ZPlan
	gridPlan  GridPlan
	afPlan    AutofocusPlan
	metadata  map[string]any

	uid      uuid.UUID
	warnings []string

	// fovW/fovH convert grid overlap percentages into physical spacing.
	// Mutable via SetFOVSize; everything else is fixed at construction.
	fovW, fovH float64
	total      int // cached event count, -1 until computed
}

// Option configures a Sequence under construction.
type Option func(*Sequence)

// WithAxisOrder sets the nesting order of axes, outermost first,
// as a string of axis tags such as "tpgcz".
func WithAxisOrder(order string) Option {
	return func(s *Sequence) { s.orderStr = order; s.axisOrder = nil }
}

// WithStagePositions sets the stage positions to visit.
func WithStagePositions(positions ...Position) Option {
	return func(s *Sequence) { s.positions = positions }
}

// WithChannels sets the channels to acquire.
func WithChannels(channels ...Channel) Option {
	return func(s *Sequence) { s.channels = channels }
}

// WithTimePlan sets the time plan. A nil plan removes the time axis.
func WithTimePlan(plan TimePlan) Option {
	return func(s *Sequence) { s.timePlan = plan }
}

// WithZPlan sets the z plan. A nil plan removes the z axis.
func WithZPlan(plan ZPlan) Option {
	return func(s *Sequence) { s.zPlan = plan }
}

// WithGridPlan sets the grid/tile plan. A nil plan removes the grid axis.
func WithGridPlan(plan GridPlan) Option {
	return func(s *Sequence) { s.gridPlan = plan }
}

// WithAutofocusPlan sets the hardware autofocus plan.
func WithAutofocusPlan(plan AutofocusPlan) Option {
	return func(s *Sequence) { s.afPlan = plan }
}

// WithMetadata attaches free-form metadata. The engine never interprets it.
func WithMetadata(md map[string]any) Option {
	return func(s *Sequence) { s.metadata = md }
}

// New builds and validates a Sequence. Cross-field violations return a
// *ConfigError; suspicious-but-legal configurations are recorded as
// warnings on the returned sequence.
func New(opts ...Option) (*Sequence, error) {
	s := &Sequence{
		fovW:  1,
		fovH:  1,
		total: -1,
		uid:   uuid.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace returns a new Sequence with the given options applied on top of
// this one. The result has a fresh uid; the receiver is unchanged.
func (s *Sequence) Replace(opts ...Option) (*Sequence, error) {
	clone := &Sequence{
		axisOrder: slices.Clone(s.axisOrder),
		positions: slices.Clone(s.positions),
		channels:  slices.Clone(s.channels),
		timePlan:  s.timePlan,
		zPlan:     s.zPlan,
		gridPlan:  s.gridPlan,
		afPlan:    s.afPlan,
		metadata:  s.metadata,
		fovW:      s.fovW,
		fovH:      s.fovH,
		total:     -1,
		uid:       uuid.New(),
	}
	for _, opt := range opts {
		opt(clone)
	}
	if err := clone.validate(); err != nil {
		return nil, err
	}
	return clone, nil
}

// UID returns the identity of this sequence, generated at construction.
// It is excluded from content equality.
func (s *Sequence) UID() uuid.UUID { return s.uid }

// AxisOrder returns the configured nesting order, outermost first.
func (s *Sequence) AxisOrder() []Axis { return slices.Clone(s.axisOrder) }

// StagePositions returns the configured stage positions.
func (s *Sequence) StagePositions() []Position { return slices.Clone(s.positions) }

// Channels returns the configured channels.
func (s *Sequence) Channels() []Channel { return slices.Clone(s.channels) }

// TimePlan returns the configured time plan, or nil.
func (s *Sequence) TimePlan() TimePlan { return s.timePlan }

// ZPlan returns the configured z plan, or nil.
func (s *Sequence) ZPlan() ZPlan { return s.zPlan }

// GridPlan returns the configured grid plan, or nil.
func (s *Sequence) GridPlan() GridPlan { return s.gridPlan }

// AutofocusPlan returns the configured autofocus plan, or nil.
func (s *Sequence) AutofocusPlan() AutofocusPlan { return s.afPlan }

// Metadata returns the attached metadata map.
func (s *Sequence) Metadata() map[string]any { return s.metadata }

// Warnings returns advisory messages recorded at construction.
func (s *Sequence) Warnings() []string { return slices.Clone(s.warnings) }

// SetFOVSize records the physical field-of-view size used to space grid
// tiles. Changing it invalidates the cached total count. Callers must not
// change it while an iteration is in progress.
func (s *Sequence) SetFOVSize(width, height float64) {
	s.fovW, s.fovH = width, height
	s.total = -1
}

// FOVSize returns the current field-of-view size.
func (s *Sequence) FOVSize() (width, height float64) { return s.fovW, s.fovH }

// Size returns the number of items the given axis contributes, 0 when the
// axis has no plan.
func (s *Sequence) Size(axis Axis) int {
	switch axis {
	case AxisTime:
		if s.timePlan == nil {
			return 0
		}
		return len(s.timePlan.Times())
	case AxisPosition:
		return len(s.positions)
	case AxisChannel:
		return len(s.channels)
	case AxisZ:
		if s.zPlan == nil {
			return 0
		}
		return len(s.zPlan.Values())
	case AxisGrid:
		if s.gridPlan == nil {
			return 0
		}
		return len(s.gridPlan.Positions(s.fovW, s.fovH))
	}
	return 0
}

// Sizes maps every axis in the configured order to its size.
func (s *Sequence) Sizes() map[Axis]int {
	sizes := make(map[Axis]int, len(s.axisOrder))
	for _, a := range s.axisOrder {
		sizes[a] = s.Size(a)
	}
	return sizes
}

// Shape returns the non-zero axis sizes in the configured order. Skipped
// frames make the event stream jagged; Shape ignores that.
func (s *Sequence) Shape() []int {
	var shape []int
	for _, a := range s.axisOrder {
		if n := s.Size(a); n > 0 {
			shape = append(shape, n)
		}
	}
	return shape
}

// UsedAxes returns the axes with non-zero size, order preserved.
func (s *Sequence) UsedAxes() []Axis {
	var used []Axis
	for _, a := range s.axisOrder {
		if s.Size(a) > 0 {
			used = append(used, a)
		}
	}
	return used
}

// TotalCount returns the number of events one full expansion yields. Skip
// rules make this data dependent, so it is computed by running the engine
// once and cached until the field of view changes.
func (s *Sequence) TotalCount() int {
	if s.total < 0 {
		n := 0
		for range s.Events() {
			n++
		}
		s.total = n
	}
	return s.total
}

// Equal reports content equality. The uid is excluded: two independently
// constructed sequences with the same configuration are equal.
func (s *Sequence) Equal(o *Sequence) bool {
	if s == nil || o == nil {
		return s == o
	}
	if !slices.Equal(s.axisOrder, o.axisOrder) ||
		len(s.positions) != len(o.positions) ||
		!reflect.DeepEqual(s.channels, o.channels) ||
		!reflect.DeepEqual(s.timePlan, o.timePlan) ||
		!reflect.DeepEqual(s.zPlan, o.zPlan) ||
		!reflect.DeepEqual(s.gridPlan, o.gridPlan) ||
		!reflect.DeepEqual(s.afPlan, o.afPlan) ||
		!reflect.DeepEqual(s.metadata, o.metadata) {
		return false
	}
	for i := range s.positions {
		if !s.positions[i].equal(&o.positions[i]) {
			return false
		}
	}
	return true
}

func (p *Position) equal(o *Position) bool {
	return eqFloat(p.X, o.X) && eqFloat(p.Y, o.Y) && eqFloat(p.Z, o.Z) &&
		p.Name == o.Name &&
		reflect.DeepEqual(p.Properties, o.Properties) &&
		p.Sequence.Equal(o.Sequence)
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// String summarizes the sequence sizes, e.g. "mda [t:2 p:1 c:1 z:4]".
func (s *Sequence) String() string {
	parts := make([]string, 0, len(s.axisOrder))
	for _, a := range s.axisOrder {
		parts = append(parts, fmt.Sprintf("%s:%d", a, s.Size(a)))
	}
	return "mda [" + strings.Join(parts, " ") + "]"
}

func (s *Sequence) validate() error {
	if s.orderStr != "" {
		axes, err := ParseAxisOrder(s.orderStr)
		if err != nil {
			return err
		}
		s.axisOrder = axes
		s.orderStr = ""
	}
	if s.axisOrder == nil {
		s.axisOrder, _ = ParseAxisOrder(DefaultAxisOrder)
	}

	if s.timePlan != nil {
		if err := s.timePlan.validateTime(); err != nil {
			return err
		}
	}
	if s.zPlan != nil {
		if err := s.zPlan.validateZ(); err != nil {
			return err
		}
	}
	if s.gridPlan != nil {
		if err := s.gridPlan.validateGrid(); err != nil {
			return err
		}
	}
	if s.afPlan != nil {
		if err := s.afPlan.validateAF(); err != nil {
			return err
		}
	}
	for _, c := range s.channels {
		if err := c.validate(); err != nil {
			return err
		}
	}

	// Max one level of position nesting: a sub-sequence may not define
	// stage positions of its own.
	for i, p := range s.positions {
		if p.Sequence != nil && len(p.Sequence.positions) > 0 {
			return &ConfigError{
				Field:  "stage_positions",
				Reason: fmt.Sprintf("position %d: sub-sequences may not define stage positions", i),
			}
		}
	}

	zi := slices.Index(s.axisOrder, AxisZ)
	pi := slices.Index(s.axisOrder, AxisPosition)
	ci := slices.Index(s.axisOrder, AxisChannel)
	ti := slices.Index(s.axisOrder, AxisTime)
	gi := slices.Index(s.axisOrder, AxisGrid)

	// Ambiguous z ownership: a global z plan iterated outside the position
	// loop cannot coexist with per-position z plans.
	if zi >= 0 && pi >= 0 && zi < pi && s.zPlan != nil {
		for _, p := range s.positions {
			if p.Sequence != nil && p.Sequence.zPlan != nil {
				return &ConfigError{
					Field:  "axis_order",
					Reason: "z cannot precede p when any stage position defines its own z plan",
				}
			}
		}
	}

	// Axes-based autofocus re-anchors to the focal plane, which only makes
	// sense for relative stacks.
	if s.zPlan != nil && !s.zPlan.IsRelative() {
		if _, ok := s.afPlan.(AxesBasedAF); ok {
			return &ConfigError{
				Field:  "autofocus_plan",
				Reason: "axes-based autofocus requires a relative z plan",
			}
		}
	}

	s.warnings = nil
	if ci >= 0 && ti >= 0 && ci < ti {
		for _, c := range s.channels {
			if c.acquireEvery() > 1 {
				s.warnings = append(s.warnings,
					"channels with skipped frames configured, but c precedes t in the axis order: may not yield the intended results")
				break
			}
		}
	}
	if gi >= 0 && pi >= 0 && gi < pi && s.gridPlan != nil && !s.gridPlan.IsRelative() {
		without := 0
		for _, p := range s.positions {
			if p.Sequence == nil || p.Sequence.gridPlan == nil {
				without++
			}
		}
		if without > 1 {
			s.warnings = append(s.warnings,
				"absolute grid plan precedes multiple stage positions: the same tiles will be acquired at every position")
		}
	}

	return nil
}
