package mdaseq

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parse reads a sequence definition from YAML (or JSON, which YAML
// subsumes) and validates it. Plan kinds are inferred from the keys each
// plan mapping carries, e.g. a z_plan with top/bottom/step is an absolute
// top-bottom stack.
func Parse(data []byte) (*Sequence, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing sequence: %w", err)
	}
	return FromMap(raw)
}

// FromMap builds a validated sequence from a decoded mapping, as produced
// by yaml or json unmarshaling.
func FromMap(m map[string]any) (*Sequence, error) {
	opts, err := optionsFromMap(m)
	if err != nil {
		return nil, err
	}
	return New(opts...)
}

func optionsFromMap(m map[string]any) ([]Option, error) {
	var opts []Option
	for key, val := range m {
		switch key {
		case "axis_order":
			order, ok := val.(string)
			if !ok {
				return nil, &ConfigError{Field: "axis_order", Reason: "must be a string of axis tags"}
			}
			opts = append(opts, WithAxisOrder(order))
		case "stage_positions":
			positions, err := positionsFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithStagePositions(positions...))
		case "channels":
			channels, err := channelsFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithChannels(channels...))
		case "time_plan":
			plan, err := timePlanFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithTimePlan(plan))
		case "z_plan":
			plan, err := zPlanFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithZPlan(plan))
		case "grid_plan":
			plan, err := gridPlanFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithGridPlan(plan))
		case "autofocus_plan":
			plan, err := afPlanFromAny(val)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithAutofocusPlan(plan))
		case "metadata":
			md, ok := val.(map[string]any)
			if !ok && val != nil {
				return nil, &ConfigError{Field: "metadata", Reason: "must be a mapping"}
			}
			opts = append(opts, WithMetadata(md))
		}
	}
	return opts, nil
}

// decode maps a loosely typed value onto a concrete struct, matching keys
// by mapstructure tag. Input is weakly typed so yaml integers land in
// float fields.
func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

func positionsFromAny(val any) ([]Position, error) {
	items, ok := val.([]any)
	if !ok {
		if val == nil {
			return nil, nil
		}
		return nil, &ConfigError{Field: "stage_positions", Reason: "must be a list"}
	}
	positions := make([]Position, 0, len(items))
	for i, item := range items {
		pos, err := positionFromAny(item)
		if err != nil {
			return nil, &ConfigError{
				Field:  "stage_positions",
				Reason: fmt.Sprintf("position %d: %v", i, err),
			}
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// positionFromAny accepts either a mapping or a bare coordinate list
// [x, y] / [x, y, z], where entries may be null. A trailing string entry
// names the position.
func positionFromAny(item any) (Position, error) {
	switch v := item.(type) {
	case []any:
		return positionFromList(v)
	case map[string]any:
		var pos Position
		if err := decode(v, &pos); err != nil {
			return Position{}, err
		}
		if sub, ok := v["sequence"]; ok && sub != nil {
			subMap, ok := sub.(map[string]any)
			if !ok {
				return Position{}, fmt.Errorf("sequence must be a mapping")
			}
			seq, err := FromMap(subMap)
			if err != nil {
				return Position{}, err
			}
			pos.Sequence = seq
		}
		return pos, nil
	}
	return Position{}, fmt.Errorf("must be a mapping or coordinate list")
}

func positionFromList(items []any) (Position, error) {
	if len(items) > 4 {
		return Position{}, fmt.Errorf("coordinate list has at most 4 entries")
	}
	var pos Position
	coords := []**float64{&pos.X, &pos.Y, &pos.Z}
	next := 0
	for _, item := range items {
		if name, ok := item.(string); ok {
			pos.Name = name
			continue
		}
		if next == len(coords) {
			return Position{}, fmt.Errorf("coordinate list has at most 3 coordinates")
		}
		f, ok := floatFromAny(item)
		if !ok {
			return Position{}, fmt.Errorf("coordinates must be numbers or null")
		}
		*coords[next] = f
		next++
	}
	return pos, nil
}

func channelsFromAny(val any) ([]Channel, error) {
	items, ok := val.([]any)
	if !ok {
		if val == nil {
			return nil, nil
		}
		return nil, &ConfigError{Field: "channels", Reason: "must be a list"}
	}
	channels := make([]Channel, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			// Shorthand: a bare string is the config name.
			channels = append(channels, Channel{Config: v})
		case map[string]any:
			var ch Channel
			if err := decode(v, &ch); err != nil {
				return nil, &ConfigError{
					Field:  "channels",
					Reason: fmt.Sprintf("channel %d: %v", i, err),
				}
			}
			channels = append(channels, ch)
		default:
			return nil, &ConfigError{
				Field:  "channels",
				Reason: fmt.Sprintf("channel %d: must be a name or mapping", i),
			}
		}
	}
	return channels, nil
}

// timePlanFromAny accepts a single plan mapping or a list of phase
// mappings, which chain into a multi-phase plan.
func timePlanFromAny(val any) (TimePlan, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case []any:
		if len(v) == 0 {
			return nil, nil
		}
		if len(v) == 1 {
			return timePlanFromAny(v[0])
		}
		phases := make([]TimePlan, 0, len(v))
		for _, item := range v {
			phase, err := timePlanFromAny(item)
			if err != nil {
				return nil, err
			}
			phases = append(phases, phase)
		}
		return MultiPhaseTimePlan{Phases: phases}, nil
	case map[string]any:
		if len(v) == 0 {
			return nil, nil
		}
		if phases, ok := v["phases"]; ok {
			return timePlanFromAny(phases)
		}
		_, hasInterval := v["interval"]
		_, hasLoops := v["loops"]
		_, hasDuration := v["duration"]
		switch {
		case hasInterval && hasLoops:
			var plan TIntervalLoops
			if err := decode(v, &plan); err != nil {
				return nil, err
			}
			return plan, nil
		case hasInterval && hasDuration:
			var plan TIntervalDuration
			if err := decode(v, &plan); err != nil {
				return nil, err
			}
			return plan, nil
		case hasDuration && hasLoops:
			var plan TDurationLoops
			if err := decode(v, &plan); err != nil {
				return nil, err
			}
			return plan, nil
		}
		return nil, &ConfigError{
			Field:  "time_plan",
			Reason: "must combine two of interval, loops and duration",
		}
	}
	return nil, &ConfigError{Field: "time_plan", Reason: "must be a mapping or list of phases"}
}

func zPlanFromAny(val any) (ZPlan, error) {
	v, ok := val.(map[string]any)
	if !ok {
		if val == nil {
			return nil, nil
		}
		return nil, &ConfigError{Field: "z_plan", Reason: "must be a mapping"}
	}
	if len(v) == 0 {
		return nil, nil
	}
	_, hasTop := v["top"]
	_, hasBottom := v["bottom"]
	_, hasRange := v["range"]
	_, hasAbove := v["above"]
	_, hasBelow := v["below"]
	_, hasRelative := v["relative"]
	_, hasAbsolute := v["absolute"]
	switch {
	case hasTop && hasBottom:
		var plan ZTopBottom
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	case hasRange:
		var plan ZRangeAround
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	case hasAbove || hasBelow:
		var plan ZAboveBelow
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	case hasRelative:
		var plan ZRelativePositions
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	case hasAbsolute:
		var plan ZAbsolutePositions
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	}
	return nil, &ConfigError{Field: "z_plan", Reason: "unrecognized z plan shape"}
}

func gridPlanFromAny(val any) (GridPlan, error) {
	v, ok := val.(map[string]any)
	if !ok {
		if val == nil {
			return nil, nil
		}
		return nil, &ConfigError{Field: "grid_plan", Reason: "must be a mapping"}
	}
	if len(v) == 0 {
		return nil, nil
	}
	_, hasRows := v["rows"]
	_, hasColumns := v["columns"]
	_, hasLeft := v["left"]
	_, hasRight := v["right"]
	switch {
	case hasRows || hasColumns:
		var plan GridRelative
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	case hasLeft || hasRight:
		var plan GridFromEdges
		if err := decode(v, &plan); err != nil {
			return nil, err
		}
		return plan, nil
	}
	return nil, &ConfigError{Field: "grid_plan", Reason: "unrecognized grid plan shape"}
}

func afPlanFromAny(val any) (AutofocusPlan, error) {
	v, ok := val.(map[string]any)
	if !ok {
		if val == nil {
			return nil, nil
		}
		return nil, &ConfigError{Field: "autofocus_plan", Reason: "must be a mapping"}
	}
	if len(v) == 0 {
		return nil, nil
	}
	var plan AxesBasedAF
	if err := decode(v, &plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func floatFromAny(val any) (*float64, bool) {
	switch n := val.(type) {
	case nil:
		return nil, true
	case float64:
		return Float(n), true
	case int:
		return Float(float64(n)), true
	case int64:
		return Float(float64(n)), true
	}
	return nil, false
}

// sequenceDoc is the serialized wire shape of a sequence. Plan fields are
// any so each concrete variant marshals its own discriminating keys.
type sequenceDoc struct {
	AxisOrder      string         `yaml:"axis_order,omitempty" json:"axis_order,omitempty"`
	StagePositions []positionDoc  `yaml:"stage_positions,omitempty" json:"stage_positions,omitempty"`
	Channels       []Channel      `yaml:"channels,omitempty" json:"channels,omitempty"`
	TimePlan       any            `yaml:"time_plan,omitempty" json:"time_plan,omitempty"`
	ZPlan          any            `yaml:"z_plan,omitempty" json:"z_plan,omitempty"`
	GridPlan       any            `yaml:"grid_plan,omitempty" json:"grid_plan,omitempty"`
	AutofocusPlan  any            `yaml:"autofocus_plan,omitempty" json:"autofocus_plan,omitempty"`
	Metadata       map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

type positionDoc struct {
	X          *float64        `yaml:"x,omitempty" json:"x,omitempty"`
	Y          *float64        `yaml:"y,omitempty" json:"y,omitempty"`
	Z          *float64        `yaml:"z,omitempty" json:"z,omitempty"`
	Name       string          `yaml:"name,omitempty" json:"name,omitempty"`
	Sequence   *sequenceDoc    `yaml:"sequence,omitempty" json:"sequence,omitempty"`
	Properties []PropertyValue `yaml:"properties,omitempty" json:"properties,omitempty"`
}

func (s *Sequence) doc() *sequenceDoc {
	d := &sequenceDoc{
		AxisOrder: AxisOrderString(s.axisOrder),
		Metadata:  s.metadata,
	}
	if len(s.channels) > 0 {
		d.Channels = slices.Clone(s.channels)
	}
	if s.timePlan != nil {
		d.TimePlan = s.timePlan
	}
	if s.zPlan != nil {
		d.ZPlan = s.zPlan
	}
	if s.gridPlan != nil {
		d.GridPlan = s.gridPlan
	}
	if s.afPlan != nil {
		d.AutofocusPlan = s.afPlan
	}
	for _, p := range s.positions {
		pd := positionDoc{
			X:          p.X,
			Y:          p.Y,
			Z:          p.Z,
			Name:       p.Name,
			Properties: p.Properties,
		}
		if p.Sequence != nil {
			pd.Sequence = p.Sequence.doc()
		}
		d.StagePositions = append(d.StagePositions, pd)
	}
	return d
}

// YAML serializes the sequence definition. Parsing the output yields an
// equal sequence.
func (s *Sequence) YAML() ([]byte, error) {
	return yaml.Marshal(s.doc())
}

// JSON serializes the sequence definition. Parsing the output yields an
// equal sequence.
func (s *Sequence) JSON() ([]byte, error) {
	return json.MarshalIndent(s.doc(), "", "  ")
}
