package mdaseq

import "iter"

// cursor carries state shared across one full expansion, including
// recursion into position sub-sequences: the running global index, the
// field of view of the top-level sequence, and autofocus bookkeeping.
type cursor struct {
	global     int
	fovW, fovH float64

	// af records, per autofocus plan owner, the index values at which the
	// plan last ran. Owners are compared by identity so a global plan
	// inherited by several sub-sequences shares one record.
	af map[*Sequence]map[Axis]int
}

// axisValues holds the concrete items each axis iterates over, computed
// once per (sub-)sequence expansion.
type axisValues struct {
	times []float64
	zs    []float64
	grid  []GridPosition
}

// parentCtx is the resolved state of the enclosing combination when a
// position sub-sequence expands.
type parentCtx struct {
	top     *Sequence
	index   map[Axis]int
	pos     *Position
	x, y, z *float64
	tm      *float64
	channel *Channel
	zPlan   ZPlan     // plan that produced z, for autofocus anchoring
	zVals   []float64 // values of zPlan
	afPlan  AutofocusPlan
	afOwner *Sequence
}

// Events returns a lazy iterator over every acquisition event this
// sequence expands to, in deterministic order. The sequence must not be
// mutated (SetFOVSize) while iteration is in progress.
func (s *Sequence) Events() iter.Seq[Event] {
	return func(yield func(Event) bool) {
		cur := &cursor{
			fovW: s.fovW,
			fovH: s.fovH,
			af:   make(map[*Sequence]map[Axis]int),
		}
		s.expand(cur, yield)
	}
}

func (s *Sequence) values(cur *cursor) axisValues {
	var v axisValues
	if s.timePlan != nil {
		v.times = s.timePlan.Times()
	}
	if s.zPlan != nil {
		v.zs = s.zPlan.Values()
	}
	if s.gridPlan != nil {
		v.grid = s.gridPlan.Positions(cur.fovW, cur.fovH)
	}
	return v
}

func (s *Sequence) axisSize(a Axis, v axisValues) int {
	switch a {
	case AxisTime:
		return len(v.times)
	case AxisPosition:
		return len(s.positions)
	case AxisChannel:
		return len(s.channels)
	case AxisZ:
		return len(v.zs)
	case AxisGrid:
		return len(v.grid)
	}
	return 0
}

func (s *Sequence) usedAxes(v axisValues) ([]Axis, []int) {
	var axes []Axis
	var sizes []int
	for _, a := range s.axisOrder {
		if n := s.axisSize(a, v); n > 0 {
			axes = append(axes, a)
			sizes = append(sizes, n)
		}
	}
	return axes, sizes
}

func (s *Sequence) expand(cur *cursor, yield func(Event) bool) bool {
	v := s.values(cur)
	axes, sizes := s.usedAxes(v)
	if len(axes) == 0 {
		return true
	}
	return walk(sizes, func(idx []int) bool {
		return s.emitTop(cur, axes, idx, v, yield)
	})
}

// emitTop handles one combination of the top-level product: apply skip
// rules, resolve hardware values, then either emit an event or hand the
// combination to the position's sub-sequence.
func (s *Sequence) emitTop(cur *cursor, axes []Axis, idx []int, v axisValues, yield func(Event) bool) bool {
	index := make(map[Axis]int, len(axes))
	for i, a := range axes {
		index[a] = idx[i]
	}

	var pos *Position
	var ch *Channel
	var tm *float64
	var g *GridPosition
	if i, ok := index[AxisPosition]; ok {
		pos = &s.positions[i]
	}
	if i, ok := index[AxisChannel]; ok {
		ch = &s.channels[i]
	}
	if i, ok := index[AxisTime]; ok {
		tm = Float(v.times[i])
	}
	if i, ok := index[AxisGrid]; ok {
		g = &v.grid[i]
	}

	if skipForChannel(ch, index) {
		return true
	}

	var sub *Sequence
	if pos != nil {
		sub = pos.Sequence
	}
	if sub != nil {
		// Axes the sub-sequence redefines are iterated there; every
		// combination beyond the first of the parent's axis would
		// duplicate the whole sub expansion.
		if i, ok := index[AxisChannel]; ok && i != 0 && len(sub.channels) > 0 {
			return true
		}
		if i, ok := index[AxisZ]; ok && i != 0 && sub.zPlan != nil {
			return true
		}
		if i, ok := index[AxisGrid]; ok && i != 0 && sub.gridPlan != nil {
			return true
		}
	}

	z, ok := s.resolveZ(index, v.zs, ch, pos)
	if !ok {
		return true
	}
	x, y := resolveXY(g, s.gridPlan != nil && s.gridPlan.IsRelative(), pos)

	if sub != nil {
		return sub.expandSub(cur, &parentCtx{
			top:     s,
			index:   index,
			pos:     pos,
			x:       x,
			y:       y,
			z:       z,
			tm:      tm,
			channel: ch,
			zPlan:   s.zPlan,
			zVals:   v.zs,
			afPlan:  s.afPlan,
			afOwner: s,
		}, yield)
	}

	var af *PerformAF
	if cur.fireAF(s.afPlan, s, index) {
		af = performAF(s.afPlan.(AxesBasedAF), z, s.zPlan, index, v.zs)
	}

	ev := Event{
		Index:        index,
		MinStartTime: tm,
		X:            x,
		Y:            y,
		Z:            z,
		Autofocus:    af,
		GlobalIndex:  cur.global,
		Sequence:     s,
	}
	if ch != nil {
		ev.Channel = &EventChannel{Config: ch.Config, Group: ch.group()}
		ev.Exposure = ch.Exposure
	}
	if pos != nil {
		ev.PosName = pos.Name
		ev.Properties = pos.Properties
	}
	if !yield(ev) {
		return false
	}
	cur.global++
	return true
}

// expandSub expands a position sub-sequence inside one surviving parent
// combination. The sub iterates only the axes it defines itself; anything
// else is inherited from the parent.
func (s *Sequence) expandSub(cur *cursor, par *parentCtx, yield func(Event) bool) bool {
	v := s.values(cur)
	axes, sizes := s.usedAxes(v)
	return walk(sizes, func(idx []int) bool {
		index := make(map[Axis]int, len(par.index)+len(axes))
		for a, i := range par.index {
			index[a] = i
		}
		for i, a := range axes {
			index[a] = idx[i]
		}

		ch := par.channel
		if i, ok := index[AxisChannel]; ok && len(s.channels) > 0 {
			ch = &s.channels[i]
		}
		if skipForChannel(ch, index) {
			return true
		}

		tm := par.tm
		if i, ok := index[AxisTime]; ok && len(v.times) > 0 {
			tm = Float(v.times[i])
		}

		z := par.z
		zPlan, zVals := par.zPlan, par.zVals
		if s.zPlan != nil {
			var ok bool
			z, ok = s.resolveZ(index, v.zs, ch, par.pos)
			if !ok {
				return true
			}
			zPlan, zVals = s.zPlan, v.zs
		}

		x, y := par.x, par.y
		if i, ok := index[AxisGrid]; ok && len(v.grid) > 0 {
			x, y = resolveXY(&v.grid[i], s.gridPlan.IsRelative(), par.pos)
		}

		plan, owner := par.afPlan, par.afOwner
		if s.afPlan != nil {
			plan, owner = s.afPlan, s
		}
		var af *PerformAF
		if cur.fireAF(plan, owner, index) {
			af = performAF(plan.(AxesBasedAF), z, zPlan, index, zVals)
		}

		ev := Event{
			Index:        index,
			MinStartTime: tm,
			X:            x,
			Y:            y,
			Z:            z,
			Autofocus:    af,
			GlobalIndex:  cur.global,
			Sequence:     par.top,
		}
		if ch != nil {
			ev.Channel = &EventChannel{Config: ch.Config, Group: ch.group()}
			ev.Exposure = ch.Exposure
		}
		if par.pos != nil {
			ev.PosName = par.pos.Name
			ev.Properties = par.pos.Properties
		}
		if !yield(ev) {
			return false
		}
		cur.global++
		return true
	})
}

// skipForChannel drops time points a channel opts out of via AcquireEvery.
func skipForChannel(ch *Channel, index map[Axis]int) bool {
	if ch == nil {
		return false
	}
	t, ok := index[AxisTime]
	return ok && t%ch.acquireEvery() != 0
}

// resolveZ computes the z position of one combination against this
// sequence's own z plan, falling back to the position's static z. The
// second return is false when the channel restricts acquisition to the
// middle plane and this is not it.
func (s *Sequence) resolveZ(index map[Axis]int, zs []float64, ch *Channel, pos *Position) (*float64, bool) {
	if zi, ok := index[AxisZ]; ok && s.zPlan != nil {
		z := zs[zi]
		if ch != nil {
			if !ch.doStack() && zi != len(zs)/2 {
				return nil, false
			}
			if ch.ZOffset != nil {
				z += *ch.ZOffset
			}
		}
		if s.zPlan.IsRelative() && pos != nil && pos.Z != nil {
			z += *pos.Z
		}
		return &z, true
	}
	if pos != nil && pos.Z != nil {
		z := *pos.Z
		if ch != nil && ch.ZOffset != nil {
			z += *ch.ZOffset
		}
		return &z, true
	}
	return nil, true
}

// resolveXY combines a grid tile with the position's static coordinates.
// Relative tiles offset the position, treating absent coordinates as zero;
// absolute tiles stand on their own.
func resolveXY(g *GridPosition, relative bool, pos *Position) (x, y *float64) {
	if g == nil {
		if pos != nil {
			return pos.X, pos.Y
		}
		return nil, nil
	}
	gx, gy := g.X, g.Y
	if relative {
		if pos != nil && pos.X != nil {
			gx += *pos.X
		}
		if pos != nil && pos.Y != nil {
			gy += *pos.Y
		}
	}
	return &gx, &gy
}

// fireAF reports whether the plan should run before the event at the
// given index: any tracked axis present in the index whose value differs
// from the last run triggers it. Firing records all tracked axes.
func (cur *cursor) fireAF(plan AutofocusPlan, owner *Sequence, index map[Axis]int) bool {
	ab, ok := plan.(AxesBasedAF)
	if !ok || len(ab.Axes) == 0 {
		return false
	}
	state := cur.af[owner]
	if state == nil {
		state = make(map[Axis]int, len(ab.Axes))
		cur.af[owner] = state
	}
	fire := false
	for _, a := range ab.Axes {
		v, present := index[a]
		if !present {
			continue
		}
		if last, seen := state[a]; !seen || last != v {
			fire = true
		}
	}
	if !fire {
		return false
	}
	for _, a := range ab.Axes {
		if v, present := index[a]; present {
			state[a] = v
		}
	}
	return true
}

// performAF materializes the autofocus directive for one event. The focus
// target is the event's z with any relative stack offset removed, so the
// device re-anchors to the focal plane rather than the current slice.
func performAF(ab AxesBasedAF, z *float64, zPlan ZPlan, index map[Axis]int, zVals []float64) *PerformAF {
	af := &PerformAF{Device: ab.Device, MotorOffset: ab.MotorOffset}
	if z != nil {
		fz := *z
		if zPlan != nil && zPlan.IsRelative() {
			if zi, ok := index[AxisZ]; ok && zi < len(zVals) {
				fz -= zVals[zi]
			}
		}
		af.FocusZ = &fz
	}
	if af.FocusZ == nil && af.MotorOffset == nil {
		return nil
	}
	return af
}

// walk enumerates the cartesian product of the given sizes in odometer
// order, rightmost fastest. Zero sizes yield a single empty combination.
// The callback returns false to abort the whole traversal.
func walk(sizes []int, fn func(idx []int) bool) bool {
	idx := make([]int, len(sizes))
	for {
		if !fn(idx) {
			return false
		}
		k := len(sizes) - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < sizes[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return true
		}
	}
}
