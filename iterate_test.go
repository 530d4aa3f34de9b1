package mdaseq_test

import (
	"testing"

	"github.com/mdaseq/mdaseq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(seq *mdaseq.Sequence) []mdaseq.Event {
	var events []mdaseq.Event
	for e := range seq.Events() {
		events = append(events, e)
	}
	return events
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// evRow is one expected event: its index and the resolved stage targets.
type evRow struct {
	index   map[mdaseq.Axis]int
	x, y, z any
}

func checkRows(t *testing.T, seq *mdaseq.Sequence, want []evRow) []mdaseq.Event {
	t.Helper()
	events := collect(seq)
	require.Len(t, events, len(want))
	for i, e := range events {
		assert.Equal(t, i, e.GlobalIndex, "event %d: global index", i)
		assert.Equal(t, want[i].index, e.Index, "event %d: index", i)
		assert.Equal(t, want[i].x, deref(e.X), "event %d: x", i)
		assert.Equal(t, want[i].y, deref(e.Y), "event %d: y", i)
		assert.Equal(t, want[i].z, deref(e.Z), "event %d: z", i)
		assert.Same(t, seq, e.Sequence, "event %d: sequence back-reference", i)
	}
	return events
}

func subSeq(t *testing.T, opts ...mdaseq.Option) *mdaseq.Sequence {
	t.Helper()
	return mustSequence(t, opts...)
}

func TestBasicExpansion(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithAxisOrder("tpcz"),
		mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 2}),
		mdaseq.WithChannels(
			mdaseq.Channel{Config: "DAPI", Exposure: mdaseq.Float(50)},
			mdaseq.Channel{Config: "FITC", Exposure: mdaseq.Float(100)},
		),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
		mdaseq.WithStagePositions(mdaseq.Position{X: mdaseq.Float(5), Y: mdaseq.Float(6), Z: mdaseq.Float(10)}),
	)

	events := checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 0, "z": 0}, 5.0, 6.0, 9.0},
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 0, "z": 1}, 5.0, 6.0, 10.0},
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 0, "z": 2}, 5.0, 6.0, 11.0},
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 1, "z": 0}, 5.0, 6.0, 9.0},
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 1, "z": 1}, 5.0, 6.0, 10.0},
		{map[mdaseq.Axis]int{"t": 0, "p": 0, "c": 1, "z": 2}, 5.0, 6.0, 11.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 0, "z": 0}, 5.0, 6.0, 9.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 0, "z": 1}, 5.0, 6.0, 10.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 0, "z": 2}, 5.0, 6.0, 11.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 1, "z": 0}, 5.0, 6.0, 9.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 1, "z": 1}, 5.0, 6.0, 10.0},
		{map[mdaseq.Axis]int{"t": 1, "p": 0, "c": 1, "z": 2}, 5.0, 6.0, 11.0},
	})

	assert.Equal(t, "DAPI", events[0].Channel.Config)
	assert.Equal(t, mdaseq.DefaultChannelGroup, events[0].Channel.Group)
	assert.Equal(t, 50.0, *events[0].Exposure)
	assert.Equal(t, "FITC", events[3].Channel.Config)
	assert.Equal(t, 0.0, *events[0].MinStartTime)
	assert.Equal(t, 1.0, *events[6].MinStartTime)
}

func TestExpansionIsDeterministic(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 3}),
		mdaseq.WithChannels(mdaseq.Channel{Config: "DAPI"}, mdaseq.Channel{Config: "FITC"}),
		mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 2}),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
	)
	assert.Equal(t, collect(seq), collect(seq))
}

func TestChannelAcquireEvery(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 6}),
		mdaseq.WithChannels(mdaseq.Channel{Config: "DAPI", AcquireEvery: 3}),
	)

	events := collect(seq)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Index["t"])
	assert.Equal(t, 3, events[1].Index["t"])
	// skipped frames leave no holes in the global index
	assert.Equal(t, 0, events[0].GlobalIndex)
	assert.Equal(t, 1, events[1].GlobalIndex)
}

func TestChannelMiddlePlaneOnly(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithAxisOrder("tpcz"),
		mdaseq.WithChannels(
			mdaseq.Channel{Config: "DAPI"},
			mdaseq.Channel{Config: "BF", DoStack: mdaseq.Bool(false)},
		),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 4, Step: 1}),
	)

	events := collect(seq)
	require.Len(t, events, 6)
	for i := 0; i < 5; i++ {
		assert.Equal(t, "DAPI", events[i].Channel.Config)
		assert.Equal(t, i, events[i].Index["z"])
	}
	assert.Equal(t, "BF", events[5].Channel.Config)
	assert.Equal(t, 2, events[5].Index["z"], "no-stack channel acquires the middle plane")
	assert.Equal(t, 0.0, *events[5].Z)
}

func TestChannelZOffset(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithChannels(mdaseq.Channel{Config: "DAPI", ZOffset: mdaseq.Float(0.5)}),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
		mdaseq.WithStagePositions(mdaseq.Position{Z: mdaseq.Float(10)}),
	)
	events := collect(seq)
	require.Len(t, events, 3)
	assert.Equal(t, 9.5, *events[0].Z)
	assert.Equal(t, 10.5, *events[1].Z)
	assert.Equal(t, 11.5, *events[2].Z)
}

func TestGridRelativeWithMultiStagePositions(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0)},
			mdaseq.Position{X: mdaseq.Float(10), Y: mdaseq.Float(20)},
		),
		mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 2}),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "g": 0}, -0.5, 0.5, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 1}, 0.5, 0.5, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 2}, 0.5, -0.5, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 3}, -0.5, -0.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 0}, 9.5, 20.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 1}, 10.5, 20.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 2}, 10.5, 19.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 3}, 9.5, 19.5, nil},
	})
}

func TestGridOnlyInSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0)},
			mdaseq.Position{
				Name: "test", X: mdaseq.Float(10), Y: mdaseq.Float(10),
				Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 2})),
			},
		),
	)

	events := checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 0}, 9.5, 10.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 1}, 10.5, 10.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 2}, 10.5, 9.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 3}, 9.5, 9.5, nil},
	})
	assert.Equal(t, "", events[0].PosName)
	assert.Equal(t, "test", events[1].PosName)
}

func TestGridAbsoluteOnlyInSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0)},
			mdaseq.Position{
				Name: "test", X: mdaseq.Float(10), Y: mdaseq.Float(10),
				Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridFromEdges{Top: 1, Bottom: -1, Left: 0, Right: 0})),
			},
		),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 0}, 0.0, 1.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 1}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 2}, 0.0, -1.0, nil},
	})
}

func TestGridInMainAndSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{
				Name:     "test",
				Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridFromEdges{Top: 2, Bottom: -1, Left: 0, Right: 0})),
			},
		),
		mdaseq.WithGridPlan(mdaseq.GridFromEdges{Top: 1, Bottom: -1, Left: 0, Right: 0}),
	)

	// the sub grid replaces the main grid entirely for its position
	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "g": 0}, 0.0, 1.0, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 1}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 2}, 0.0, -1.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 0}, 0.0, 2.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 1}, 0.0, 1.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 2}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 3}, 0.0, -1.0, nil},
	})
}

func TestMultiGridSubSequences(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 1, Columns: 2}))},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 2}))},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridFromEdges{Top: 1, Bottom: -1, Left: 0, Right: 0}))},
		),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "g": 0}, -0.5, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 0, "g": 1}, 0.5, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 0}, -0.5, 0.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 1}, 0.5, 0.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 2}, 0.5, -0.5, nil},
		{map[mdaseq.Axis]int{"p": 1, "g": 3}, -0.5, -0.5, nil},
		{map[mdaseq.Axis]int{"p": 2, "g": 0}, 0.0, 1.0, nil},
		{map[mdaseq.Axis]int{"p": 2, "g": 1}, 0.0, 0.0, nil},
		{map[mdaseq.Axis]int{"p": 2, "g": 2}, 0.0, -1.0, nil},
	})
}

func TestZRelativeWithMultiStagePositions(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0), Z: mdaseq.Float(0)},
			mdaseq.Position{X: mdaseq.Float(10), Y: mdaseq.Float(20), Z: mdaseq.Float(10)},
		),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "z": 0}, 0.0, 0.0, -1.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 1}, 0.0, 0.0, 0.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 2}, 0.0, 0.0, 1.0},
		{map[mdaseq.Axis]int{"p": 1, "z": 0}, 10.0, 20.0, 9.0},
		{map[mdaseq.Axis]int{"p": 1, "z": 1}, 10.0, 20.0, 10.0},
		{map[mdaseq.Axis]int{"p": 1, "z": 2}, 10.0, 20.0, 11.0},
	})
}

func TestZInMainAndSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{Z: mdaseq.Float(0)},
			mdaseq.Position{
				Name: "test", Z: mdaseq.Float(10),
				Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 3, Step: 1})),
			},
		),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "z": 0}, nil, nil, -1.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 1}, nil, nil, 0.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 2}, nil, nil, 1.0},
		{map[mdaseq.Axis]int{"p": 1, "z": 0}, nil, nil, 8.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 1}, nil, nil, 9.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 2}, nil, nil, 10.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 3}, nil, nil, 11.5},
	})
}

func TestMultiZSubSequences(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZTopBottom{Top: 60, Bottom: 58, Step: 1}))},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 3, Step: 1}))},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZTopBottom{Top: 30, Bottom: 28, Step: 1}))},
		),
	)

	checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "z": 0}, nil, nil, 58.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 1}, nil, nil, 59.0},
		{map[mdaseq.Axis]int{"p": 0, "z": 2}, nil, nil, 60.0},
		{map[mdaseq.Axis]int{"p": 1, "z": 0}, nil, nil, -1.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 1}, nil, nil, -0.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 2}, nil, nil, 0.5},
		{map[mdaseq.Axis]int{"p": 1, "z": 3}, nil, nil, 1.5},
		{map[mdaseq.Axis]int{"p": 2, "z": 0}, nil, nil, 28.0},
		{map[mdaseq.Axis]int{"p": 2, "z": 1}, nil, nil, 29.0},
		{map[mdaseq.Axis]int{"p": 2, "z": 2}, nil, nil, 30.0},
	})
}

func TestTimeOnlyInSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 5}))},
		),
	)

	events := collect(seq)
	require.Len(t, events, 6)
	assert.Equal(t, map[mdaseq.Axis]int{"p": 0}, events[0].Index)
	assert.Nil(t, events[0].MinStartTime)
	for i := 0; i < 5; i++ {
		e := events[i+1]
		assert.Equal(t, map[mdaseq.Axis]int{"p": 1, "t": i}, e.Index)
		assert.Equal(t, float64(i), *e.MinStartTime)
	}
}

func TestTimeInMainAndSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 5}))},
		),
		mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 2}),
	)

	// the sub time plan replaces the parent's t index and start time, and
	// runs in full once per parent time point
	var got []map[mdaseq.Axis]int
	var times []float64
	for _, e := range collect(seq) {
		got = append(got, e.Index)
		times = append(times, *e.MinStartTime)
	}
	assert.Equal(t, []map[mdaseq.Axis]int{
		{"t": 0, "p": 0},
		{"t": 0, "p": 1}, {"t": 1, "p": 1}, {"t": 2, "p": 1}, {"t": 3, "p": 1}, {"t": 4, "p": 1},
		{"t": 1, "p": 0},
		{"t": 0, "p": 1}, {"t": 1, "p": 1}, {"t": 2, "p": 1}, {"t": 3, "p": 1}, {"t": 4, "p": 1},
	}, got)
	assert.Equal(t, []float64{0, 0, 1, 2, 3, 4, 1, 0, 1, 2, 3, 4}, times)
}

func TestChannelOnlyInSubSequence(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithChannels(
				mdaseq.Channel{Config: "488", Exposure: mdaseq.Float(100)},
			))},
		),
	)

	events := collect(seq)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].Channel)
	assert.Nil(t, events[0].Exposure)
	assert.Equal(t, map[mdaseq.Axis]int{"p": 0}, events[0].Index)
	assert.Equal(t, "488", events[1].Channel.Config)
	assert.Equal(t, 100.0, *events[1].Exposure)
	assert.Equal(t, map[mdaseq.Axis]int{"p": 1, "c": 0}, events[1].Index)
}

func TestSubChannelsOverrideMainChannels(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithChannels(
				mdaseq.Channel{Config: "488", Exposure: mdaseq.Float(100)},
			))},
		),
		mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5", Exposure: mdaseq.Float(50)}),
	)

	events := collect(seq)
	require.Len(t, events, 2)
	assert.Equal(t, "Cy5", events[0].Channel.Config)
	assert.Equal(t, 50.0, *events[0].Exposure)
	assert.Equal(t, "488", events[1].Channel.Config)
	assert.Equal(t, 100.0, *events[1].Exposure)
}

func TestSubInheritsMainChannel(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithStagePositions(
			mdaseq.Position{},
			mdaseq.Position{Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZTopBottom{Top: 0, Bottom: 0, Step: 0.5}))},
		),
		mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5", Exposure: mdaseq.Float(50)}),
	)

	for _, e := range collect(seq) {
		assert.Equal(t, "Cy5", e.Channel.Config)
	}
}

func TestSubChannelsSuppressMainChannelLoop(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5"}, mdaseq.Channel{Config: "FITC"}),
		mdaseq.WithStagePositions(
			mdaseq.Position{Sequence: subSeq(t,
				mdaseq.WithChannels(mdaseq.Channel{Config: "DAPI"}),
				mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
			)},
		),
	)

	events := collect(seq)
	require.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, "DAPI", e.Channel.Config)
	}
}

func TestChannelsRepeatForSubPlans(t *testing.T) {
	t.Run("grid", func(t *testing.T) {
		seq := mustSequence(t,
			mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5"}, mdaseq.Channel{Config: "FITC"}),
			mdaseq.WithStagePositions(
				mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0),
					Sequence: subSeq(t, mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 1}))},
			),
		)
		events := checkRows(t, seq, []evRow{
			{map[mdaseq.Axis]int{"p": 0, "c": 0, "g": 0}, 0.0, 0.5, nil},
			{map[mdaseq.Axis]int{"p": 0, "c": 0, "g": 1}, 0.0, -0.5, nil},
			{map[mdaseq.Axis]int{"p": 0, "c": 1, "g": 0}, 0.0, 0.5, nil},
			{map[mdaseq.Axis]int{"p": 0, "c": 1, "g": 1}, 0.0, -0.5, nil},
		})
		assert.Equal(t, "Cy5", events[0].Channel.Config)
		assert.Equal(t, "FITC", events[2].Channel.Config)
	})

	t.Run("z stack", func(t *testing.T) {
		seq := mustSequence(t,
			mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5"}, mdaseq.Channel{Config: "FITC"}),
			mdaseq.WithStagePositions(
				mdaseq.Position{Z: mdaseq.Float(0),
					Sequence: subSeq(t, mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}))},
			),
		)
		checkRows(t, seq, []evRow{
			{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 0}, nil, nil, -1.0},
			{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 1}, nil, nil, 0.0},
			{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 2}, nil, nil, 1.0},
			{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 0}, nil, nil, -1.0},
			{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 1}, nil, nil, 0.0},
			{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 2}, nil, nil, 1.0},
		})
	})

	t.Run("time", func(t *testing.T) {
		seq := mustSequence(t,
			mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5"}, mdaseq.Channel{Config: "FITC"}),
			mdaseq.WithStagePositions(
				mdaseq.Position{Sequence: subSeq(t, mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 1, Loops: 3}))},
			),
		)
		events := collect(seq)
		require.Len(t, events, 6)
		for i, e := range events {
			assert.Equal(t, i%3, e.Index["t"])
			assert.Equal(t, float64(i%3), *e.MinStartTime)
		}
	})
}

func TestMixedSubSequencePlans(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithAxisOrder("tpgcz"),
		mdaseq.WithStagePositions(
			mdaseq.Position{X: mdaseq.Float(0), Y: mdaseq.Float(0)},
			mdaseq.Position{
				Name: "test", X: mdaseq.Float(10), Y: mdaseq.Float(10), Z: mdaseq.Float(30),
				Sequence: subSeq(t,
					mdaseq.WithChannels(
						mdaseq.Channel{Config: "488", Exposure: mdaseq.Float(200)},
						mdaseq.Channel{Config: "561", Exposure: mdaseq.Float(100)},
					),
					mdaseq.WithGridPlan(mdaseq.GridRelative{Rows: 2, Columns: 1}),
					mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
				),
			},
		),
		mdaseq.WithChannels(mdaseq.Channel{Config: "Cy5", Exposure: mdaseq.Float(50)}),
		mdaseq.WithZPlan(mdaseq.ZTopBottom{Top: 100, Bottom: 98, Step: 1}),
		mdaseq.WithGridPlan(mdaseq.GridFromEdges{Top: 1, Bottom: -1, Left: 0, Right: 0}),
	)

	events := checkRows(t, seq, []evRow{
		{map[mdaseq.Axis]int{"p": 0, "g": 0, "c": 0, "z": 0}, 0.0, 1.0, 98.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 0, "c": 0, "z": 1}, 0.0, 1.0, 99.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 0, "c": 0, "z": 2}, 0.0, 1.0, 100.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 1, "c": 0, "z": 0}, 0.0, 0.0, 98.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 1, "c": 0, "z": 1}, 0.0, 0.0, 99.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 1, "c": 0, "z": 2}, 0.0, 0.0, 100.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 2, "c": 0, "z": 0}, 0.0, -1.0, 98.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 2, "c": 0, "z": 1}, 0.0, -1.0, 99.0},
		{map[mdaseq.Axis]int{"p": 0, "g": 2, "c": 0, "z": 2}, 0.0, -1.0, 100.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 0, "z": 0}, 10.0, 10.5, 29.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 0, "z": 1}, 10.0, 10.5, 30.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 0, "z": 2}, 10.0, 10.5, 31.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 1, "z": 0}, 10.0, 10.5, 29.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 1, "z": 1}, 10.0, 10.5, 30.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 0, "c": 1, "z": 2}, 10.0, 10.5, 31.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 0, "z": 0}, 10.0, 9.5, 29.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 0, "z": 1}, 10.0, 9.5, 30.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 0, "z": 2}, 10.0, 9.5, 31.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 1, "z": 0}, 10.0, 9.5, 29.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 1, "z": 1}, 10.0, 9.5, 30.0},
		{map[mdaseq.Axis]int{"p": 1, "g": 1, "c": 1, "z": 2}, 10.0, 9.5, 31.0},
	})

	assert.Equal(t, "Cy5", events[0].Channel.Config)
	assert.Equal(t, 50.0, *events[0].Exposure)
	assert.Equal(t, "488", events[9].Channel.Config)
	assert.Equal(t, 200.0, *events[9].Exposure)
	assert.Equal(t, "561", events[12].Channel.Config)
	assert.Equal(t, 100.0, *events[12].Exposure)
}

func TestSubAxisOrderDoesNotReorderParentAxes(t *testing.T) {
	seq := mustSequence(t,
		mdaseq.WithAxisOrder("tpgcz"),
		mdaseq.WithStagePositions(
			mdaseq.Position{Z: mdaseq.Float(0)},
			mdaseq.Position{
				Z: mdaseq.Float(50),
				Sequence: subSeq(t,
					mdaseq.WithAxisOrder("tpgzc"),
					mdaseq.WithChannels(
						mdaseq.Channel{Config: "488", Exposure: mdaseq.Float(200)},
						mdaseq.Channel{Config: "561", Exposure: mdaseq.Float(200)},
					),
				),
			},
		),
		mdaseq.WithChannels(
			mdaseq.Channel{Config: "FITC", Exposure: mdaseq.Float(50)},
			mdaseq.Channel{Config: "Cy5", Exposure: mdaseq.Float(50)},
		),
		mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 2, Step: 1}),
	)

	type row struct {
		index map[mdaseq.Axis]int
		z     float64
		ch    string
	}
	var got []row
	for _, e := range collect(seq) {
		got = append(got, row{e.Index, *e.Z, e.Channel.Config})
	}
	// the sub has no z plan of its own, so the parent's z loop (and the
	// parent's ordering of it) still applies to the sub's channels
	assert.Equal(t, []row{
		{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 0}, -1.0, "FITC"},
		{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 1}, 0.0, "FITC"},
		{map[mdaseq.Axis]int{"p": 0, "c": 0, "z": 2}, 1.0, "FITC"},
		{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 0}, -1.0, "Cy5"},
		{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 1}, 0.0, "Cy5"},
		{map[mdaseq.Axis]int{"p": 0, "c": 1, "z": 2}, 1.0, "Cy5"},
		{map[mdaseq.Axis]int{"p": 1, "c": 0, "z": 0}, 49.0, "488"},
		{map[mdaseq.Axis]int{"p": 1, "c": 1, "z": 0}, 49.0, "561"},
		{map[mdaseq.Axis]int{"p": 1, "c": 0, "z": 1}, 50.0, "488"},
		{map[mdaseq.Axis]int{"p": 1, "c": 1, "z": 1}, 50.0, "561"},
		{map[mdaseq.Axis]int{"p": 1, "c": 0, "z": 2}, 51.0, "488"},
		{map[mdaseq.Axis]int{"p": 1, "c": 1, "z": 2}, 51.0, "561"},
	}, got)
}

func TestPositionProperties(t *testing.T) {
	props := []mdaseq.PropertyValue{{Device: "LED", Property: "Intensity", Value: 20}}
	seq := mustSequence(t,
		mdaseq.WithStagePositions(mdaseq.Position{Name: "well", Properties: props}),
		mdaseq.WithChannels(mdaseq.Channel{Config: "DAPI"}),
	)
	events := collect(seq)
	require.Len(t, events, 1)
	assert.Equal(t, props, events[0].Properties)
	assert.Equal(t, "well", events[0].PosName)
}
