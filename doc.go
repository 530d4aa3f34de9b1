/*
Package mdaseq builds and expands declarative multi-dimensional
acquisition (MDA) sequences for automated microscopy.

A sequence is a description of an experiment over up to five axes: time
(t), stage position (p), grid tile (g), channel (c) and focal plane (z).
The engine expands that description into a deterministic, ordered stream
of acquisition events, each carrying the resolved stage coordinates,
channel settings, start time and hardware autofocus directive for one
image.

# Concept

The sequence is data, not code. It can be written in YAML or JSON,
validated up front, serialized back out, and handed to any acquisition
loop. Expansion is lazy: Events yields one event at a time, so a
sequence of millions of events costs nothing to construct.

Positions may scope their own nested sub-sequence, overriding the
channels, z stack or grid of the parent experiment at that position
only.

# Usage

Build a sequence with options and iterate its events:

	package main

	import (
		"fmt"
		"log"

		"github.com/mdaseq/mdaseq"
	)

	func main() {
		seq, err := mdaseq.New(
			mdaseq.WithTimePlan(mdaseq.TIntervalLoops{Interval: 30, Loops: 10}),
			mdaseq.WithChannels(
				mdaseq.Channel{Config: "DAPI", Exposure: mdaseq.Float(50)},
				mdaseq.Channel{Config: "FITC", Exposure: mdaseq.Float(100)},
			),
			mdaseq.WithZPlan(mdaseq.ZRangeAround{Range: 4, Step: 0.5}),
		)
		if err != nil {
			log.Fatal(err)
		}

		for ev := range seq.Events() {
			fmt.Println(ev.String())
		}
	}

Or load the same experiment from YAML with Parse:

	time_plan: {interval: 30, loops: 10}
	channels:
	  - {config: DAPI, exposure: 50}
	  - {config: FITC, exposure: 100}
	z_plan: {range: 4, step: 0.5}
*/
package mdaseq
