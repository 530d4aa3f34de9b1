package mdaseq

import "strings"

// Axis is a single-character tag naming one acquisition dimension.
type Axis string

// Acquisition axes, in the default iteration order.
const (
	AxisTime     Axis = "t"
	AxisPosition Axis = "p"
	AxisChannel  Axis = "c"
	AxisZ        Axis = "z"
	AxisGrid     Axis = "g"
)

// DefaultAxisOrder is the nesting order used when none is configured.
const DefaultAxisOrder = "tpgcz"

// allAxes lists every valid axis tag.
var allAxes = []Axis{AxisTime, AxisPosition, AxisChannel, AxisZ, AxisGrid}

func isAxis(a Axis) bool {
	for _, known := range allAxes {
		if a == known {
			return true
		}
	}
	return false
}

// ParseAxisOrder converts an order string like "tpcz" into axis tags.
// Tags are case-insensitive; unknown or duplicate tags are rejected.
func ParseAxisOrder(order string) ([]Axis, error) {
	order = strings.ToLower(order)
	axes := make([]Axis, 0, len(order))
	seen := map[Axis]bool{}
	for _, r := range order {
		a := Axis(r)
		if !isAxis(a) {
			return nil, &ConfigError{
				Field:  "axis_order",
				Reason: "unknown axis " + string(a) + " (valid axes: tpcgz)",
			}
		}
		if seen[a] {
			return nil, &ConfigError{
				Field:  "axis_order",
				Reason: "duplicate axis " + string(a) + " in " + order,
			}
		}
		seen[a] = true
		axes = append(axes, a)
	}
	return axes, nil
}

// AxisOrderString renders axis tags back into their compact string form.
func AxisOrderString(axes []Axis) string {
	var b strings.Builder
	for _, a := range axes {
		b.WriteString(string(a))
	}
	return b.String()
}
