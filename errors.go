package mdaseq

import "fmt"

// ConfigError reports an invalid sequence configuration detected at
// construction time. Iteration over a successfully constructed sequence
// never fails.
type ConfigError struct {
	Field  string // offending field, e.g. "axis_order" or "z_plan"
	Reason string // human-readable reason
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid sequence: %s", e.Reason)
	}
	return fmt.Sprintf("invalid sequence: field %q: %s", e.Field, e.Reason)
}
