package pool

import (
	"fmt"
	"runtime"
)

// ConfigurationError reports an invalid minimum/maximum worker pair passed
// to New or Resize. The pool configuration is left unchanged when it is
// returned.
type ConfigurationError struct {
	Min int
	Max int
}

func (e *ConfigurationError) Error() string {
	if e.Min < 0 {
		return fmt.Sprintf("pool: minimum worker count %d is negative", e.Min)
	}
	return fmt.Sprintf("pool: minimum worker count %d exceeds maximum %d", e.Min, e.Max)
}

// validateSize checks the 0 <= min <= max invariant shared by New and Resize.
func validateSize(minWorkers, maxWorkers int) error {
	if minWorkers < 0 || minWorkers > maxWorkers {
		return &ConfigurationError{Min: minWorkers, Max: maxWorkers}
	}
	return nil
}

// panicError converts a recovered panic value into an error carrying the
// worker's stack so task panics surface as ordinary failures.
func panicError(v any) error {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return fmt.Errorf("task panic: %v\nstack trace:\n%s", v, buf[:n])
}
