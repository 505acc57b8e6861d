package pool

import (
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// newTestPool builds an int-result pool and fails the test on config errors.
func newTestPool(t *testing.T, minWorkers, maxWorkers int, opts ...Option) *Pool[int] {
	t.Helper()
	p, err := New[int](minWorkers, maxWorkers, opts...)
	if err != nil {
		t.Fatalf("New(%d, %d): unexpected error: %v", minWorkers, maxWorkers, err)
	}
	return p
}
