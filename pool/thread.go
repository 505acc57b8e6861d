package pool

import (
	"context"
	"runtime/pprof"
)

// Handle is the join side of a spawned worker thread. Join blocks until the
// thread has fully exited and is safe to call from multiple goroutines.
type Handle interface {
	Join()
}

// ThreadFactory spawns a named thread running fn and returns a joinable
// handle. The pool assumes nothing about the underlying thread beyond
// spawn and join, so tests and embedders can substitute their own factory
// via WithThreadFactory.
type ThreadFactory func(name string, fn func()) Handle

type goroutineHandle struct {
	done chan struct{}
}

func (h *goroutineHandle) Join() {
	<-h.done
}

// GoroutineFactory is the default ThreadFactory. It runs fn on a fresh
// goroutine labeled with the thread name so pool workers remain
// identifiable in CPU and goroutine profiles.
func GoroutineFactory(name string, fn func()) Handle {
	h := &goroutineHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		labels := pprof.Labels("pool-thread", name)
		pprof.Do(context.Background(), labels, func(context.Context) {
			fn()
		})
	}()
	return h
}
