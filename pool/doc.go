// Package pool provides an adaptive, resizable pool of workers to which
// arbitrary tasks can be dispatched from any goroutine.
//
// The primary type is Pool[R], a long-lived pool bounded between a minimum
// and maximum worker count. The pool grows on demand when submissions back
// up, shrinks on request, and guarantees that every submitted task is
// executed at most once with its result reported exactly once through an
// optional callback.
//
// All pool-sizing and dispatch decisions are made by a single coordinator
// goroutine that owns the worker registry outright. Callers never touch
// shared state; they post messages into the coordinator's inbox, which
// processes them strictly in arrival order. This removes any need for
// locking around pool bookkeeping.
//
// # Basic Usage
//
//	p, err := pool.New[string](2, 8, pool.WithName("render"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	p.Start()
//	defer p.Stop()
//
//	p.SubmitFunc(func(res pool.Result[string]) {
//	    if res.OK() {
//	        fmt.Println(res.Value)
//	    }
//	}, func(ctx context.Context) (string, error) {
//	    return renderPage(ctx)
//	})
//
// Submit never blocks on task completion. If an idle worker exists the task
// is handed to it directly; otherwise a new worker is spawned, up to the
// configured maximum; beyond that the task waits in a FIFO backlog until a
// worker frees up.
//
// # Results and Failures
//
// A task that returns normally produces Result{Value: v}; a task that
// returns an error or panics produces Result{Err: err}. The callback runs on
// the worker goroutine and must be fast and non-blocking. The callback must
// also not panic: a panicking callback retires that one worker (the pool
// itself survives, and the slot is replenished by a later sizing pass).
//
// Tasks submitted without a callback report failures nowhere by default.
// Use WithFailureHook to observe them.
//
// # Ambient Context
//
// Each submission captures a context.Context snapshot on the submitting
// goroutine and the worker runs the task under that context, so contextual
// values travel with the task across goroutines. The capture point is
// pluggable via WithContextCapture.
//
// # Resizing
//
//	// Shrink to at most 4 workers, keep at least 1 warm.
//	if err := p.Resize(1, 4); err != nil {
//	    // invalid min/max pair, pool unchanged
//	}
//
// Resize stops surplus workers idle-first, spawns up to the new minimum, and
// then runs a sizing pass that grows the pool only as far as actual demand
// (backlog plus busy workers) requires.
//
// # Shutdown
//
// Stop drains the pool: no further submissions are accepted, every worker
// receives a stop sentinel (idle workers immediately, busy workers once
// their current task completes), and the call blocks until every worker has
// exited. Tasks still waiting in the backlog are dropped. Stop is
// idempotent, and submissions after Stop are silent no-ops.
//
// # Configuration Options
//
//   - WithName(name): pool name used for worker naming (default "threadpool")
//   - WithLogger(logger): structured logger for lifecycle events
//   - WithThreadFactory(f): custom worker-spawning primitive
//   - WithContextCapture(fn): ambient context snapshot hook
//   - WithRateLimit(tasksPerSecond, burst): throttle task execution
//   - WithFailureHook(fn): observe failures of callback-less tasks
package pool
