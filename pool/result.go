package pool

import "context"

// Task is a unit of work submitted to the pool. It runs on a worker
// goroutine under the context captured at submission time. Tasks may block;
// the pool never interrupts a running task.
type Task[R any] func(ctx context.Context) (R, error)

// Result is the outcome of a single task: either a value or a failure.
// Task panics are converted to errors, so Err also covers panicking tasks.
type Result[R any] struct {
	Value R
	Err   error
}

// OK reports whether the task completed without a failure.
func (r Result[R]) OK() bool {
	return r.Err == nil
}

// Callback receives the result of a task on the worker goroutine that ran
// it. It is invoked exactly once per submitted task. Callbacks must be fast,
// must not block, and must not panic; a panicking callback costs the pool
// that worker.
type Callback[R any] func(res Result[R])

// workItem pairs a task with its callback and the ambient context captured
// on the submitting goroutine. The coordinator owns the item until it is
// handed to a worker.
type workItem[R any] struct {
	task     Task[R]
	onResult Callback[R]
	ctx      context.Context
}
