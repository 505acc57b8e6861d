package pool

type workerState uint8

const (
	wsIdle workerState = iota
	wsBusy
	wsStopping
)

// worker owns one dedicated thread. It repeatedly receives items from its
// private inbox and runs them; a nil item is the stop sentinel that ends
// the loop. The state field belongs to the coordinator goroutine and is
// never read from the worker thread.
type worker[R any] struct {
	id     int
	name   string
	state  workerState
	inbox  chan *workItem[R]
	handle Handle
	coord  *coordinator[R]
}

func (w *worker[R]) run() {
	defer func() {
		if r := recover(); r != nil {
			w.coord.logger.WithField("worker", w.name).
				WithField("panic", r).
				Error("result callback panicked, retiring worker")
		}
		w.coord.send(message[R]{kind: msgWorkerExited, w: w})
	}()

	for {
		item := <-w.inbox
		if item == nil {
			return
		}
		res := w.execute(item)
		w.finish(item, res)
		w.coord.send(message[R]{kind: msgWorkerIdle, w: w})
	}
}

// execute runs one task under its captured context with panic recovery, so
// a panicking task becomes an ordinary failed result.
func (w *worker[R]) execute(item *workItem[R]) (res Result[R]) {
	defer func() {
		if r := recover(); r != nil {
			res = Result[R]{Err: panicError(r)}
		}
	}()

	if lim := w.coord.cfg.rateLimiter; lim != nil {
		if err := lim.Wait(item.ctx); err != nil {
			return Result[R]{Err: err}
		}
	}

	v, err := item.task(item.ctx)
	if err != nil {
		return Result[R]{Err: err}
	}
	return Result[R]{Value: v}
}

// finish delivers the result exactly once. Callback panics are not
// recovered here; they unwind through run, which retires this worker.
func (w *worker[R]) finish(item *workItem[R], res Result[R]) {
	// The context snapshot must not outlive the task it was captured for.
	item.ctx = nil
	item.task = nil

	if item.onResult != nil {
		item.onResult(res)
		return
	}
	if res.Err != nil {
		w.notifyFailure(res.Err)
	}
}

// notifyFailure reports a callback-less failure to the configured hook.
// Best-effort: a panicking hook must not cost the pool a worker.
func (w *worker[R]) notifyFailure(err error) {
	hook := w.coord.cfg.onFailure
	if hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.coord.logger.WithField("panic", r).Warn("failure hook panicked")
		}
	}()
	hook(err)
}
