package pool

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a Pool. Transitions are owned by the
// controller: NotStarted -> Running -> Stopping -> Joined, with Joined ->
// Running again on restart.
type State uint8

const (
	StateNotStarted State = iota
	StateRunning
	StateStopping
	StateJoined
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateJoined:
		return "joined"
	default:
		return "unknown"
	}
}

// Pool is an adaptive pool of workers bounded between a minimum and maximum
// count. It is safe for concurrent use: any goroutine may submit work or
// query statistics while others start, resize, or stop the pool.
//
// Type parameter R is the result type produced by submitted tasks.
type Pool[R any] struct {
	mu    sync.RWMutex
	state State

	minWorkers int
	maxWorkers int

	cfg    *poolConfig
	logger logrus.FieldLogger

	coord       *coordinator[R]
	coordHandle Handle
}

// New creates an unstarted pool that will keep at least minWorkers and at
// most maxWorkers workers alive. It returns a *ConfigurationError if
// minWorkers is negative or exceeds maxWorkers.
func New[R any](minWorkers, maxWorkers int, opts ...Option) (*Pool[R], error) {
	if err := validateSize(minWorkers, maxWorkers); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logrus.StandardLogger()
	}

	return &Pool[R]{
		minWorkers: minWorkers,
		maxWorkers: maxWorkers,
		cfg:        cfg,
		logger:     cfg.logger.WithField("pool", cfg.name),
	}, nil
}

// Start launches the coordinator and grows the pool to its minimum size.
// It is valid from NotStarted or after a completed Stop; calling Start on a
// pool that is already running is a no-op.
func (p *Pool[R]) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateRunning || p.state == StateStopping {
		return
	}

	c := newCoordinator[R](p.cfg, p.logger)
	p.coord = c
	p.coordHandle = p.cfg.factory(p.cfg.name+"-coordinator", c.run)
	p.state = StateRunning

	// Initial sizing pass: grow to min, then as far as demand requires.
	c.send(message[R]{kind: msgResize, min: p.minWorkers, max: p.maxWorkers})
	p.logger.WithFields(logrus.Fields{
		"min": p.minWorkers,
		"max": p.maxWorkers,
	}).Debug("pool started")
}

// Submit schedules task for execution on a worker, discarding its result.
// It returns immediately and never blocks on task completion. Submissions
// while the pool is stopping, stopped, or not yet started are silent
// no-ops.
func (p *Pool[R]) Submit(task Task[R]) {
	p.SubmitFunc(nil, task)
}

// SubmitFunc schedules task for execution and delivers its result to
// onResult, which runs on the worker goroutine and is invoked exactly once.
// onResult may be nil, in which case failures go to the failure hook if one
// is configured. The ambient context of the calling goroutine is captured
// here and installed for the duration of the task.
func (p *Pool[R]) SubmitFunc(onResult Callback[R], task Task[R]) {
	if task == nil {
		return
	}

	// The read lock is held across the send so Stop cannot retire the
	// coordinator while a submission is in flight.
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state != StateRunning {
		return
	}

	item := &workItem[R]{
		task:     task,
		onResult: onResult,
		ctx:      p.cfg.capture(),
	}
	p.coord.send(message[R]{kind: msgDispatch, item: item})
}

// Resize updates the pool bounds. It returns a *ConfigurationError, leaving
// configuration and worker count untouched, if newMin is negative or
// exceeds newMax. When the pool is running, surplus workers beyond newMax
// are stopped idle-first, workers are spawned up to newMin, and a sizing
// pass grows the pool further only as far as current demand requires. When
// not running, only the stored bounds change; they take effect on the next
// Start.
func (p *Pool[R]) Resize(newMin, newMax int) error {
	if err := validateSize(newMin, newMax); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.minWorkers = newMin
	p.maxWorkers = newMax
	if p.state == StateRunning {
		p.coord.send(message[R]{kind: msgResize, min: newMin, max: newMax})
	}
	return nil
}

// Stop shuts the pool down: no further submissions are accepted, every
// worker receives a stop sentinel (busy workers after finishing their
// current task), backlogged work is dropped, and the call blocks until all
// workers and the coordinator have exited. Stop is idempotent; concurrent
// callers all block until the pool is fully joined.
func (p *Pool[R]) Stop() {
	p.mu.Lock()
	switch p.state {
	case StateNotStarted:
		p.state = StateJoined
		p.mu.Unlock()
		return
	case StateJoined:
		p.mu.Unlock()
		return
	case StateStopping:
		c, h := p.coord, p.coordHandle
		p.mu.Unlock()
		<-c.done
		h.Join()
		return
	}
	p.state = StateStopping
	c, h := p.coord, p.coordHandle
	p.mu.Unlock()

	c.quit()
	<-c.done
	h.Join()

	p.mu.Lock()
	p.state = StateJoined
	p.mu.Unlock()
	p.logger.Debug("pool stopped")
}

// State returns the current lifecycle state.
func (p *Pool[R]) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Statistics returns a consistent snapshot of idle, busy, and backlogged
// counts. The snapshot is computed on the coordinator goroutine; while the
// pool is not running all counts are zero.
func (p *Pool[R]) Statistics() Statistics {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state != StateRunning {
		return Statistics{}
	}
	reply := make(chan Statistics, 1)
	p.coord.send(message[R]{kind: msgStats, reply: reply})
	return <-reply
}

// QueueSize returns the number of accepted tasks not yet assigned to a
// worker. It is a view over Statistics kept for queue-introspection
// compatibility.
func (p *Pool[R]) QueueSize() int {
	return p.Statistics().BackloggedWorkCount
}

// Workers returns the number of live workers (idle plus busy).
func (p *Pool[R]) Workers() int {
	return p.Statistics().LiveWorkers()
}

// DumpStats logs the current statistics snapshot at info level.
func (p *Pool[R]) DumpStats() {
	stats := p.Statistics()
	p.logger.WithFields(logrus.Fields{
		"idle":    stats.IdleWorkerCount,
		"busy":    stats.BusyWorkerCount,
		"backlog": stats.BackloggedWorkCount,
	}).Info("pool statistics")
}
