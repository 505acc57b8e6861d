package pool

import (
	"fmt"
	"sync"

	"github.com/eapache/queue"
	"github.com/sirupsen/logrus"
)

type msgKind uint8

const (
	msgDispatch msgKind = iota
	msgResize
	msgStats
	msgQuit
	msgWorkerIdle
	msgWorkerExited
)

// message is a single entry in the coordinator's inbox. Exactly one of the
// payload fields is meaningful depending on kind.
type message[R any] struct {
	kind     msgKind
	item     *workItem[R]
	min, max int
	w        *worker[R]
	reply    chan Statistics
}

const inboxDepth = 128

// coordinator serializes every pool-mutation decision onto one goroutine.
// The registry, idle list, busy count, and backlog are touched only from
// run; every other goroutine communicates through the inbox, which is
// processed strictly in arrival order.
type coordinator[R any] struct {
	cfg    *poolConfig
	logger logrus.FieldLogger

	inbox    chan message[R]
	done     chan struct{}
	quitOnce sync.Once

	// Coordinator-goroutine state. No locks: single-owner by construction.
	min, max int
	workers  map[*worker[R]]struct{}
	idle     []*worker[R]
	busy     int
	backlog  *queue.Queue
	nextID   int
	quitting bool
}

func newCoordinator[R any](cfg *poolConfig, logger logrus.FieldLogger) *coordinator[R] {
	return &coordinator[R]{
		cfg:     cfg,
		logger:  logger,
		inbox:   make(chan message[R], inboxDepth),
		done:    make(chan struct{}),
		workers: make(map[*worker[R]]struct{}),
		backlog: queue.New(),
	}
}

func (c *coordinator[R]) send(msg message[R]) {
	c.inbox <- msg
}

// quit posts the shutdown message exactly once, no matter how many times
// Stop is called.
func (c *coordinator[R]) quit() {
	c.quitOnce.Do(func() {
		c.send(message[R]{kind: msgQuit})
	})
}

// run is the coordinator loop. It exits, closing done, once a quit message
// has been processed and the last worker has been joined.
func (c *coordinator[R]) run() {
	defer close(c.done)

	for {
		msg := <-c.inbox
		switch msg.kind {
		case msgDispatch:
			c.dispatch(msg.item)
		case msgResize:
			c.resize(msg.min, msg.max)
		case msgStats:
			msg.reply <- Statistics{
				IdleWorkerCount:     len(c.idle),
				BusyWorkerCount:     c.busy,
				BackloggedWorkCount: c.backlog.Length(),
			}
		case msgQuit:
			c.beginQuit()
		case msgWorkerIdle:
			c.workerIdle(msg.w)
		case msgWorkerExited:
			c.workerExited(msg.w)
		}

		if c.quitting && len(c.workers) == 0 {
			return
		}
	}
}

func (c *coordinator[R]) live() int {
	return len(c.idle) + c.busy
}

// dispatch hands an item to an idle worker, spawns a new worker for it if
// the pool is below max, or backlogs it.
func (c *coordinator[R]) dispatch(item *workItem[R]) {
	if c.quitting {
		return
	}

	if n := len(c.idle); n > 0 {
		w := c.idle[n-1]
		c.idle = c.idle[:n-1]
		w.state = wsBusy
		c.busy++
		w.inbox <- item
		return
	}

	if c.live() < c.max {
		c.spawn(item)
		return
	}

	c.backlog.Add(item)
}

// resize applies new bounds: shrink to max idle-first, grow to min, then a
// demand-driven sizing pass.
func (c *coordinator[R]) resize(newMin, newMax int) {
	c.min, c.max = newMin, newMax

	if over := c.live() - c.max; over > 0 {
		c.stopWorkers(over)
	}
	if under := c.min - c.live(); under > 0 {
		for i := 0; i < under; i++ {
			c.spawnForDemand()
		}
	}
	c.sizingPass()
}

// sizingPass grows the pool toward current demand: backlog depth plus busy
// workers, bounded by max. The pool never grows preemptively beyond that.
func (c *coordinator[R]) sizingPass() {
	desired := c.backlog.Length() + c.busy
	if desired > c.max {
		desired = c.max
	}
	for c.live() < desired {
		c.spawnForDemand()
	}
}

// spawnForDemand spawns one worker, feeding it the oldest backlog item when
// one is waiting.
func (c *coordinator[R]) spawnForDemand() {
	if c.backlog.Length() > 0 {
		c.spawn(c.backlog.Remove().(*workItem[R]))
		return
	}
	c.spawn(nil)
}

// spawn creates a worker record and its thread. A non-nil item makes the
// worker start out busy on it.
func (c *coordinator[R]) spawn(item *workItem[R]) {
	c.nextID++
	w := &worker[R]{
		id:   c.nextID,
		name: fmt.Sprintf("%s-worker-%d", c.cfg.name, c.nextID),
		// Room for one undelivered item plus the stop sentinel, so the
		// coordinator never blocks writing to a worker inbox.
		inbox: make(chan *workItem[R], 2),
		coord: c,
	}
	c.workers[w] = struct{}{}

	if item != nil {
		w.state = wsBusy
		c.busy++
		w.inbox <- item
	} else {
		w.state = wsIdle
		c.idle = append(c.idle, w)
	}

	w.handle = c.cfg.factory(w.name, w.run)
	c.logger.WithField("worker", w.name).Debug("worker spawned")
}

// stopWorkers retires n workers, idle ones first, then busy ones, which
// exit after completing their current task.
func (c *coordinator[R]) stopWorkers(n int) {
	for n > 0 && len(c.idle) > 0 {
		last := len(c.idle) - 1
		w := c.idle[last]
		c.idle = c.idle[:last]
		w.state = wsStopping
		w.inbox <- nil
		n--
	}
	for w := range c.workers {
		if n == 0 {
			return
		}
		if w.state == wsBusy {
			w.state = wsStopping
			c.busy--
			w.inbox <- nil
			n--
		}
	}
}

// workerIdle records a completed task: the worker either takes the oldest
// backlog item immediately or goes idle.
func (c *coordinator[R]) workerIdle(w *worker[R]) {
	if c.quitting || w.state == wsStopping {
		return
	}

	if c.backlog.Length() > 0 {
		w.inbox <- c.backlog.Remove().(*workItem[R])
		return
	}

	w.state = wsIdle
	c.busy--
	c.idle = append(c.idle, w)
}

// workerExited removes a terminated worker from the registry and joins its
// thread. A worker still counted busy here died abnormally (callback
// panic); its slot stays vacant until a later sizing pass refills it.
func (c *coordinator[R]) workerExited(w *worker[R]) {
	if w.state == wsBusy {
		c.busy--
		c.logger.WithField("worker", w.name).Warn("worker lost")
	}
	delete(c.workers, w)
	w.handle.Join()
	c.logger.WithField("worker", w.name).Debug("worker joined")
}

// beginQuit rejects further dispatches, drops the backlog, and sends the
// stop sentinel to every worker. Busy workers see it after finishing their
// current task. The run loop exits once the registry empties.
func (c *coordinator[R]) beginQuit() {
	c.quitting = true

	if dropped := c.backlog.Length(); dropped > 0 {
		c.logger.WithField("dropped", dropped).Warn("discarding backlogged work on shutdown")
	}

	for w := range c.workers {
		if w.state == wsStopping {
			continue
		}
		w.state = wsStopping
		w.inbox <- nil
	}
	c.idle = nil
	c.busy = 0
}
