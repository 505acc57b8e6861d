package pool

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Option is a functional option for configuring the pool.
type Option func(*poolConfig)

type poolConfig struct {
	name        string
	logger      logrus.FieldLogger
	factory     ThreadFactory
	capture     CaptureFunc
	rateLimiter *rate.Limiter
	onFailure   func(error)
}

func defaultConfig() *poolConfig {
	return &poolConfig{
		name:    "threadpool",
		factory: GoroutineFactory,
		capture: defaultCapture,
	}
}

// WithName sets the pool name, used only for thread naming and log fields.
func WithName(name string) Option {
	return func(cfg *poolConfig) {
		if name != "" {
			cfg.name = name
		}
	}
}

// WithLogger sets the structured logger used for lifecycle events and
// statistics dumps. Defaults to the standard logrus logger with a "pool"
// field carrying the pool name.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(cfg *poolConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithThreadFactory replaces the primitive used to spawn worker and
// coordinator threads. The factory must return a handle whose Join blocks
// until the thread has exited.
func WithThreadFactory(factory ThreadFactory) Option {
	return func(cfg *poolConfig) {
		if factory != nil {
			cfg.factory = factory
		}
	}
}

// WithContextCapture sets the hook that snapshots the submitting
// goroutine's ambient context. If not specified, tasks run under
// context.Background.
func WithContextCapture(capture CaptureFunc) Option {
	return func(cfg *poolConfig) {
		if capture != nil {
			cfg.capture = capture
		}
	}
}

// WithRateLimit throttles task execution across the whole pool.
// tasksPerSecond specifies the sustained rate and burst the number of tasks
// that may start back-to-back. Workers wait on the limiter before running
// each task. If not specified, no rate limiting is applied.
func WithRateLimit(tasksPerSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithFailureHook observes failures of tasks submitted without a callback,
// which are otherwise dropped silently. The hook runs on the worker
// goroutine and is best-effort: a panicking hook is recovered and logged.
func WithFailureHook(hook func(error)) Option {
	return func(cfg *poolConfig) {
		cfg.onFailure = hook
	}
}
