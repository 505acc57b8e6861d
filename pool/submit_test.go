package pool

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSubmit_CallbackSuccessExactlyOnce(t *testing.T) {
	p := newTestPool(t, 1, 1)
	p.Start()
	defer p.Stop()

	var calls atomic.Int32
	got := make(chan Result[int], 2)
	p.SubmitFunc(func(res Result[int]) {
		calls.Add(1)
		got <- res
	}, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	res := <-got
	if !res.OK() || res.Value != 42 {
		t.Fatalf("expected (true, 42), got OK=%v value=%d err=%v", res.OK(), res.Value, res.Err)
	}

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback invoked %d times, want exactly 1", calls.Load())
	}
}

func TestSubmit_CallbackFailureExactlyOnce(t *testing.T) {
	p := newTestPool(t, 1, 1)
	p.Start()
	defer p.Stop()

	boom := errors.New("boom")
	var calls atomic.Int32
	got := make(chan Result[int], 2)
	p.SubmitFunc(func(res Result[int]) {
		calls.Add(1)
		got <- res
	}, func(ctx context.Context) (int, error) {
		return 0, boom
	})

	res := <-got
	if res.OK() {
		t.Fatal("expected failed result")
	}
	if !errors.Is(res.Err, boom) {
		t.Fatalf("expected boom, got %v", res.Err)
	}

	time.Sleep(50 * time.Millisecond)
	if calls.Load() != 1 {
		t.Errorf("callback invoked %d times, want exactly 1", calls.Load())
	}
}

func TestSubmit_TaskPanicBecomesFailure(t *testing.T) {
	p := newTestPool(t, 1, 1)
	p.Start()
	defer p.Stop()

	got := make(chan Result[int], 1)
	p.SubmitFunc(func(res Result[int]) {
		got <- res
	}, func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	res := <-got
	if res.OK() {
		t.Fatal("expected failed result from panicking task")
	}
	if !strings.Contains(res.Err.Error(), "kaboom") {
		t.Errorf("panic value missing from error: %v", res.Err)
	}

	// The worker that ran the panicking task must survive.
	var ran atomic.Bool
	p.Submit(func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 0, nil
	})
	waitFor(t, time.Second, ran.Load, "worker did not survive task panic")
}

func TestSubmit_FailureHookObservesSilentFailures(t *testing.T) {
	seen := make(chan error, 1)
	p := newTestPool(t, 1, 1, WithFailureHook(func(err error) {
		seen <- err
	}))
	p.Start()
	defer p.Stop()

	boom := errors.New("boom")
	p.Submit(func(ctx context.Context) (int, error) {
		return 0, boom
	})

	select {
	case err := <-seen:
		if !errors.Is(err, boom) {
			t.Errorf("hook received %v, want boom", err)
		}
	case <-time.After(time.Second):
		t.Fatal("failure hook was not invoked")
	}
}

func TestSubmit_FailureHookNotCalledWithCallback(t *testing.T) {
	var hookCalls atomic.Int32
	p := newTestPool(t, 1, 1, WithFailureHook(func(err error) {
		hookCalls.Add(1)
	}))
	p.Start()
	defer p.Stop()

	got := make(chan Result[int], 1)
	p.SubmitFunc(func(res Result[int]) {
		got <- res
	}, func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})

	<-got
	time.Sleep(20 * time.Millisecond)
	if hookCalls.Load() != 0 {
		t.Error("failure hook fired for a task that had a callback")
	}
}

func TestSubmit_FailureHookPanicDoesNotKillWorker(t *testing.T) {
	p := newTestPool(t, 1, 1, WithFailureHook(func(err error) {
		panic("bad hook")
	}))
	p.Start()
	defer p.Stop()

	p.Submit(func(ctx context.Context) (int, error) {
		return 0, errors.New("boom")
	})

	var ran atomic.Bool
	p.Submit(func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 0, nil
	})
	waitFor(t, time.Second, ran.Load, "worker did not survive failure hook panic")
}

func TestSubmit_CallbackPanicRetiresWorker(t *testing.T) {
	p := newTestPool(t, 0, 2)
	p.Start()
	defer p.Stop()

	done := make(chan struct{})
	p.SubmitFunc(func(res Result[int]) {
		close(done)
		panic("bad callback")
	}, func(ctx context.Context) (int, error) {
		return 0, nil
	})
	<-done

	// The panicking callback costs the pool its worker.
	waitFor(t, time.Second, func() bool {
		return p.Workers() == 0
	}, "retired worker still counted as live")

	// The pool itself survives; the next dispatch replenishes the slot.
	var ran atomic.Bool
	p.Submit(func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 0, nil
	})
	waitFor(t, time.Second, ran.Load, "pool did not recover after callback panic")
}

func TestSubmit_ContextValuePropagation(t *testing.T) {
	type key struct{}

	p, err := New[string](1, 1, WithContextCapture(func() context.Context {
		return context.WithValue(context.Background(), key{}, "ambient")
	}))
	if err != nil {
		t.Fatal(err)
	}
	p.Start()
	defer p.Stop()

	got := make(chan Result[string], 1)
	p.SubmitFunc(func(res Result[string]) {
		got <- res
	}, func(ctx context.Context) (string, error) {
		v, _ := ctx.Value(key{}).(string)
		return v, nil
	})

	res := <-got
	if res.Value != "ambient" {
		t.Errorf("task observed %q, want %q", res.Value, "ambient")
	}
}

func TestSubmit_ContextCapturedPerSubmission(t *testing.T) {
	type key struct{}
	var next atomic.Int32

	p, err := New[int](1, 1, WithContextCapture(func() context.Context {
		return context.WithValue(context.Background(), key{}, int(next.Add(1)))
	}))
	if err != nil {
		t.Fatal(err)
	}
	p.Start()
	defer p.Stop()

	got := make(chan Result[int], 2)
	task := func(ctx context.Context) (int, error) {
		v, _ := ctx.Value(key{}).(int)
		return v, nil
	}
	cb := func(res Result[int]) { got <- res }
	p.SubmitFunc(cb, task)
	p.SubmitFunc(cb, task)

	first, second := <-got, <-got
	if first.Value == second.Value {
		t.Errorf("context snapshot leaked across tasks: %d == %d", first.Value, second.Value)
	}
}

func TestSubmit_NilTaskIgnored(t *testing.T) {
	p := newTestPool(t, 1, 1)
	p.Start()
	defer p.Stop()

	p.Submit(nil)
	time.Sleep(20 * time.Millisecond)
	if backlog := p.QueueSize(); backlog != 0 {
		t.Errorf("nil task was accepted, backlog %d", backlog)
	}
}

func TestSubmit_RateLimitPacesExecution(t *testing.T) {
	p := newTestPool(t, 2, 2, WithRateLimit(50, 1))
	p.Start()
	defer p.Stop()

	const n = 5
	done := make(chan struct{}, n)
	start := time.Now()
	for i := 0; i < n; i++ {
		p.Submit(func(ctx context.Context) (int, error) {
			done <- struct{}{}
			return 0, nil
		})
	}
	for i := 0; i < n; i++ {
		<-done
	}

	// 50 tasks/sec with burst 1 spaces 5 tasks over at least ~80ms.
	if elapsed := time.Since(start); elapsed < 60*time.Millisecond {
		t.Errorf("rate limit not applied, 5 tasks finished in %v", elapsed)
	}
}
