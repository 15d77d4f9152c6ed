package secrets

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Dispatcher runs cryptographic work on a bounded set of background
// goroutines so callers on latency-sensitive paths only wait for a result.
type Dispatcher struct {
	sem  *semaphore.Weighted
	size int
}

// NewDispatcher returns a dispatcher running at most workers jobs at once.
// workers <= 0 means runtime.GOMAXPROCS(0).
func NewDispatcher(workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Dispatcher{
		sem:  semaphore.NewWeighted(int64(workers)),
		size: workers,
	}
}

// Size returns the maximum number of concurrent jobs.
func (d *Dispatcher) Size() int {
	return d.size
}

type outcome[R any] struct {
	value     R
	err       error
	panicked  bool
	recovered any
}

// dispatch waits for a free slot, bounded by ctx, then runs fn on a
// background goroutine and waits for it. Once fn has started it always runs
// to completion. A panic in fn is re-raised on the calling goroutine.
func dispatch[R any](ctx context.Context, d *Dispatcher, fn func() (R, error)) (R, error) {
	var zero R
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	done := make(chan outcome[R], 1)
	go func() {
		defer d.sem.Release(1)

		var out outcome[R]
		defer func() {
			if r := recover(); r != nil {
				out.panicked = true
				out.recovered = r
			}
			done <- out
		}()
		out.value, out.err = fn()
	}()

	out := <-done
	if out.panicked {
		panic(out.recovered)
	}
	return out.value, out.err
}
