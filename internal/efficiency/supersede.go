package efficiency

import (
	"context"
	"errors"
	"sync"
)

// Runner lets a newer computation for a consumer cancel the one still in flight.
type Runner struct {
	mu       sync.Mutex
	inflight map[string]*run
}

type run struct {
	cancel context.CancelFunc
}

// NewRunner creates an empty Runner.
func NewRunner() *Runner {
	return &Runner{inflight: make(map[string]*run)}
}

// Do runs fn under a context that is canceled when another Do starts for the same consumer.
// It reports superseded=true, and no error, when fn was canceled by a newer run or by ctx.
// A ctx deadline is not a supersede: Do returns context.DeadlineExceeded instead.
// An empty consumer never supersedes anything.
func (r *Runner) Do(ctx context.Context, consumer string, fn func(ctx context.Context) error) (superseded bool, err error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	current := &run{cancel: cancel}
	if consumer != "" {
		r.mu.Lock()
		if previous, ok := r.inflight[consumer]; ok {
			previous.cancel()
		}
		r.inflight[consumer] = current
		r.mu.Unlock()

		defer func() {
			r.mu.Lock()
			if r.inflight[consumer] == current {
				delete(r.inflight, consumer)
			}
			r.mu.Unlock()
		}()
	}

	err = fn(runCtx)
	if runCtx.Err() == nil || (err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)) {
		return false, err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return false, ctx.Err()
	}
	return true, nil
}

// InFlight reports how many consumers currently have a running computation.
func (r *Runner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.inflight)
}
