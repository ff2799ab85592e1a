package parallel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultWorkers bounds bulk requests against the backend.
const DefaultWorkers = 4

// Result is the outcome of one item.
type Result struct {
	ID       string
	Err      error
	Duration time.Duration
}

// Pool manages concurrent item calls with bounded concurrency.
type Pool struct {
	maxWorkers int
	semaphore  chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	results    []Result
	errors     []error
	failFast   bool
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewPool creates a pool. maxWorkers <= 0 means no limit. With failFast the
// pool context is cancelled on the first error.
func NewPool(ctx context.Context, maxWorkers int, failFast bool) *Pool {
	ctx, cancel := context.WithCancel(ctx)
	if maxWorkers < 0 {
		maxWorkers = 0
	}
	return &Pool{
		maxWorkers: maxWorkers,
		semaphore:  make(chan struct{}, maxWorkers),
		failFast:   failFast,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Submit schedules fn for id. It does not block; the call waits for a free
// slot on its own goroutine. A call that never runs because the pool was
// cancelled is recorded with the context error.
func (p *Pool) Submit(id string, fn func(ctx context.Context) error) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		if p.maxWorkers > 0 {
			select {
			case p.semaphore <- struct{}{}:
				defer func() { <-p.semaphore }()
			case <-p.ctx.Done():
				p.record(Result{ID: id, Err: p.ctx.Err()})
				return
			}
		}
		if err := p.ctx.Err(); err != nil {
			p.record(Result{ID: id, Err: err})
			return
		}

		start := time.Now()
		err := fn(p.ctx)
		p.record(Result{ID: id, Err: err, Duration: time.Since(start)})
	}()
}

func (p *Pool) record(r Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results = append(p.results, r)
	if r.Err != nil {
		p.errors = append(p.errors, fmt.Errorf("%s: %w", r.ID, r.Err))
		if p.failFast {
			p.cancel()
		}
	}
}

// Wait blocks until every submitted call has finished and returns results
// in completion order.
func (p *Pool) Wait() ([]Result, []error) {
	p.wg.Wait()
	p.cancel()

	p.mu.Lock()
	defer p.mu.Unlock()
	results := make([]Result, len(p.results))
	copy(results, p.results)
	errs := make([]error, len(p.errors))
	copy(errs, p.errors)
	return results, errs
}

// Each runs fn for every id and returns the results in the order of ids.
// With failFast the first error cancels the calls still pending.
func Each(ctx context.Context, ids []string, maxWorkers int, failFast bool, fn func(ctx context.Context, id string) error) []Result {
	pool := NewPool(ctx, maxWorkers, failFast)
	for _, id := range ids {
		pool.Submit(id, func(ctx context.Context) error {
			return fn(ctx, id)
		})
	}
	results, _ := pool.Wait()

	byID := make(map[string][]Result, len(results))
	for _, r := range results {
		byID[r.ID] = append(byID[r.ID], r)
	}
	ordered := make([]Result, 0, len(ids))
	for _, id := range ids {
		rs := byID[id]
		ordered = append(ordered, rs[0])
		byID[id] = rs[1:]
	}
	return ordered
}

// FirstError returns the first error that is not a cancellation caused by
// fail-fast, falling back to the first error of any kind.
func FirstError(results []Result) (Result, bool) {
	failed := Failed(results)
	if len(failed) == 0 {
		return Result{}, false
	}
	for _, r := range failed {
		if !errors.Is(r.Err, context.Canceled) {
			return r, true
		}
	}
	return failed[0], true
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
