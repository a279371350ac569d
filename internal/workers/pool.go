package workers

import (
	"context"
	"sync/atomic"
)

// Pool is a bounded-parallelism primitive: at most limit tasks execute at
// any time. Waiters are admitted in FIFO order. A non-positive limit
// disables throttling entirely.
type Pool struct {
	sem    chan struct{}
	limit  int
	active atomic.Int64
}

// NewPool creates a pool with the given parallelism limit.
func NewPool(limit int) *Pool {
	p := &Pool{limit: limit}
	if limit > 0 {
		p.sem = make(chan struct{}, limit)
	}
	return p
}

// Run executes task once a slot is available, releasing the slot whether the
// task succeeds or fails. Waiting is abandoned when ctx is cancelled.
func (p *Pool) Run(ctx context.Context, task func() error) error {
	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-p.sem }()
	}

	p.active.Add(1)
	defer p.active.Add(-1)

	return task()
}

// Limit returns the configured parallelism bound (<=0 means unbounded).
func (p *Pool) Limit() int {
	return p.limit
}

// Active returns the number of tasks currently executing.
func (p *Pool) Active() int {
	return int(p.active.Load())
}
