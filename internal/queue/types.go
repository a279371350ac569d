package queue

import (
	"context"

	"github.com/ternarybob/noesis/internal/models"
)

// Task is the body of a scheduled job. It runs once the scheduler grants a
// slot and must route its heavy phases through tc.RunStage so the shared
// stage pools apply.
type Task func(ctx context.Context, tc *TaskContext) error

// TaskContext is handed to a running task. It carries the job identity, the
// stage runner, and the throttled progress channel. The context passed to
// the task doubles as the cancellation signal: Cancel on the manager cancels
// it, and stages translate the observation into an abort error.
type TaskContext struct {
	Job     models.Job
	manager *Manager
}

// RunStage routes body through the pool owned by stage. Stage names outside
// {read, embed, write} bypass the pools. A cancelled context is observed at
// the stage boundary and surfaces as an abort error.
func (tc *TaskContext) RunStage(ctx context.Context, stage string, body func() error) error {
	return tc.manager.runStage(ctx, stage, body)
}

// UpdateProgress publishes clamped, monotonic progress for the job's item.
// Unless immediate is set (or the value reaches 100) updates are coalesced
// into the manager's throttle window.
func (tc *TaskContext) UpdateProgress(value int, immediate bool) {
	tc.manager.UpdateProgress(tc.Job.ItemID, value, immediate)
}

// Ticket tracks one accepted enqueue until it settles.
type Ticket struct {
	result chan error
}

// Done delivers the job's terminal error (nil on success) exactly once.
func (t *Ticket) Done() <-chan error {
	return t.result
}

// Wait blocks until the job settles and returns its terminal error.
func (t *Ticket) Wait() error {
	return <-t.result
}
