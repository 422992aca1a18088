// Package workerpool bounds how many scheduling operations
// (ScheduleEvent/CommitSchedule/FinalizeMatch) run concurrently across
// the process, realizing the "many events schedule in parallel"
// requirement without letting an unbounded burst of requests open one
// goroutine and one Postgres transaction each. Each submitted job is
// still serialized per event by its own advisory lock (package lock);
// this pool only caps the process-wide fan-out.
//
// Grounded on the teacher pack's resync_service.go, which bounds a
// burst of per-league resync tasks the same way: ants.NewPool sized to
// the task count, Submit per task, WaitGroup to drain.
package workerpool

import (
	"context"
	"fmt"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

// Pool bounds concurrent scheduling jobs to a fixed capacity.
type Pool struct {
	inner  *ants.Pool
	logger *zap.Logger
}

// New creates a Pool with the given capacity (maximum jobs running at
// once; additional Submit calls block until a slot frees).
func New(capacity int, logger *zap.Logger) (*Pool, error) {
	inner, err := ants.NewPool(capacity)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Pool{inner: inner, logger: logger}, nil
}

// Release closes the pool; it does not wait for jobs already running
// to finish.
func (p *Pool) Release() {
	p.inner.Release()
}

// Submit runs job in the pool, invoking onResult (possibly from a
// different goroutine than the caller) with its outcome. Submit itself
// only blocks if the pool has no free slot and its internal queue is
// full; it never runs job synchronously.
func (p *Pool) Submit(ctx context.Context, label string, job func(ctx context.Context) error, onResult func(error)) error {
	return p.inner.Submit(func() {
		err := job(ctx)
		if err != nil {
			p.logger.Warn("pool job failed", zap.String("job", label), zap.Error(err))
		}
		if onResult != nil {
			onResult(err)
		}
	})
}

// SubmitSync runs job in the pool and blocks the caller until it
// finishes (or ctx is cancelled first), returning job's own error.
// This is what the HTTP handlers use to route a single
// ScheduleEvent/CommitSchedule/FinalizeMatch request through the
// pool's bounded concurrency while still answering the request
// synchronously.
func (p *Pool) SubmitSync(ctx context.Context, label string, job func(ctx context.Context) error) error {
	done := make(chan error, 1)
	if err := p.Submit(ctx, label, job, func(err error) { done <- err }); err != nil {
		return fmt.Errorf("submit %s: %w", label, err)
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports how many jobs are currently executing.
func (p *Pool) Running() int {
	return p.inner.Running()
}

// Cap reports the pool's configured capacity.
func (p *Pool) Cap() int {
	return p.inner.Cap()
}
