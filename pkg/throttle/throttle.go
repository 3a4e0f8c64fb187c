// Package throttle provides a bounded-concurrency task runner used by the
// crawler workers to limit in-flight requests against the Ethos API.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrInvalidLimit is returned when a runner is created with a limit below 1.
	ErrInvalidLimit = errors.New("max concurrency must be at least 1")
)

// Runner executes submitted tasks with at most a fixed number running at any
// time. Tasks beyond the limit wait in submission order; a finishing task
// promotes exactly one queued task. Failures are isolated to the task's own
// caller and the runner never retries or cancels on its own.
type Runner struct {
	mu      sync.Mutex
	limit   int
	running int
	queue   []func()
}

// New creates a Runner that keeps at most maxConcurrent tasks in flight.
func New(maxConcurrent int) (*Runner, error) {
	if maxConcurrent < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLimit, maxConcurrent)
	}

	return &Runner{
		limit: maxConcurrent,
		queue: make([]func(), 0),
	}, nil
}

// Limit returns the maximum number of concurrently running tasks.
func (r *Runner) Limit() int {
	return r.limit
}

// InFlight returns the number of tasks currently running.
func (r *Runner) InFlight() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.running
}

// Queued returns the number of tasks waiting for a slot.
func (r *Runner) Queued() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.queue)
}

// submit enqueues a start function and drains the queue. The start function
// must call settle exactly once when the task finishes.
func (r *Runner) submit(start func()) {
	r.mu.Lock()
	r.queue = append(r.queue, start)
	r.drain()
	r.mu.Unlock()
}

// drain promotes queued tasks while capacity remains. Callers must hold mu.
// The capacity check before every pop keeps the promotion re-entrant safe:
// a settling task and a submitting caller can both drain without double-starts.
func (r *Runner) drain() {
	for r.running < r.limit && len(r.queue) > 0 {
		start := r.queue[0]
		r.queue = r.queue[1:]
		r.running++

		go start()
	}
}

// settle releases the finished task's slot and promotes the next queued task.
func (r *Runner) settle() {
	r.mu.Lock()
	r.running--
	r.drain()
	r.mu.Unlock()
}

// Task is a handle to a submitted task's eventual result.
type Task[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Wait blocks until the task settles or the context is cancelled. The task
// itself keeps running to completion even if the wait is abandoned.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Go submits a task to the runner and returns a handle for its result.
// The task starts immediately if a slot is free, otherwise it waits in FIFO
// order behind previously queued tasks. A panic inside the task is recovered
// and surfaced as the task's error so one bad task cannot stall the runner.
func Go[T any](r *Runner, task func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	r.submit(func() {
		defer func() {
			if p := recover(); p != nil {
				t.err = fmt.Errorf("task panicked: %v", p)
			}

			close(t.done)
			r.settle()
		}()

		t.result, t.err = task()
	})

	return t
}
