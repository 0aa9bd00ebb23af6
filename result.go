// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Alairion/not-enough-standards/internal/timerp"
)

// A TaskResult is a one-shot future handle to the result of a task,
// checkpoint, or task list. Handles are obtained from [Invoke], [Submit],
// [Builder.Checkpoint], [Builder.Barrier], and [Pool.Push], and may be
// copied and waited on from any goroutine.
//
// A handle is observable as soon as it is created, but only the execution
// of the associated work fulfills it: waiting on a handle whose task list
// was never pushed to a pool blocks forever. The zero value of TaskResult
// is not valid; calling anything but [TaskResult.Valid] on it panics.
type TaskResult[T any] struct {
	state *resultState[T]
}

// TaskCheckpoint is the handle to a checkpoint or barrier appended by
// [Builder.Checkpoint] or [Builder.Barrier]. It becomes ready when every
// task preceding the checkpoint in its span has executed and the scheduler
// has advanced past it.
type TaskCheckpoint = TaskResult[struct{}]

// Valid reports whether the handle is associated with a task. It returns
// false only for the zero value.
func (r TaskResult[T]) Valid() bool {
	return r.state != nil
}

// Get blocks until the result is available and returns it. Calling Get
// again after it has returned yields the same value until the underlying
// task list is pushed to a pool again, which re-arms the result.
func (r TaskResult[T]) Get() T {
	p := r.state.load()
	<-p.done
	return p.value
}

// Wait blocks until the result is available.
func (r TaskResult[T]) Wait() {
	<-r.state.load().done
}

// WaitContext blocks until the result is available or ctx is done,
// returning ctx.Err() in the latter case. A result that is already
// available is reported even if ctx is also done. The associated task
// still runs to completion in the background; there is no cancellation.
func (r TaskResult[T]) WaitContext(ctx context.Context) error {
	p := r.state.load()
	select {
	case <-p.done:
		return nil
	default:
	}
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitFor blocks until the result is available or the timeout elapses, and
// reports whether the result became available. Like [TaskResult.WaitContext],
// it never cancels the underlying work.
func (r TaskResult[T]) WaitFor(timeout time.Duration) bool {
	p := r.state.load()
	select {
	case <-p.done:
		return true
	default:
	}
	t := timerp.Get(timeout)
	defer timerp.Put(t)
	select {
	case <-p.done:
		return true
	case <-t.C:
		return false
	}
}

// WaitUntil blocks until the result is available or the deadline passes,
// and reports whether the result became available.
func (r TaskResult[T]) WaitUntil(deadline time.Time) bool {
	return r.WaitFor(time.Until(deadline))
}

// resultState is the single-assignment, observe-once backing state of a
// TaskResult. Re-arming replaces the promise wholesale rather than
// mutating it in place, so a handle blocked on the previous execution
// still observes that execution's promise and never a stale wakeup.
type resultState[T any] struct {
	p atomic.Pointer[promise[T]]
}

type promise[T any] struct {
	done  chan struct{}
	value T
}

func newResultState[T any]() *resultState[T] {
	s := &resultState[T]{}
	s.rearm()
	return s
}

func (s *resultState[T]) load() *promise[T] {
	return s.p.Load()
}

func (s *resultState[T]) rearm() {
	s.p.Store(&promise[T]{done: make(chan struct{})})
}

// set fulfills the current promise. It must be called at most once per
// rearm; the channel close both publishes the value and wakes all waiters.
func (s *resultState[T]) set(value T) {
	p := s.p.Load()
	p.value = value
	close(p.done)
}
