// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import "sync/atomic"

// checkpoint is a countdown synchronization point within a task list. Its
// counter starts at resetValue: one credit per task wired to decrement it
// within its span, plus one credit held back for the scheduler itself.
// That extra credit is what lets checkBarrier double as "every producer
// task has finished" — the scheduler spends it when it advances past the
// entry, which also fulfills the checkpoint's completion handle.
type checkpoint struct {
	barrier    bool
	resetValue int64
	counter    atomic.Int64
	state      *resultState[struct{}]
}

func newCheckpoint(barrier bool) *checkpoint {
	return &checkpoint{
		barrier: barrier,
		state:   newResultState[struct{}](),
	}
}

// reset re-arms the checkpoint for a new list execution. The completion
// state is replaced, not mutated, so handles blocked on a previous
// execution are unaffected.
func (c *checkpoint) reset() {
	c.state.rearm()
	c.counter.Store(c.resetValue)
}

// countDown atomically decrements the counter and reports whether this
// call brought it to zero. Only one of any number of concurrent calls can
// observe the transition, so the completion handle is fulfilled exactly
// once.
func (c *checkpoint) countDown() bool {
	last := c.counter.Add(-1) == 0
	if last {
		c.state.set(struct{}{})
	}
	return last
}

// checkBarrier reports whether only the scheduler's own credit remains,
// i.e. every task that must decrement this checkpoint already has.
func (c *checkpoint) checkBarrier() bool {
	return c.counter.Load() == 1
}
