// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import (
	"sync"
	"sync/atomic"
)

// fence is an externally signaled gate within a task list. The scheduler
// polls signaled to decide whether to advance past it; cond is wired to
// the owning pool's work condition when the list is pushed, so a signal
// wakes a worker to re-evaluate progression.
type fence struct {
	signaled atomic.Bool
	cond     atomic.Pointer[sync.Cond]
}

func (f *fence) setCondition(cond *sync.Cond) {
	f.cond.Store(cond)
}

// reset clears the signal. Once signaled, a fence stays signaled until the
// next reset, which happens when its list begins a new execution.
func (f *fence) reset() {
	f.signaled.Store(false)
}

func (f *fence) signal() {
	f.signaled.Store(true)
	if cond := f.cond.Load(); cond != nil {
		cond.Signal()
	}
}

func (f *fence) isSignaled() bool {
	return f.signaled.Load()
}

// A TaskFence is the caller-side handle to a fence appended by
// [Builder.Fence]. The scheduler will not release any task list entry past
// the fence until Signal has been called at least once since the list last
// began execution. The zero value is not associated with a fence; Signal
// on it panics.
type TaskFence struct {
	holder *fence
}

// Signal opens the fence and wakes the pool so that list progression is
// re-evaluated. Signal is safe to call from any goroutine, including task
// closures, and calling it more than once per execution has no additional
// effect.
func (f TaskFence) Signal() {
	f.holder.signal()
}
