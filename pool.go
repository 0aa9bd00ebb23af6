// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import (
	"slices"
	"sync"

	"github.com/gammazero/deque"
)

// A Pool owns a fixed set of worker goroutines and runs both ad-hoc tasks
// and [TaskList] executions on them concurrently. Workers drain a shared
// ready queue; whenever the queue runs dry and lists are in flight, a
// worker advances every list, feeding newly eligible tasks back into the
// queue as checkpoints, barriers, and fences are satisfied.
//
// A Pool must be created with [NewPool] and released with [Pool.Close].
// All methods are safe for concurrent use.
type Pool struct {
	threads int
	wg      sync.WaitGroup

	// mu is a single monitor guarding the ready queue, the in-flight list
	// collection, and both condition waits. The work predicate couples
	// queue emptiness with list-progression opportunity, so the state must
	// not be split across locks.
	mu       sync.Mutex
	workCond *sync.Cond
	idleCond *sync.Cond
	ready    deque.Deque[*taskHolder]
	inFlight []*inFlightList
	running  bool
}

// inFlightList pairs a pushed list with the completion state its
// [Pool.Push] handle observes.
type inFlightList struct {
	list  *TaskList
	state *resultState[*TaskList]
	done  bool
}

// NewPool creates a pool with the given number of worker goroutines. A
// value of zero or less selects the default thread count (the detected
// CPU count, or 8 if detection fails). Workers start immediately and run
// until [Pool.Close].
func NewPool(threadCount int) *Pool {
	p := &Pool{
		threads: normalizeThreadCount(threadCount),
		running: true,
	}
	p.workCond = sync.NewCond(&p.mu)
	p.idleCond = sync.NewCond(&p.mu)

	p.wg.Add(p.threads)
	for i := 0; i < p.threads; i++ {
		go p.worker()
	}
	return p
}

// worker is the loop run by every pool goroutine. It blocks on the work
// condition until ready work exists or shutdown is requested, advancing
// in-flight lists while waiting so that satisfied barriers and signaled
// fences release their tasks.
func (p *Pool) worker() {
	defer p.wg.Done()

	p.mu.Lock()
	for {
		for {
			if p.ready.Len() == 0 && len(p.inFlight) > 0 {
				notify := p.advanceListsLocked()
				for i := 0; i < min(notify, p.threads); i++ {
					p.workCond.Signal()
				}
			}
			if p.ready.Len() == 0 && len(p.inFlight) == 0 {
				p.idleCond.Broadcast()
			}
			if !p.running || p.ready.Len() > 0 {
				break
			}
			p.workCond.Wait()
		}

		if p.ready.Len() == 0 {
			// Shutdown with an empty queue.
			p.mu.Unlock()
			return
		}

		task := p.ready.PopFront()
		p.mu.Unlock()
		task.execute()
		p.mu.Lock()
	}
}

// advanceListsLocked calls next on every in-flight list, appending newly
// ready tasks to the ready queue. A list that reports fully drained with
// nothing emitted has had its trailing barrier counted down, so it is
// retired and handed back through its completion handle. Returns the
// number of tasks made ready. Callers must hold p.mu.
func (p *Pool) advanceListsLocked() int {
	notify := 0
	needFree := false

	for _, fl := range p.inFlight {
		drained, count := fl.list.next(func(t *taskHolder) {
			p.ready.PushBack(t)
		})
		if drained && count == 0 {
			fl.state.set(fl.list)
			fl.done = true
			needFree = true
		}
		notify += count
	}

	if needFree {
		p.inFlight = slices.DeleteFunc(p.inFlight, func(fl *inFlightList) bool {
			return fl.done
		})
	}

	return notify
}

// Execute enqueues an ad-hoc fire-and-forget task and wakes one worker.
func (p *Pool) Execute(fn func()) {
	if fn == nil {
		panic("task function must be non-nil")
	}
	p.mu.Lock()
	p.ready.PushBack(&taskHolder{run: fn})
	p.mu.Unlock()
	p.workCond.Signal()
}

// Submit enqueues ad-hoc work whose return value is observable through
// the returned handle, and wakes one worker.
//
// Submit is a free function because Go methods cannot introduce type
// parameters.
func Submit[R any](p *Pool, fn func() R) TaskResult[R] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	state := newResultState[R]()
	p.mu.Lock()
	p.ready.PushBack(&taskHolder{run: func() { state.set(fn()) }})
	p.mu.Unlock()
	p.workCond.Signal()
	return TaskResult[R]{state: state}
}

// Push arms the list's synchronization primitives against the pool,
// registers it as in flight, and immediately releases whatever tasks are
// ready (entries before the first barrier or fence). The returned handle
// is fulfilled with the list itself once it has fully drained, at which
// point the list may be inspected, dropped, or pushed again.
func (p *Pool) Push(list *TaskList) TaskResult[*TaskList] {
	list.reset(p.workCond)

	state := newResultState[*TaskList]()

	p.mu.Lock()
	p.inFlight = append(p.inFlight, &inFlightList{list: list, state: state})
	notify := p.advanceListsLocked()
	p.mu.Unlock()

	for i := 0; i < min(notify, p.threads); i++ {
		p.workCond.Signal()
	}

	return TaskResult[*TaskList]{state: state}
}

// WaitIdle blocks until the ready queue and the in-flight list collection
// are both empty.
func (p *Pool) WaitIdle() {
	p.mu.Lock()
	for p.ready.Len() > 0 || len(p.inFlight) > 0 {
		p.idleCond.Wait()
	}
	p.mu.Unlock()
}

// ThreadCount returns the number of worker goroutines.
func (p *Pool) ThreadCount() int {
	return p.threads
}

// Close blocks until all outstanding work has drained, then stops and
// joins every worker. The pool must not be used after Close.
func (p *Pool) Close() {
	p.mu.Lock()
	for p.ready.Len() > 0 || len(p.inFlight) > 0 {
		p.idleCond.Wait()
	}
	p.running = false
	p.mu.Unlock()

	p.workCond.Broadcast()
	p.wg.Wait()
}
