// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import "sync"

// entry is one element of a compiled task list: a *checkpoint, a
// *taskHolder, or a *fence. All three re-arm through reset when the list
// begins a new execution.
type entry interface {
	reset()
}

// A TaskList is a compiled, ordered sequence of tasks, checkpoints, and
// fences produced by [Builder.Build]. Push it to a [Pool] with [Pool.Push]
// to execute it; the same list may be pushed again once a previous
// execution has completed, re-arming all of its synchronization
// primitives and result handles.
//
// A TaskList must not be shared between concurrent executions.
type TaskList struct {
	entries     []entry
	cursor      int
	checkpoints []*checkpoint
}

// reset re-arms every entry for a new execution, wires every fence to the
// pool's work condition so signals wake a worker, and rewinds the cursor.
// Called once per execution, at push time.
func (l *TaskList) reset(cond *sync.Cond) {
	for _, e := range l.entries {
		if f, ok := e.(*fence); ok {
			f.setCondition(cond)
		}
		e.reset()
	}
	l.cursor = 0
}

// next advances the cursor, emitting every task that is ready to run. It
// stops at a barrier whose producers have not all finished or at a fence
// that has not been signaled, and reports whether the end of the list was
// reached along with the number of tasks emitted by this call.
//
// The cursor only moves forward. Advancing past a checkpoint spends the
// scheduler's credit on it via countDown, which fulfills the checkpoint's
// completion handle once all of its producer tasks have also counted it
// down. Callers hold the pool mutex across the call.
func (l *TaskList) next(emit func(*taskHolder)) (drained bool, count int) {
	for l.cursor < len(l.entries) {
		switch e := l.entries[l.cursor].(type) {
		case *checkpoint:
			if e.barrier && !e.checkBarrier() {
				return false, count
			}
			e.countDown()
		case *taskHolder:
			emit(e)
			count++
		case *fence:
			if !e.isSignaled() {
				return false, count
			}
		}
		l.cursor++
	}
	return true, count
}
