// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import "runtime"

// A Builder records a flat sequence of tasks, checkpoints, barriers, and
// fences ahead of time, then compiles it into a [TaskList] with
// [Builder.Build]. Entries are appended in program order; tasks between
// two consecutive barriers form a span and may execute in any order
// relative to one another.
//
// A Builder is not safe for concurrent use. After Build it is empty and
// may be reused by appending again.
type Builder struct {
	threadCount int
	staged      []entry
}

// NewBuilder creates a builder. threadCount is a hint used only to decide
// how [Builder.Dispatch] chunks large index spaces; it should normally
// match the thread count of the pool the list will run on. A value of
// zero or less selects the default thread count (the detected CPU count,
// or 8 if detection fails).
func NewBuilder(threadCount int) *Builder {
	return &Builder{
		threadCount: normalizeThreadCount(threadCount),
		staged:      make([]entry, 0, 32),
	}
}

func normalizeThreadCount(n int) int {
	if n > 0 {
		return n
	}
	if c := runtime.NumCPU(); c > 0 {
		return c
	}
	return 8
}

// Execute appends a fire-and-forget task.
func (b *Builder) Execute(fn func()) {
	if fn == nil {
		panic("task function must be non-nil")
	}
	b.pushTask(&taskHolder{run: fn})
}

// Invoke appends a task whose return value is observable through the
// returned handle. The handle is valid to hold immediately, but blocks
// until the compiled list has been pushed to a pool and the task has run.
//
// Invoke is a free function because Go methods cannot introduce type
// parameters.
func Invoke[R any](b *Builder, fn func() R) TaskResult[R] {
	if fn == nil {
		panic("task function must be non-nil")
	}
	state := newResultState[R]()
	b.pushTask(&taskHolder{
		run:   func() { state.set(fn()) },
		rearm: state.rearm,
	})
	return TaskResult[R]{state: state}
}

// Dispatch fans the index space [0,x)×[0,y)×[0,z) out into tasks, calling
// fn exactly once per index triple. When the space is smaller than the
// builder's thread count each triple becomes its own task; otherwise the
// space is partitioned into threadCount contiguous chunks whose sizes
// differ by at most one, each chunk looping over its linear-index range
// within a single task. Dispatch panics if any extent is zero.
func (b *Builder) Dispatch(x, y, z uint32, fn func(x, y, z uint32)) {
	if x == 0 || y == 0 || z == 0 {
		panic("dispatch extent must be non-zero")
	}
	if fn == nil {
		panic("task function must be non-nil")
	}

	totalCalls := uint64(x) * uint64(y) * uint64(z)

	if totalCalls < uint64(b.threadCount) {
		for currentZ := uint32(0); currentZ < z; currentZ++ {
			for currentY := uint32(0); currentY < y; currentY++ {
				for currentX := uint32(0); currentX < x; currentX++ {
					currentX, currentY, currentZ := currentX, currentY, currentZ
					b.pushTask(&taskHolder{run: func() {
						fn(currentX, currentY, currentZ)
					}})
				}
			}
		}
		return
	}

	callsPerThread := totalCalls / uint64(b.threadCount)
	remainder := totalCalls % uint64(b.threadCount)
	zFactor := uint64(x) * uint64(y)

	for calls := uint64(0); calls < totalCalls; {
		count := callsPerThread
		if remainder > 0 {
			count++
			remainder--
		}
		begin := calls
		b.pushTask(&taskHolder{run: func() {
			for i := begin; i < begin+count; i++ {
				currentX := uint32(i % uint64(x))
				currentY := uint32((i / uint64(x)) % uint64(y))
				currentZ := uint32(i / zFactor)
				fn(currentX, currentY, currentZ)
			}
		}})
		calls += count
	}
}

// Barrier appends a hard synchronization point: the scheduler will not
// release any later entry until every task before the barrier has
// finished. The returned handle becomes ready at that moment.
func (b *Builder) Barrier() TaskCheckpoint {
	c := newCheckpoint(true)
	b.staged = append(b.staged, c)
	return TaskCheckpoint{state: c.state}
}

// Checkpoint appends an observable progress marker. Unlike a barrier it
// does not gate scheduling: the returned handle becomes ready once every
// task preceding it in its span has finished, while later tasks may
// already be running.
func (b *Builder) Checkpoint() TaskCheckpoint {
	c := newCheckpoint(false)
	b.staged = append(b.staged, c)
	return TaskCheckpoint{state: c.state}
}

// Fence appends an externally gated synchronization point. The scheduler
// will not release any later entry until [TaskFence.Signal] is called on
// the returned handle.
func (b *Builder) Fence() TaskFence {
	f := &fence{}
	b.staged = append(b.staged, f)
	return TaskFence{holder: f}
}

// Build compiles the staged sequence into a [TaskList] and clears the
// builder. A trailing barrier is always appended first; the pool uses it
// to detect that the list has fully drained, and it guarantees the list's
// completion handle is not fulfilled before every task has run.
//
// Compilation walks the sequence span by span (a span ends at each
// barrier, the trailing one included). Every task in a span is wired to
// decrement each checkpoint that follows it before the span's end, and
// every checkpoint's reset value is set to the number of tasks preceding
// it in the span plus one credit spent by the scheduler itself when it
// advances past the entry.
func (b *Builder) Build() *TaskList {
	b.Barrier()

	out := &TaskList{
		entries: make([]entry, 0, len(b.staged)),
	}

	// Collect all checkpoints first so the per-task ranges below can
	// borrow stable subslices.
	for _, e := range b.staged {
		if c, ok := e.(*checkpoint); ok {
			out.checkpoints = append(out.checkpoints, c)
		}
	}

	begin := 0
	checkpointsBegin := 0
	checkpointsSize := 0
	for i, e := range b.staged {
		if c, ok := e.(*checkpoint); ok {
			checkpointsSize++
			if c.barrier {
				b.flush(out, checkpointsBegin, checkpointsBegin+checkpointsSize, begin, i+1)
				checkpointsBegin += checkpointsSize
				checkpointsSize = 0
				begin = i + 1
			}
		}
	}

	b.staged = b.staged[:0]

	return out
}

// flush compiles one span. checkpointsBegin advances as the span's
// checkpoints are passed, so each task's range covers exactly the
// checkpoints that follow it before the span's terminating barrier.
func (b *Builder) flush(out *TaskList, checkpointsBegin, checkpointsEnd, begin, end int) {
	taskCount := int64(0)
	for _, e := range b.staged[begin:end] {
		switch v := e.(type) {
		case *checkpoint:
			v.resetValue = taskCount + 1 // + 1 for the scheduler
			checkpointsBegin++
		case *taskHolder:
			v.checkpoints = out.checkpoints[checkpointsBegin:checkpointsEnd]
			taskCount++
		}
		out.entries = append(out.entries, e)
	}
}

func (b *Builder) pushTask(t *taskHolder) {
	b.staged = append(b.staged, t)
}
