// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// checkpointProbe pairs a checkpoint handle with the number of producer
// tasks staged before it in its span, as tracked during generation.
type checkpointProbe struct {
	handle    TaskCheckpoint
	producers int
}

// TestGraphAdversarialSpans builds random task lists out of spans with
// zero, one, or many producer tasks per checkpoint, interleaved with
// fences, and checks the wiring invariants at every boundary: the reset
// value bookkeeping, exactly-once task execution, and completion of every
// checkpoint handle. The same compiled list is then executed a second
// time on a real pool to confirm that re-arming works end to end.
func TestGraphAdversarialSpans(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)

		threadCount := rapid.IntRange(1, 8).Draw(t, "threadCount")
		b := NewBuilder(threadCount)

		var (
			probes    []checkpointProbe
			fences    []TaskFence
			taskRuns  []*atomic.Int32
			spanTasks int
		)

		stageTask := func() {
			runs := &atomic.Int32{}
			taskRuns = append(taskRuns, runs)
			b.Execute(func() { runs.Add(1) })
			spanTasks++
		}

		spanCount := rapid.IntRange(1, 4).Draw(t, "spans")
		for span := 0; span < spanCount; span++ {
			opCount := rapid.IntRange(0, 6).Draw(t, "ops")
			for op := 0; op < opCount; op++ {
				switch rapid.IntRange(0, 2).Draw(t, "kind") {
				case 0:
					stageTask()
				case 1:
					probes = append(probes, checkpointProbe{
						handle:    b.Checkpoint(),
						producers: spanTasks,
					})
				case 2:
					fences = append(fences, b.Fence())
				}
			}
			if span < spanCount-1 {
				probes = append(probes, checkpointProbe{
					handle:    b.Barrier(),
					producers: spanTasks,
				})
				spanTasks = 0
			}
		}
		trailingProducers := spanTasks

		l := b.Build()

		// The final entry is always a barrier.
		last, ok := l.entries[len(l.entries)-1].(*checkpoint)
		chk.True(ok)
		chk.True(last.barrier)

		// Reset values count each checkpoint's span producers plus the
		// scheduler credit, at every boundary including empty spans.
		chk.Len(l.checkpoints, len(probes)+1)
		for i, probe := range probes {
			chk.Equal(int64(probe.producers+1), l.checkpoints[i].resetValue)
		}
		chk.Equal(int64(trailingProducers+1), last.resetValue)

		// Drain sequentially, signaling fences only when progression is
		// genuinely stuck on one.
		l.reset(sync.NewCond(&sync.Mutex{}))
		nextFence := 0
		for {
			var batch []*taskHolder
			drained, emitted := l.next(func(th *taskHolder) {
				batch = append(batch, th)
			})
			for _, th := range batch {
				th.execute()
			}
			if drained {
				break
			}
			if emitted == 0 {
				chk.Less(nextFence, len(fences), "stuck with no fence left to signal")
				fences[nextFence].Signal()
				nextFence++
			}
		}

		for i, runs := range taskRuns {
			chk.Equalf(int32(1), runs.Load(), "task %d", i)
		}
		for i, probe := range probes {
			chk.Truef(probe.handle.WaitFor(0), "checkpoint %d", i)
		}

		// Second execution on a pool: Push re-arms every primitive.
		pool := NewPool(threadCount)
		future := pool.Push(l)
		for _, f := range fences {
			f.Signal()
		}
		chk.True(future.WaitFor(10 * time.Second))
		chk.Same(l, future.Get())
		pool.WaitIdle()
		pool.Close()

		for i, runs := range taskRuns {
			chk.Equalf(int32(2), runs.Load(), "task %d after second run", i)
		}
		for i, probe := range probes {
			chk.Truef(probe.handle.WaitFor(0), "checkpoint %d after second run", i)
		}
	})
}
