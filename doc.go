// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

// Package nes provides a dependency-aware cooperative scheduler on top of
// a fixed-size worker pool. A [Builder] records a flat sequence of tasks
// and synchronization points (checkpoints, barriers, and fences) and
// compiles it into a [TaskList]; a [Pool] then executes the list,
// incrementally releasing tasks as the synchronization points they depend
// on are satisfied.
//
// Within a span (the stretch of a list between two barriers), tasks run in
// parallel and each checkpoint counts down once per task that precedes it
// in the span. A barrier is a checkpoint that additionally halts list
// progression until every task before it has finished, and a fence halts
// progression until an outside actor calls [TaskFence.Signal]. Results of
// individual tasks, checkpoints, and whole lists are observed through
// [TaskResult] handles.
//
// The pool also runs ad-hoc work submitted with [Pool.Execute] and
// [Submit], interleaved arbitrarily with list-sourced tasks. The scheduler
// guarantees only the ordering implied by checkpoints, barriers, and
// fences; synchronization of state shared between task closures beyond
// those boundaries is the caller's responsibility. Countdown operations
// use acquire/release atomics, so a task's writes happen before the reads
// of any task in a later span, provided the data dependency crosses at
// least one barrier.
//
// Task closures must not panic: tasks execute on detached worker
// goroutines with no supervising recover, so a panicking payload
// terminates the process. Closures that can fail should recover
// internally and surface the failure through their captured state or
// their [TaskResult] value.
package nes
