// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

// taskHolder is a type-erased unit of work. run is the caller's closure,
// possibly wrapped to capture a return value into a result state; rearm
// re-arms that state for a new list execution and is nil for
// fire-and-forget tasks. checkpoints is the task's checkpoint range: a
// view over the span checkpoints this task must decrement after running,
// bound during [Builder.Build] and borrowed from the owning list's
// checkpoint sequence. Ad-hoc tasks submitted directly to a pool carry an
// empty range.
type taskHolder struct {
	run         func()
	rearm       func()
	checkpoints []*checkpoint
}

// execute runs the payload and then triggers every checkpoint in the
// bound range. It is called with the pool mutex released.
func (t *taskHolder) execute() {
	t.run()
	for _, c := range t.checkpoints {
		c.countDown()
	}
}

func (t *taskHolder) reset() {
	if t.rearm != nil {
		t.rearm()
	}
}
