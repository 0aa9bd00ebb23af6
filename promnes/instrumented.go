// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package promnes

import (
	nes "github.com/Alairion/not-enough-standards"
)

// InstrumentedTask combines logging and metrics for a task callable.
func InstrumentedTask(m *Metrics, operationName string, fn func()) func() {
	// Apply wrappers inside-out: logging first, then metrics, so the
	// recorded duration includes the log calls the caller will also pay
	// for in production.
	return m.Task(operationName, LoggedTask(operationName, fn))
}

// InstrumentedKernel combines logging and metrics for a dispatch kernel.
func InstrumentedKernel(m *Metrics, operationName string, fn func(x, y, z uint32)) func(x, y, z uint32) {
	return m.Kernel(operationName, LoggedKernel(operationName, fn))
}

// Execute appends an instrumented fire-and-forget task to the builder.
//
// Example:
//
//	metrics, _ := promnes.NewMetrics("myapp", nil, promnes.MetricsOptions{})
//	promnes.Execute(builder, metrics, "load-chunk", loadChunk)
func Execute(b *nes.Builder, m *Metrics, operationName string, fn func()) {
	b.Execute(InstrumentedTask(m, operationName, fn))
}

// Dispatch fans out an instrumented kernel through the builder.
func Dispatch(b *nes.Builder, m *Metrics, operationName string, x, y, z uint32, fn func(x, y, z uint32)) {
	b.Dispatch(x, y, z, InstrumentedKernel(m, operationName, fn))
}

// ExecuteOn enqueues an instrumented ad-hoc task on the pool.
func ExecuteOn(p *nes.Pool, m *Metrics, operationName string, fn func()) {
	p.Execute(InstrumentedTask(m, operationName, fn))
}
