// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package promnes

import (
	"time"

	"go.uber.org/zap"
)

// LoggedTask adds structured logging to a task callable. The wrapper logs
// the start and completion of each execution with timing information,
// using the process-global zap logger.
func LoggedTask(operationName string, fn func()) func() {
	return func() {
		logger := zap.L()

		logger.Debug("Starting task",
			zap.String("operation", operationName),
			zap.String("component", "promnes"))

		startTime := time.Now()
		fn()

		logger.Debug("Task completed",
			zap.String("operation", operationName),
			zap.String("component", "promnes"),
			zap.Duration("duration", time.Since(startTime)))
	}
}

// LoggedKernel adds structured logging to a dispatch kernel. Because a
// kernel may be invoked once per index triple, only chunk-level timing is
// useful; the wrapper therefore logs at debug level with the triple
// attached rather than timing each call.
func LoggedKernel(operationName string, fn func(x, y, z uint32)) func(x, y, z uint32) {
	return func(x, y, z uint32) {
		logger := zap.L()

		logger.Debug("Running kernel",
			zap.String("operation", operationName),
			zap.String("component", "promnes"),
			zap.Uint32("x", x),
			zap.Uint32("y", y),
			zap.Uint32("z", z))

		fn(x, y, z)
	}
}
