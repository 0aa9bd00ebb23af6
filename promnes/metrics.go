// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package promnes

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsOptions controls collector configuration.
type MetricsOptions struct {
	DurationBuckets []float64
}

// Metrics holds the Prometheus collectors shared by instrumented
// callables. Create one per registry with [NewMetrics] and reuse it for
// every wrapped task.
type Metrics struct {
	taskTotal           *prometheus.CounterVec
	taskDurationSeconds *prometheus.HistogramVec
	tasksInFlight       *prometheus.GaugeVec
	kernelCallsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. An empty namespace
// defaults to "nes"; a nil registerer defaults to
// [prometheus.DefaultRegisterer].
func NewMetrics(namespace string, reg prometheus.Registerer, opts MetricsOptions) (*Metrics, error) {
	if namespace == "" {
		namespace = "nes"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	buckets := opts.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	m := &Metrics{
		taskTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_total",
			Help:      "Total number of task executions.",
		}, []string{"operation"}),
		taskDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Task execution duration in seconds.",
			Buckets:   buckets,
		}, []string{"operation"}),
		tasksInFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_in_flight",
			Help:      "Number of currently executing tasks.",
		}, []string{"operation"}),
		kernelCallsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kernel_calls_total",
			Help:      "Total number of dispatch kernel invocations.",
		}, []string{"operation"}),
	}

	collectors := []prometheus.Collector{
		m.taskTotal,
		m.taskDurationSeconds,
		m.tasksInFlight,
		m.kernelCallsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Task adds metrics collection to a task callable, recording execution
// count, duration, and in-flight state under the given operation label.
func (m *Metrics) Task(operationName string, fn func()) func() {
	return func() {
		m.tasksInFlight.WithLabelValues(operationName).Inc()
		startTime := time.Now()

		fn()

		m.taskDurationSeconds.WithLabelValues(operationName).Observe(time.Since(startTime).Seconds())
		m.tasksInFlight.WithLabelValues(operationName).Dec()
		m.taskTotal.WithLabelValues(operationName).Inc()
	}
}

// Kernel adds metrics collection to a dispatch kernel, counting
// invocations under the given operation label. Per-call timing is
// deliberately omitted: kernels may run once per index triple and a
// histogram observation per element would dwarf the work being measured.
func (m *Metrics) Kernel(operationName string, fn func(x, y, z uint32)) func(x, y, z uint32) {
	return func(x, y, z uint32) {
		m.kernelCallsTotal.WithLabelValues(operationName).Inc()
		fn(x, y, z)
	}
}
