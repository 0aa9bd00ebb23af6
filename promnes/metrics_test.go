// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package promnes

import (
	"testing"

	nes "github.com/Alairion/not-enough-standards"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetricsTaskCounts(t *testing.T) {
	chk := require.New(t)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics("nestest", reg, MetricsOptions{})
	chk.NoError(err)

	ran := 0
	task := metrics.Task("count", func() { ran++ })
	task()
	task()

	chk.Equal(2, ran)
	chk.Equal(float64(2), testutil.ToFloat64(metrics.taskTotal.WithLabelValues("count")))
	chk.Equal(float64(0), testutil.ToFloat64(metrics.tasksInFlight.WithLabelValues("count")))
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	chk := require.New(t)

	reg := prometheus.NewRegistry()
	_, err := NewMetrics("nestest", reg, MetricsOptions{})
	chk.NoError(err)

	_, err = NewMetrics("nestest", reg, MetricsOptions{})
	chk.Error(err)
}

func TestInstrumentedGraph(t *testing.T) {
	chk := require.New(t)

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics("nestest", reg, MetricsOptions{})
	chk.NoError(err)

	pool := nes.NewPool(2)
	defer pool.Close()

	var hits [4]uint32
	builder := nes.NewBuilder(pool.ThreadCount())
	Dispatch(builder, metrics, "mark", 4, 1, 1, func(x, y, z uint32) {
		hits[x]++
	})

	pool.Push(builder.Build()).Wait()

	for i, h := range hits {
		chk.Equalf(uint32(1), h, "index %d", i)
	}
	chk.Equal(float64(4), testutil.ToFloat64(metrics.kernelCallsTotal.WithLabelValues("mark")))
}
