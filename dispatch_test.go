// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

package nes

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// Dispatch must invoke the kernel exactly once per index triple, with the
// union of per-task ranges covering the space exactly once, regardless of
// how the space is chunked across tasks.
func TestDispatchCoversIndexSpace(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)

		threadCount := rapid.IntRange(1, 16).Draw(t, "threadCount")
		x := rapid.Uint32Range(1, 8).Draw(t, "x")
		y := rapid.Uint32Range(1, 8).Draw(t, "y")
		z := rapid.Uint32Range(1, 8).Draw(t, "z")

		b := NewBuilder(threadCount)
		hits := make([]int, uint64(x)*uint64(y)*uint64(z))
		b.Dispatch(x, y, z, func(cx, cy, cz uint32) {
			chk.Less(cx, x)
			chk.Less(cy, y)
			chk.Less(cz, z)
			hits[uint64(cz)*uint64(x)*uint64(y)+uint64(cy)*uint64(x)+uint64(cx)]++
		})

		total := uint64(x) * uint64(y) * uint64(z)
		if total < uint64(threadCount) {
			chk.Len(b.staged, int(total))
		} else {
			chk.Len(b.staged, threadCount)
		}

		for _, e := range b.staged {
			e.(*taskHolder).run()
		}
		for i, h := range hits {
			chk.Equalf(1, h, "index %d", i)
		}
	})
}
