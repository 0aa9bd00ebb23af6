// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

// Package timerp pools [time.Timer] values for the bounded waits on task
// result handles, avoiding a fresh timer allocation per call.
package timerp

import (
	"sync"
	"time"
)

// This implementation relies on [Go 1.23+ behavior] and is therefore not
// much more than a type-safe wrapper over [sync.Pool]. Get returns a
// running timer; callers must hand it back with Put, which stops it.
//
// [Go 1.23+ behavior]: https://pkg.go.dev/time#NewTimer
var pool = sync.Pool{
	New: func() any {
		t := time.NewTimer(0)
		t.Stop()
		return t
	},
}

func Get(d time.Duration) *time.Timer {
	t := pool.Get().(*time.Timer)
	t.Reset(d)
	return t
}

func Put(t *time.Timer) {
	t.Stop()
	pool.Put(t)
}
