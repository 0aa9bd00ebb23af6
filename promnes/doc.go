// Copyright (c) Alexy Pellegrini. All rights reserved.
// Licensed under the MIT License.

// Package promnes layers observability over task callables destined for a
// [nes.Builder] or [nes.Pool]: structured logging with zap and Prometheus
// metrics for execution counts, durations, and in-flight work. The core
// scheduler stays silent by design; these wrappers are opt-in and
// per-callable, so instrumentation cost is paid only where asked for.
//
// Wrappers do not recover from panics: a panicking task payload is fatal
// in the core contract, and hiding that here would only move the crash.
package promnes
