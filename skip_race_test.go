// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package owq_test

import "testing"

// skipRace skips tests that run lfq MPMC transport across goroutines.
// The race detector tracks per-variable happens-before and cannot
// see the ring's cross-variable memory ordering (store-release on the
// slot sequence, load-acquire on the data), producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: lfq MPMC uses cross-variable memory ordering")
}
