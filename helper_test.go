// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/owq"
)

// execExpr drives a protocol to completion on ep via Step+Advance loop.
// Retries on iox.ErrWouldBlock (another handle has not made progress yet).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[T, R any](ep owq.Endpoint[T], protocol kont.Expr[R]) (R, error) {
	result, susp := owq.Step(protocol)
	for susp != nil {
		var err error
		result, susp, err = owq.Advance(ep, susp)
		if err != nil {
			continue
		}
	}
	if err, ok := result.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := result.GetRight()
	return r, nil
}

// mustEvict overwrite-sends v and checks the eviction report.
func mustEvict[T comparable](tb testing.TB, tx *owq.OverwriteSender[T], v T, want []T) {
	tb.Helper()
	got, err := tx.SendOverwrite(v)
	if err != nil {
		tb.Fatalf("SendOverwrite(%v): %v", v, err)
	}
	if !slices.Equal(got, want) {
		tb.Fatalf("SendOverwrite(%v) evicted %v, want %v", v, got, want)
	}
}
