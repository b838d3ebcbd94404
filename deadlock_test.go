// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/owq"
)

func TestRunExprBacksOffUntilDisconnect(t *testing.T) {
	skipRace(t)
	tx, rx := owq.New[int](1)
	rx2 := rx.Clone()
	recv := func() kont.Expr[int] {
		return owq.ExprRecvBind(func(n int) kont.Expr[int] { return kont.ExprReturn(n) })
	}

	type results struct{ a, b kont.Either[error, int] }
	done := make(chan results, 1)
	go func() {
		a, b := owq.RunExpr[int](rx, recv(), rx2, recv())
		done <- results{a, b}
	}()

	time.Sleep(50 * time.Millisecond) // Give it time to hit bo.Wait()
	tx.Close()

	r := <-done
	for _, e := range []kont.Either[error, int]{r.a, r.b} {
		err, ok := e.GetLeft()
		if !ok || !errors.Is(err, owq.ErrDisconnected) {
			t.Fatalf("receiver got %v, want Left(ErrDisconnected)", e)
		}
	}
}

func TestExecRecvWaitsForSend(t *testing.T) {
	skipRace(t)
	tx, rx := owq.New[int](1)

	go func() {
		time.Sleep(20 * time.Millisecond)
		tx.SendOverwrite(42)
	}()

	got, err := owq.ExecExpr[int](rx, owq.ExprRecvBind(func(n int) kont.Expr[int] {
		return kont.ExprReturn(n)
	}))
	if err != nil || got != 42 {
		t.Fatalf("ExecExpr got (%d, %v), want (42, nil)", got, err)
	}
}
