// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive queue protocol (Cont-world).
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if next, ok := e.GetLeft(); ok {
			return Loop(next, step)
		}
		result, _ := e.GetRight()
		return kont.Pure(result)
	})
}

// ExprLoop runs a recursive queue protocol (Expr-world).
// step returns Left(nextState) to continue or Right(result) to finish.
// A step that completes without suspending is iterated in place.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	m := step(initial)
	for {
		if _, ok := m.Frame.(kont.ReturnFrame); !ok {
			break
		}
		next, ok := m.Value.GetLeft()
		if !ok {
			result, _ := m.Value.GetRight()
			return kont.ExprReturn(result)
		}
		m = step(next)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		e := a.(kont.Either[S, A])
		if next, ok := e.GetLeft(); ok {
			result := ExprLoop(next, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(result.Value), Frame: result.Frame}
		}
		result, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(result), Frame: exprReturnFrame}
	}
	bf.Next = exprReturnFrame
	var zero A
	return kont.Expr[A]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

// batch is the loop state of OverwriteAll: values not yet sent and the
// evictions collected so far.
type batch[T any] struct {
	rest    []T
	evicted []T
}

// OverwriteAll overwrite-sends values in order and returns every value
// they evicted, oldest first. A value sent earlier in the batch may itself
// be evicted by a later one.
//
// On disconnect the raised *DisconnectedError[T] carries the value that
// failed and all values evicted by the batch so far; values after it were
// not sent.
func OverwriteAll[T any](values []T) kont.Eff[[]T] {
	return Loop(batch[T]{rest: values}, func(b batch[T]) kont.Eff[kont.Either[batch[T], []T]] {
		if len(b.rest) == 0 {
			return kont.Pure(kont.Right[batch[T], []T](b.evicted))
		}
		return overwriteFrom(b.rest[0], b.evicted, func(all []T) kont.Eff[kont.Either[batch[T], []T]] {
			return kont.Pure(kont.Left[batch[T], []T](batch[T]{rest: b.rest[1:], evicted: all}))
		})
	})
}

// ExprOverwriteAll is the Expr-world form of OverwriteAll.
func ExprOverwriteAll[T any](values []T) kont.Expr[[]T] {
	return ExprLoop(batch[T]{rest: values}, func(b batch[T]) kont.Expr[kont.Either[batch[T], []T]] {
		if len(b.rest) == 0 {
			return kont.ExprReturn(kont.Right[batch[T], []T](b.evicted))
		}
		return exprOverwriteFrom(b.rest[0], b.evicted, func(all []T) kont.Expr[kont.Either[batch[T], []T]] {
			return kont.ExprReturn(kont.Left[batch[T], []T](batch[T]{rest: b.rest[1:], evicted: all}))
		})
	})
}
