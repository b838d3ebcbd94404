// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/kont"
)

// Step evaluates a queue protocol until the first effect suspension.
// Returns (Right(result), nil) on completion, (Left(err), nil) if the
// protocol raised an error, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	return kont.StepExpr(wrapped)
}

// Advance dispatches the suspended operation on ep.
// Queue operations are non-blocking: on iox.ErrWouldBlock the suspension
// is returned unconsumed and may be retried once another producer or
// consumer has made progress. Error operations are eager: a raised error
// discards the suspension and returns Left.
//
// Advance never waits, so a single goroutine can interleave any number of
// pending protocols.
func Advance[T, R any](ep Endpoint[T], susp *kont.Suspension[kont.Either[error, R]]) (kont.Either[error, R], *kont.Suspension[kont.Either[error, R]], error) {
	if qop, ok := susp.Op().(queueDispatcher[T]); ok {
		v, err := qop.dispatchQueue(ep.base())
		if err != nil {
			var zero kont.Either[error, R]
			return zero, susp, err
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[error]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[error, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("owq: unhandled effect in Advance")
}
