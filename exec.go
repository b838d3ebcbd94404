// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// queueHandler handles both queue and error effects.
// Queue ops wait on iox.ErrWouldBlock via iox.Backoff. Error ops
// short-circuit on Throw.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type queueHandler[T, R any] struct {
	ep     *endpoint[T]
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler. Dispatch order: Queue → Error.
func (h queueHandler[T, R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if qop, ok := op.(queueDispatcher[T]); ok {
		return dispatchWait(h.ep, qop), true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, R](h.errCtx.Err), false
		}
		return v, true
	}
	panic("owq: unhandled effect in queueHandler")
}

// dispatchWait blocks until dispatchQueue succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff.
func dispatchWait[T any](ep *endpoint[T], qop queueDispatcher[T]) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := qop.dispatchQueue(ep)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// Exec runs a Cont-world queue protocol on ep and returns its result, or
// the error it raised.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func Exec[T, R any](ep Endpoint[T], protocol kont.Eff[R]) (R, error) {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := queueHandler[T, R]{ep: ep.base(), errCtx: &errCtx}
	return unwrap(kont.Handle(wrapped, h))
}

// ExecExpr runs an Expr-world queue protocol on ep and returns its
// result, or the error it raised.
// Blocks on iox.ErrWouldBlock via adaptive backoff, without spawning
// goroutines or creating channels.
func ExecExpr[T, R any](ep Endpoint[T], protocol kont.Expr[R]) (R, error) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := queueHandler[T, R]{ep: ep.base(), errCtx: &errCtx}
	return unwrap(kont.HandleExpr(wrapped, h))
}

func unwrap[R any](e kont.Either[error, R]) (R, error) {
	if err, ok := e.GetLeft(); ok {
		var zero R
		return zero, err
	}
	r, _ := e.GetRight()
	return r, nil
}
