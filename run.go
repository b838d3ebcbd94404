// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Run evaluates two Cont-world protocols against their endpoints and
// returns both results. Typically epA is a producer and epB a consumer of
// the same queue. Interleaves both sides on the calling goroutine using
// adaptive backoff (iox.Backoff) when neither side can make progress.
// Does not spawn goroutines or create channels.
func Run[T, A, B any](epA Endpoint[T], a kont.Eff[A], epB Endpoint[T], b kont.Eff[B]) (kont.Either[error, A], kont.Either[error, B]) {
	return RunExpr(epA, Reify(a), epB, Reify(b))
}

// RunExpr evaluates two Expr-world protocols against their endpoints and
// returns both results. Interleaves both sides on the calling goroutine
// using adaptive backoff (iox.Backoff) when neither side can make
// progress. Does not spawn goroutines or create channels.
//
// RunExpr returns only when both protocols have finished. A side that
// waits on a queue nobody else services, such as a consumer of an empty
// queue whose producer already finished without closing, never finishes.
func RunExpr[T, A, B any](epA Endpoint[T], a kont.Expr[A], epB Endpoint[T], b kont.Expr[B]) (kont.Either[error, A], kont.Either[error, B]) {
	resultA, suspA := Step(a)
	resultB, suspB := Step(b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = Advance(epA, suspA)
			if err == nil {
				progress = true
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = Advance(epB, suspB)
			if err == nil {
				progress = true
			}
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
