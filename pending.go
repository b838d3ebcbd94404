// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"context"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Pending is an overwrite-send in progress, started by
// OverwriteSender.SendOverwriteAsync. It makes progress only when polled.
//
// A Pending is not safe for concurrent use; the queue it sends on is.
type Pending[T any] struct {
	ep     *OverwriteSender[T]
	result kont.Either[error, []T]
	susp   *kont.Suspension[kont.Either[error, []T]]
}

// Poll advances the send as far as it can go without waiting and reports
// whether it has finished.
func (p *Pending[T]) Poll() bool {
	for p.susp != nil {
		result, next, err := Advance[T](p.ep, p.susp)
		if err != nil {
			return false
		}
		p.result, p.susp = result, next
	}
	return true
}

// Done reports whether the send has finished, without polling.
func (p *Pending[T]) Done() bool {
	return p.susp == nil
}

// Result returns the outcome of a finished send: the evicted values,
// oldest first, or a *DisconnectedError[T].
// Returns iox.ErrWouldBlock while the send is still in progress.
func (p *Pending[T]) Result() ([]T, error) {
	if p.susp != nil {
		return nil, iox.ErrWouldBlock
	}
	return unwrap(p.result)
}

// Wait polls with adaptive backoff until the send finishes.
func (p *Pending[T]) Wait() ([]T, error) {
	var bo iox.Backoff
	for !p.Poll() {
		bo.Wait()
	}
	return unwrap(p.result)
}

// WaitContext is Wait bounded by ctx. On cancellation it returns
// ctx.Err() and leaves the send pending: the caller may poll again later
// or Discard it.
func (p *Pending[T]) WaitContext(ctx context.Context) ([]T, error) {
	var bo iox.Backoff
	for !p.Poll() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bo.Wait()
	}
	return unwrap(p.result)
}

// Discard abandons an unfinished send. The value is not pushed, and values
// this send had already evicted are lost. Result then reports
// context.Canceled. Discard on a finished send does nothing.
func (p *Pending[T]) Discard() {
	if p.susp == nil {
		return
	}
	p.susp.Discard()
	p.susp = nil
	p.result = kont.Left[error, []T](context.Canceled)
}
