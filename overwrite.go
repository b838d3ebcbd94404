// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/iox"
)

// OverwriteSender is a producer handle that never waits for room.
// When the queue is full it evicts the oldest values through an internal
// receiver reference and reports them to the caller.
//
// It embeds Sender, so plain Send, TrySend, Len, Cap and the other
// transport queries are available unchanged. The internal receiver counts
// as a live receiver: while any overwrite handle is open, sends on the
// queue do not fail with ErrDisconnected.
type OverwriteSender[T any] struct {
	Sender[T]
}

// New creates a queue bounded to capacity and returns its overwrite
// producer and a consumer. Capacity zero keeps a single hand-off slot:
// each overwrite-send evicts a value still waiting there.
// Panics if capacity is negative.
func New[T any](capacity int) (*OverwriteSender[T], *Receiver[T]) {
	if capacity < 0 {
		panic("owq: negative capacity")
	}
	return newPair(newCore[T](capacity))
}

// NewUnbounded creates a queue without a capacity bound.
// Overwrite-sends on it never evict.
func NewUnbounded[T any]() (*OverwriteSender[T], *Receiver[T]) {
	return newPair(newCore[T](unbounded))
}

func newPair[T any](c *chanCore[T]) (*OverwriteSender[T], *Receiver[T]) {
	tx := &OverwriteSender[T]{}
	tx.attach(c, roleOverwrite)
	rx := &Receiver[T]{}
	rx.attach(c, roleReceiver)
	return tx, rx
}

// SendOverwrite pushes value, first evicting the oldest queued values
// until there is room. It returns the evicted values oldest first, or nil
// if nothing was evicted. value itself is never evicted by its own send.
//
// SendOverwrite does not wait for consumers. A head that is counted but
// not yet published by a concurrent producer, or a freed slot taken by
// another producer first, is retried after re-checking occupancy.
//
// On failure the error is a *DisconnectedError carrying value and any
// values already evicted by this call.
func (s *OverwriteSender[T]) SendOverwrite(value T) ([]T, error) {
	if !s.live() {
		return nil, disconnected(value, nil)
	}
	c := s.core
	var drained []T
	var bo iox.Backoff
	for {
		for c.full() {
			old, err := c.tryRecv()
			if err == nil {
				drained = append(drained, old)
				bo.Reset()
				continue
			}
			if !iox.IsWouldBlock(err) {
				return nil, disconnected(value, drained)
			}
			bo.Wait()
		}
		err := c.trySend(&value)
		if err == nil {
			return drained, nil
		}
		if !iox.IsWouldBlock(err) {
			return nil, disconnected(value, drained)
		}
	}
}

// SendOverwriteAsync starts the cooperative counterpart of SendOverwrite.
// The returned Pending advances only when polled, so a single goroutine
// can interleave it with other work. Results match SendOverwrite.
func (s *OverwriteSender[T]) SendOverwriteAsync(value T) *Pending[T] {
	p := &Pending[T]{ep: s}
	p.result, p.susp = Step(ExprOverwriteDone(value))
	return p
}

// NewReceiver issues a fresh consumer on the same queue. It observes only
// values still queued; values already evicted are gone.
func (s *OverwriteSender[T]) NewReceiver() *Receiver[T] {
	rx := &Receiver[T]{}
	s.derive(&rx.endpoint, roleReceiver)
	return rx
}

// NewSender returns a plain sender on the same queue.
func (s *OverwriteSender[T]) NewSender() *Sender[T] {
	tx := &Sender[T]{}
	s.derive(&tx.endpoint, roleSender)
	return tx
}

// Clone returns a new overwrite producer on the same queue, with its own
// sender and internal receiver references.
func (s *OverwriteSender[T]) Clone() *OverwriteSender[T] {
	c := &OverwriteSender[T]{}
	s.derive(&c.endpoint, roleOverwrite)
	return c
}
