// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
)

// role selects which side of the queue a handle references.
type role uint8

const (
	roleSender role = iota
	roleReceiver
	// roleOverwrite holds a sender reference plus an internal receiver
	// reference used only for eviction.
	roleOverwrite
)

func (r role) String() string {
	switch r {
	case roleSender:
		return "sender"
	case roleReceiver:
		return "receiver"
	case roleOverwrite:
		return "overwrite sender"
	}
	return "unknown"
}

func (r role) sends() bool {
	return r != roleReceiver
}

func (r role) receives() bool {
	return r != roleSender
}

// Endpoint is any handle on a queue: *Sender, *Receiver or
// *OverwriteSender. Effect protocols are evaluated against an Endpoint
// with Step/Advance, Exec or Run.
type Endpoint[T any] interface {
	base() *endpoint[T]
}

// endpoint is the state shared by all handle kinds: a reference to the
// shared queue plus this handle's own closed flag.
type endpoint[T any] struct {
	core   *chanCore[T]
	role   role
	closed atomix.Uint32
}

func (e *endpoint[T]) base() *endpoint[T] {
	return e
}

// attach takes this handle's references on c.
func (e *endpoint[T]) attach(c *chanCore[T], r role) {
	e.core = c
	e.role = r
	if r.sends() {
		c.senders.Add(1)
	}
	if r.receives() {
		c.receivers.Add(1)
	}
}

// derive attaches dst to the same queue with role r.
// A closed handle derives only closed handles: references, once all
// released, are never taken again.
func (e *endpoint[T]) derive(dst *endpoint[T], r role) {
	if !e.live() {
		dst.core = e.core
		dst.role = r
		dst.closed.Add(1)
		return
	}
	dst.attach(e.core, r)
}

func (e *endpoint[T]) live() bool {
	return e.closed.Load() == 0
}

func (e *endpoint[T]) require(ok bool, op string) {
	if !ok {
		panic("owq: " + op + " dispatched on " + e.role.String() + " endpoint")
	}
}

// Close releases this handle's references. It is the Go counterpart of
// dropping a handle: once every handle on one side is closed, the other
// side observes ErrDisconnected. Close is idempotent and does not affect
// clones.
func (e *endpoint[T]) Close() {
	if e.closed.Add(1) != 1 {
		return
	}
	if e.role.sends() {
		e.core.senders.Add(-1)
	}
	if e.role.receives() {
		e.core.receivers.Add(-1)
	}
}

// Len returns the number of queued values.
// Under concurrent use the value may be stale by the time it is read.
// A capacity-zero queue keeps one hand-off slot, so Len can be 1 there
// while Cap reports 0.
func (e *endpoint[T]) Len() int {
	return e.core.occupancy()
}

// Cap returns the capacity bound. ok is false for unbounded queues.
// It reports the bound given to New, which for capacity zero is below the
// one slot the queue actually holds; use IsFull rather than comparing Len
// against Cap.
func (e *endpoint[T]) Cap() (capacity int, ok bool) {
	if !e.core.bounded() {
		return 0, false
	}
	return e.core.capacity, true
}

// IsEmpty reports whether no value is queued.
func (e *endpoint[T]) IsEmpty() bool {
	return e.core.occupancy() == 0
}

// IsFull reports whether the next plain send would have to wait.
// Always false for unbounded queues. A capacity-zero queue is full while
// its single hand-off slot is occupied.
func (e *endpoint[T]) IsFull() bool {
	return e.core.full()
}

// IsDisconnected reports whether the opposite side has no live handle,
// or this handle itself has been closed.
func (e *endpoint[T]) IsDisconnected() bool {
	if !e.live() {
		return true
	}
	if e.role == roleReceiver {
		return e.core.senders.Load() == 0
	}
	return e.core.receivers.Load() == 0
}

// Serial returns the serial number of the underlying queue.
func (e *endpoint[T]) Serial() Serial {
	return e.core.serial
}

// Sender is a plain transport sender. Send waits for room; it does not
// evict.
type Sender[T any] struct {
	endpoint[T]
}

// Send pushes v, waiting for room with adaptive backoff.
// Returns a *DisconnectedError carrying v if no receiver remains.
func (s *Sender[T]) Send(v T) error {
	if !s.live() {
		return disconnected(v, nil)
	}
	if err := s.core.send(&v); err != nil {
		return disconnected(v, nil)
	}
	return nil
}

// TrySend pushes v without waiting.
// Returns iox.ErrWouldBlock if the queue is full, or a *DisconnectedError
// carrying v if no receiver remains.
func (s *Sender[T]) TrySend(v T) error {
	if !s.live() {
		return disconnected(v, nil)
	}
	err := s.core.trySend(&v)
	if err == nil || iox.IsWouldBlock(err) {
		return err
	}
	return disconnected(v, nil)
}

// Clone returns a new sender on the same queue.
func (s *Sender[T]) Clone() *Sender[T] {
	c := &Sender[T]{}
	s.derive(&c.endpoint, s.role)
	return c
}

// Receiver is a plain consumer handle. It is unaware of eviction: values
// removed by an overwrite-send are simply never observed.
type Receiver[T any] struct {
	endpoint[T]
}

// Recv pops the oldest value, waiting with adaptive backoff while the
// queue is empty. Returns ErrDisconnected once the queue is drained and
// no sender remains.
func (r *Receiver[T]) Recv() (T, error) {
	if !r.live() {
		var zero T
		return zero, ErrDisconnected
	}
	return r.core.recv()
}

// TryRecv pops the oldest value without waiting.
// Returns iox.ErrWouldBlock if the queue is empty, or ErrDisconnected
// once drained with no sender left.
func (r *Receiver[T]) TryRecv() (T, error) {
	if !r.live() {
		var zero T
		return zero, ErrDisconnected
	}
	return r.core.tryRecv()
}

// Drain pops every value currently available without waiting.
// Returns nil if none was available.
func (r *Receiver[T]) Drain() []T {
	var out []T
	for r.live() {
		v, err := r.core.tryRecv()
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}

// Clone returns a new receiver on the same queue. Clones compete for
// values: each value is delivered to exactly one receiver.
func (r *Receiver[T]) Clone() *Receiver[T] {
	c := &Receiver[T]{}
	r.derive(&c.endpoint, r.role)
	return c
}
