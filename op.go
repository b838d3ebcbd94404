// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Status reports how a queue operation resumed.
type Status uint8

const (
	// StatusDone: the value was pushed, or a value was popped.
	StatusDone Status = iota
	// StatusRoom: Evict found headroom (or an unbounded queue); nothing
	// was removed.
	StatusRoom
	// StatusFull: Deliver found the queue full again because another
	// producer took the freed slot first.
	StatusFull
	// StatusDisconnected: no live counterpart remains.
	StatusDisconnected
)

func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusRoom:
		return "room"
	case StatusFull:
		return "full"
	case StatusDisconnected:
		return "disconnected"
	}
	return "unknown"
}

// Slot is the resumed value of Evict and Recv.
// Value is meaningful only when Status is StatusDone.
type Slot[T any] struct {
	Value  T
	Status Status
}

// queueDispatcher is the structural interface for queue operations.
// dispatchQueue is non-blocking: it returns iox.ErrWouldBlock at the
// boundary where the operation cannot make progress yet.
type queueDispatcher[T any] interface {
	dispatchQueue(ep *endpoint[T]) (kont.Resumed, error)
}

// Evict is the effect operation for removing the oldest value to make
// room for an overwrite-send. Only overwrite endpoints may dispatch it.
//
// Occupancy is re-checked on every dispatch, so a slot freed by a
// concurrent consumer ends eviction instead of waiting for the next
// arrival. Non-blocking: returns iox.ErrWouldBlock only while the queue
// counts as full but its head is not yet published.
type Evict[T any] struct {
	kont.Phantom[Slot[T]]
}

func (Evict[T]) dispatchQueue(ep *endpoint[T]) (kont.Resumed, error) {
	ep.require(ep.role == roleOverwrite, "Evict")
	if !ep.live() {
		return Slot[T]{Status: StatusDisconnected}, nil
	}
	if !ep.core.full() {
		return Slot[T]{Status: StatusRoom}, nil
	}
	v, err := ep.core.tryRecv()
	if err == nil {
		return Slot[T]{Value: v, Status: StatusDone}, nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return Slot[T]{Status: StatusDisconnected}, nil
}

// Deliver is the effect operation for the final push of an
// overwrite-send. Only overwrite endpoints may dispatch it.
// Never suspends on fullness: it resumes StatusFull so the protocol
// returns to eviction.
type Deliver[T any] struct {
	kont.Phantom[Status]
	Value T
}

func (d Deliver[T]) dispatchQueue(ep *endpoint[T]) (kont.Resumed, error) {
	ep.require(ep.role == roleOverwrite, "Deliver")
	if !ep.live() {
		return StatusDisconnected, nil
	}
	err := ep.core.trySend(&d.Value)
	switch {
	case err == nil:
		return StatusDone, nil
	case iox.IsWouldBlock(err):
		return StatusFull, nil
	}
	return StatusDisconnected, nil
}

// Send is the effect operation for a plain push.
// Non-blocking: returns iox.ErrWouldBlock if the queue is full.
type Send[T any] struct {
	kont.Phantom[Status]
	Value T
}

func (s Send[T]) dispatchQueue(ep *endpoint[T]) (kont.Resumed, error) {
	ep.require(ep.role.sends(), "Send")
	if !ep.live() {
		return StatusDisconnected, nil
	}
	err := ep.core.trySend(&s.Value)
	switch {
	case err == nil:
		return StatusDone, nil
	case iox.IsWouldBlock(err):
		return nil, err
	}
	return StatusDisconnected, nil
}

// Recv is the effect operation for popping the oldest value.
// Only consumer endpoints may dispatch it; the internal receiver of an
// overwrite endpoint is never used for plain receives.
// Non-blocking: returns iox.ErrWouldBlock if the queue is empty.
type Recv[T any] struct {
	kont.Phantom[Slot[T]]
}

func (Recv[T]) dispatchQueue(ep *endpoint[T]) (kont.Resumed, error) {
	ep.require(ep.role == roleReceiver, "Recv")
	if !ep.live() {
		return Slot[T]{Status: StatusDisconnected}, nil
	}
	v, err := ep.core.tryRecv()
	if err == nil {
		return Slot[T]{Value: v, Status: StatusDone}, nil
	}
	if iox.IsWouldBlock(err) {
		return nil, err
	}
	return Slot[T]{Status: StatusDisconnected}, nil
}
