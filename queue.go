// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// unbounded is the capacity recorded for queues created by NewUnbounded.
const unbounded = -1

// minRingSize is the smallest ring lfq accepts.
const minRingSize = 2

// ring is the FIFO storage behind a queue.
// The bounded lfq queue and the unbounded list both satisfy it.
type ring[T any] interface {
	lfq.Producer[T]
	lfq.Consumer[T]
}

// chanCore is the single queue instance shared by every handle derived
// from one constructor call. Handles hold references to it; it is never
// reached through a handle-to-handle link.
//
// Occupancy is tracked here because lfq deliberately has no length.
// Producers reserve a slot before Enqueue and consumers release it after
// Dequeue, so count is never below the number of physically queued values
// and never above limit.
type chanCore[T any] struct {
	buf       ring[T]
	capacity  int
	limit     int64
	count     atomix.Int64
	senders   atomix.Int64
	receivers atomix.Int64
	serial    Serial
}

// newCore creates the shared queue state.
// A negative capacity selects the unbounded list.
// Capacity zero keeps a single hand-off slot: at most one value is queued
// and every overwrite-send finding it unconsumed evicts it.
func newCore[T any](capacity int) *chanCore[T] {
	c := &chanCore[T]{capacity: capacity, serial: nextSerial()}
	if capacity < 0 {
		c.buf = newList[T]()
		return c
	}
	c.limit = int64(max(capacity, 1))
	c.buf = lfq.Build[T](lfq.New(max(capacity, minRingSize)).Compact())
	return c
}

// bounded reports whether the queue has a capacity bound.
// Evaluated on every send; unbounded queues skip eviction entirely.
func (c *chanCore[T]) bounded() bool {
	return c.capacity >= 0
}

// full reports whether occupancy has reached the bound.
// Always false for unbounded queues.
func (c *chanCore[T]) full() bool {
	return c.bounded() && c.count.Load() >= c.limit
}

func (c *chanCore[T]) occupancy() int {
	return int(c.count.Load())
}

// reserve claims one slot of occupancy.
// Returns iox.ErrWouldBlock when the queue is full.
func (c *chanCore[T]) reserve() error {
	if !c.bounded() {
		c.count.Add(1)
		return nil
	}
	for {
		n := c.count.Load()
		if n >= c.limit {
			return iox.ErrWouldBlock
		}
		if c.count.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// trySend pushes v without waiting for room.
// Returns iox.ErrWouldBlock when full and ErrDisconnected when no
// receiver, internal or user-visible, is alive.
func (c *chanCore[T]) trySend(v *T) error {
	if c.receivers.Load() == 0 {
		return ErrDisconnected
	}
	if err := c.reserve(); err != nil {
		return err
	}
	// The reservation guarantees a free physical slot; Enqueue can only
	// miss while a consumer is still releasing the slot it dequeued.
	var bo iox.Backoff
	for c.buf.Enqueue(v) != nil {
		bo.Wait()
	}
	return nil
}

// send pushes v, waiting past iox.ErrWouldBlock with adaptive backoff.
func (c *chanCore[T]) send(v *T) error {
	var bo iox.Backoff
	for {
		err := c.trySend(v)
		if !iox.IsWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
}

// tryRecv pops the head without waiting.
// Returns iox.ErrWouldBlock when empty, or ErrDisconnected when empty and
// no sender is alive. Values queued before the last sender left are still
// delivered.
func (c *chanCore[T]) tryRecv() (T, error) {
	v, err := c.buf.Dequeue()
	if err == nil {
		c.count.Add(-1)
		return v, nil
	}
	if c.senders.Load() == 0 && c.count.Load() == 0 {
		return v, ErrDisconnected
	}
	return v, iox.ErrWouldBlock
}

// recv pops the head, waiting past iox.ErrWouldBlock with adaptive backoff.
func (c *chanCore[T]) recv() (T, error) {
	var bo iox.Backoff
	for {
		v, err := c.tryRecv()
		if !iox.IsWouldBlock(err) {
			return v, err
		}
		bo.Wait()
	}
}
