// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

// TakeHead dequeues the head the way a consumer does, but leaves its
// slot counted until release is called. Occupancy reads full while the
// queue is physically short one value.
func TakeHead[T any](rx *Receiver[T]) (v T, release func()) {
	c := rx.core
	v, err := c.buf.Dequeue()
	if err != nil {
		panic("owq: TakeHead on empty queue")
	}
	return v, func() { c.count.Add(-1) }
}
