// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"sync"

	"code.hybscloud.com/iox"
	"github.com/gammazero/deque"
)

// list is the unbounded FIFO behind NewUnbounded.
// lfq only provides bounded rings, so growth is served by a
// mutex-guarded deque with the same non-blocking contract.
type list[T any] struct {
	mu sync.Mutex
	q  deque.Deque[T]
}

func newList[T any]() *list[T] {
	return &list[T]{}
}

// Enqueue appends a copy of *elem. Never fails.
func (l *list[T]) Enqueue(elem *T) error {
	l.mu.Lock()
	l.q.PushBack(*elem)
	l.mu.Unlock()
	return nil
}

// Dequeue removes the head.
// Returns (zero-value, iox.ErrWouldBlock) if the list is empty.
func (l *list[T]) Dequeue() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.q.Len() == 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	return l.q.PopFront(), nil
}
