// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import "errors"

// ErrDisconnected reports that no live handle remains on the opposite
// side of the queue. It is permanent: the queue cannot be reopened.
var ErrDisconnected = errors.New("owq: channel disconnected")

// DisconnectedError is returned by send operations that could not deliver
// their value. It unwraps to ErrDisconnected.
//
// Value is the undelivered value, handed back unchanged. Evicted holds the
// values an overwrite-send had already removed from the queue before the
// failure, oldest first; they are no longer in the queue.
type DisconnectedError[T any] struct {
	Value   T
	Evicted []T
}

func (e *DisconnectedError[T]) Error() string {
	return ErrDisconnected.Error()
}

func (e *DisconnectedError[T]) Unwrap() error {
	return ErrDisconnected
}

func disconnected[T any](v T, evicted []T) error {
	return &DisconnectedError[T]{Value: v, Evicted: evicted}
}
