// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/kont"
)

// OverwriteBind overwrite-sends v and passes the evicted values,
// oldest first, to f. f receives nil if nothing was evicted.
// Fuses Perform(Evict[T]{}) until room + Perform(Deliver[T]{Value: v}) + Bind.
//
// Disconnect is raised with kont.ThrowError as a *DisconnectedError[T].
func OverwriteBind[T, B any](v T, f func([]T) kont.Eff[B]) kont.Eff[B] {
	return overwriteFrom(v, nil, f)
}

// overwriteFrom continues an overwrite-send that has already evicted
// drained.
func overwriteFrom[T, B any](v T, drained []T, f func([]T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Evict[T]{}), func(s Slot[T]) kont.Eff[B] {
		switch s.Status {
		case StatusDone:
			return overwriteFrom(v, append(drained, s.Value), f)
		case StatusDisconnected:
			return kont.ThrowError[error, B](disconnected(v, drained))
		}
		return kont.Bind(kont.Perform(Deliver[T]{Value: v}), func(st Status) kont.Eff[B] {
			switch st {
			case StatusDone:
				return f(drained)
			case StatusFull:
				return overwriteFrom(v, drained, f)
			}
			return kont.ThrowError[error, B](disconnected(v, drained))
		})
	})
}

// OverwriteDone overwrite-sends v and returns the evicted values.
// Fuses OverwriteBind + Pure.
func OverwriteDone[T any](v T) kont.Eff[[]T] {
	return overwriteFrom(v, nil, kont.Pure[[]T])
}

// SendThen pushes v, waiting for room, and then continues with next.
// Fuses Perform(Send[T]{Value: v}) + Then.
func SendThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Send[T]{Value: v}), func(st Status) kont.Eff[B] {
		if st == StatusDisconnected {
			return kont.ThrowError[error, B](disconnected(v, nil))
		}
		return next
	})
}

// RecvBind pops the oldest value and passes it to f.
// Fuses Perform(Recv[T]{}) + Bind. Raises ErrDisconnected once the queue
// is drained and no sender remains.
func RecvBind[T, B any](f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{}), func(s Slot[T]) kont.Eff[B] {
		if s.Status == StatusDisconnected {
			return kont.ThrowError[error, B](ErrDisconnected)
		}
		return f(s.Value)
	})
}
