// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq

import (
	"code.hybscloud.com/kont"
)

// Pre-allocated erased frame to avoid boxing ReturnFrame{} on every
// Expr-world construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// overwriteState is the progress of one Expr-world overwrite-send.
// Each eviction derives a new state; a state is never mutated.
type overwriteState[T, B any] struct {
	value   T
	drained []T
	f       func([]T) kont.Expr[B]
}

func (s *overwriteState[T, B]) evicted(v T) *overwriteState[T, B] {
	return &overwriteState[T, B]{value: s.value, drained: append(s.drained, v), f: s.f}
}

// ExprOverwriteBind overwrite-sends v and passes the evicted values,
// oldest first, to f. f receives nil if nothing was evicted.
// Fuses ExprPerform(Evict[T]{}) until room + ExprPerform(Deliver[T]{Value: v}) + ExprBind.
//
// Disconnect is raised with kont.ExprThrowError as a *DisconnectedError[T].
func ExprOverwriteBind[T, B any](v T, f func([]T) kont.Expr[B]) kont.Expr[B] {
	return exprEvict(&overwriteState[T, B]{value: v, f: f})
}

// exprOverwriteFrom continues an overwrite-send that has already evicted
// drained.
func exprOverwriteFrom[T, B any](v T, drained []T, f func([]T) kont.Expr[B]) kont.Expr[B] {
	return exprEvict(&overwriteState[T, B]{value: v, drained: drained, f: f})
}

func exprEvict[T, B any](st *overwriteState[T, B]) kont.Expr[B] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = st
	uf.Unwind = evictUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Evict[T]{}
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[B](ef)
}

func evictUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	st := data.(*overwriteState[T, B])
	s := current.(Slot[T])
	var next kont.Expr[B]
	switch s.Status {
	case StatusDone:
		next = exprEvict(st.evicted(s.Value))
	case StatusDisconnected:
		next = kont.ExprThrowError[error, B](disconnected(st.value, st.drained))
	default:
		next = exprDeliver(st)
	}
	return kont.Erased(next.Value), next.Frame
}

func exprDeliver[T, B any](st *overwriteState[T, B]) kont.Expr[B] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = st
	uf.Unwind = deliverUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Deliver[T]{Value: st.value}
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[B](ef)
}

func deliverUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	st := data.(*overwriteState[T, B])
	var next kont.Expr[B]
	switch current.(Status) {
	case StatusDone:
		next = st.f(st.drained)
	case StatusFull:
		next = exprEvict(st)
	default:
		next = kont.ExprThrowError[error, B](disconnected(st.value, st.drained))
	}
	return kont.Erased(next.Value), next.Frame
}

// ExprOverwriteDone overwrite-sends v and returns the evicted values.
// Fuses ExprOverwriteBind + ExprReturn.
func ExprOverwriteDone[T any](v T) kont.Expr[[]T] {
	return exprEvict(&overwriteState[T, []T]{value: v, f: kont.ExprReturn[[]T]})
}

func sendThenUnwind[T, B any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	next := data2.(kont.Expr[B])
	if current.(Status) == StatusDisconnected {
		next = kont.ExprThrowError[error, B](disconnected(data.(T), nil))
	}
	return kont.Erased(next.Value), next.Frame
}

// ExprSendThen pushes v, waiting for room, and then continues with next.
// Fuses ExprPerform(Send[T]{Value: v}) + ExprThen.
func ExprSendThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = v
	uf.Data2 = next
	uf.Unwind = sendThenUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Send[T]{Value: v}
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	s := current.(Slot[T])
	var result kont.Expr[B]
	if s.Status == StatusDisconnected {
		result = kont.ExprThrowError[error, B](ErrDisconnected)
	} else {
		result = data.(func(T) kont.Expr[B])(s.Value)
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind pops the oldest value and passes it to f.
// Fuses ExprPerform(Recv[T]{}) + ExprBind.
func ExprRecvBind[T, B any](f func(T) kont.Expr[B]) kont.Expr[B] {
	uf := kont.AcquireUnwindFrame()
	uf.Data1 = f
	uf.Unwind = recvBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv[T]{}
	ef.Resume = identityResume
	ef.Next = uf
	return kont.ExprSuspend[B](ef)
}
