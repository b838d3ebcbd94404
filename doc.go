// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package owq provides a bounded multi-producer multi-consumer queue whose
// producer never waits for room: when the queue is full, the oldest values
// are evicted and handed back to the sender.
//
// # Architecture
//
//   - Transport: Lock-free bounded MPMC ring via [code.hybscloud.com/lfq], or an unbounded list. [New] and [NewUnbounded] create an [OverwriteSender] and a [Receiver] on one shared queue.
//   - Overwrite layer: [OverwriteSender] holds a sender reference plus an internal receiver reference used only to pop the head for eviction. It counts as a live receiver.
//   - Non-blocking: Queue operations return [code.hybscloud.com/iox.ErrWouldBlock] where they cannot make progress yet.
//   - Lifecycle: Handles are released with Close. Once every handle on one side is closed, the other side observes [ErrDisconnected].
//
// # Sending
//
//   - Blocking: [OverwriteSender.SendOverwrite] evicts until there is room, pushes, and returns the evicted values oldest first.
//   - Cooperative: [OverwriteSender.SendOverwriteAsync] returns a [Pending] that advances only when polled.
//   - Plain: [Sender.Send] and [Sender.TrySend] never evict; [Receiver.Recv] and [Receiver.TryRecv] pop.
//
// A failed send returns a [*DisconnectedError] carrying the undelivered value
// and any values already evicted by that call.
//
// # Effects
//
//   - Operations: [Evict], [Deliver], [Send], [Recv].
//   - Cont-world: [OverwriteBind], [OverwriteDone], [SendThen], [RecvBind], [OverwriteAll].
//   - Expr-world: [ExprOverwriteBind], [ExprOverwriteDone], [ExprSendThen], [ExprRecvBind], [ExprOverwriteAll]. Bridge via [Reify] and [Reflect].
//   - Recursive: [Loop] and [ExprLoop].
//   - Stepping: [Step] and [Advance] evaluate a protocol one effect at a time.
//   - Blocking: [Exec], [ExecExpr], [Run] and [RunExpr] wait past boundaries using adaptive backoff.
//
// # Example
//
//	tx, rx := owq.New[int](2)
//	tx.SendOverwrite(1)
//	tx.SendOverwrite(2)
//	evicted, _ := tx.SendOverwrite(3) // [1]
//	v, _ := rx.Recv()                 // 2
package owq
