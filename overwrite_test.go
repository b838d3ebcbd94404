// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq_test

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/owq"
)

func TestOverwriteCapacity3(t *testing.T) {
	tx, rx := owq.New[int](3)
	mustEvict(t, tx, 1, nil)
	mustEvict(t, tx, 2, nil)
	mustEvict(t, tx, 3, nil)
	mustEvict(t, tx, 4, []int{1})

	for _, want := range []int{2, 3, 4} {
		got, err := rx.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if got != want {
			t.Fatalf("Recv got %d, want %d", got, want)
		}
	}
	if !rx.IsEmpty() {
		t.Fatalf("queue not empty after receiving all values")
	}
}

func TestOverwriteCapacity2WhileFull(t *testing.T) {
	tx, rx := owq.New[int](2)
	mustEvict(t, tx, 1, nil)
	mustEvict(t, tx, 2, nil)
	mustEvict(t, tx, 3, []int{1})
	mustEvict(t, tx, 4, []int{2})

	if got := rx.Drain(); !slices.Equal(got, []int{3, 4}) {
		t.Fatalf("queue holds %v, want [3 4]", got)
	}
}

func TestOverwriteCapacityZero(t *testing.T) {
	tx, rx := owq.New[int](0)
	if c, ok := tx.Cap(); !ok || c != 0 {
		t.Fatalf("Cap got (%d, %v), want (0, true)", c, ok)
	}
	mustEvict(t, tx, 1, nil)
	for i := 2; i <= 5; i++ {
		mustEvict(t, tx, i, []int{i - 1})
		if n := tx.Len(); n != 1 {
			t.Fatalf("Len got %d, want 1", n)
		}
	}
	got, err := rx.TryRecv()
	if err != nil || got != 5 {
		t.Fatalf("TryRecv got (%d, %v), want (5, nil)", got, err)
	}
	// A consumed hand-off slot leaves nothing to evict.
	mustEvict(t, tx, 6, nil)
}

func TestOverwriteUnderCapacity(t *testing.T) {
	tx, rx := owq.New[string](8)
	for _, v := range []string{"a", "b", "c"} {
		mustEvict(t, tx, v, nil)
	}
	if tx.IsFull() {
		t.Fatalf("IsFull true under capacity")
	}
	if got := rx.Drain(); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("Drain got %v", got)
	}
}

func TestOverwriteUnbounded(t *testing.T) {
	tx, rx := owq.NewUnbounded[int]()
	if _, ok := tx.Cap(); ok {
		t.Fatalf("Cap reported a bound for an unbounded queue")
	}
	const n = 1000
	for i := range n {
		mustEvict(t, tx, i, nil)
	}
	if tx.IsFull() {
		t.Fatalf("unbounded queue reports full")
	}
	if got := rx.Len(); got != n {
		t.Fatalf("Len got %d, want %d", got, n)
	}
	got := rx.Drain()
	if len(got) != n {
		t.Fatalf("Drain got %d values, want %d", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("Drain[%d] got %d, want %d", i, v, i)
		}
	}
}

func TestNewNegativeCapacityPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for negative capacity")
		}
	}()
	owq.New[int](-1)
}

func TestOverwriteSurvivesWithoutConsumers(t *testing.T) {
	tx, rx := owq.New[int](2)
	clone := tx.Clone()
	rx.Close()
	tx.Close()

	mustEvict(t, clone, 1, nil)
	mustEvict(t, clone, 2, nil)
	mustEvict(t, clone, 3, []int{1})

	// A consumer created afterward sees only what is still queued.
	late := clone.NewReceiver()
	if got := late.Drain(); !slices.Equal(got, []int{2, 3}) {
		t.Fatalf("late receiver got %v, want [2 3]", got)
	}
}

func TestSendWithoutReceiversFails(t *testing.T) {
	tx, rx := owq.New[int](2)
	raw := tx.NewSender()
	rx.Close()
	tx.Close()

	if !raw.IsDisconnected() {
		t.Fatalf("raw sender not disconnected after every receiver closed")
	}
	err := raw.Send(7)
	if !errors.Is(err, owq.ErrDisconnected) {
		t.Fatalf("Send got %v, want ErrDisconnected", err)
	}
	var de *owq.DisconnectedError[int]
	if !errors.As(err, &de) {
		t.Fatalf("Send error %T is not *DisconnectedError[int]", err)
	}
	if de.Value != 7 {
		t.Fatalf("undelivered value got %d, want 7", de.Value)
	}
	if err := raw.TrySend(8); !errors.As(err, &de) || de.Value != 8 {
		t.Fatalf("TrySend got %v, want DisconnectedError carrying 8", err)
	}
}

func TestSendOverwriteOnClosedHandle(t *testing.T) {
	tx, _ := owq.New[int](1)
	tx.Close()
	tx.Close()

	evicted, err := tx.SendOverwrite(5)
	if evicted != nil {
		t.Fatalf("evicted got %v, want nil", evicted)
	}
	var de *owq.DisconnectedError[int]
	if !errors.As(err, &de) || de.Value != 5 {
		t.Fatalf("SendOverwrite got %v, want DisconnectedError carrying 5", err)
	}
	if c := tx.Clone(); !c.IsDisconnected() {
		t.Fatalf("clone of a closed handle is live")
	}
}

func TestReceiverDisconnectAfterDrain(t *testing.T) {
	tx, rx := owq.New[int](4)
	mustEvict(t, tx, 1, nil)
	tx.Close()

	got, err := rx.Recv()
	if err != nil || got != 1 {
		t.Fatalf("Recv got (%d, %v), want (1, nil)", got, err)
	}
	if _, err := rx.Recv(); !errors.Is(err, owq.ErrDisconnected) {
		t.Fatalf("Recv got %v, want ErrDisconnected", err)
	}
	if !rx.IsDisconnected() {
		t.Fatalf("receiver not disconnected")
	}
}

func TestOverwriteSenderEmbedsSender(t *testing.T) {
	tx, rx := owq.New[int](1)
	if err := tx.TrySend(1); err != nil {
		t.Fatalf("TrySend: %v", err)
	}
	if !tx.IsFull() {
		t.Fatalf("IsFull false at capacity")
	}
	if err := tx.TrySend(2); !iox.IsWouldBlock(err) {
		t.Fatalf("TrySend on full queue got %v, want ErrWouldBlock", err)
	}
	mustEvict(t, tx, 2, []int{1})
	if got, _ := rx.TryRecv(); got != 2 {
		t.Fatalf("TryRecv got %d, want 2", got)
	}
}

func TestHandlesShareSerial(t *testing.T) {
	tx, rx := owq.New[int](1)
	if tx.Serial() != rx.Serial() || tx.Clone().Serial() != tx.NewReceiver().Serial() {
		t.Fatalf("handles of one queue report different serials")
	}
}

func TestSingleProducerFiveSendsCapacity2(t *testing.T) {
	skipRace(t)
	tx, rx := owq.New[int](2)

	var wg sync.WaitGroup
	wg.Go(func() {
		for i := 1; i <= 5; i++ {
			if _, err := tx.SendOverwrite(i); err != nil {
				t.Errorf("SendOverwrite(%d): %v", i, err)
			}
		}
	})
	wg.Wait()

	got := rx.Drain()
	if len(got) > 2 {
		t.Fatalf("received %d values, want at most 2", len(got))
	}
	if len(got) == 2 && !slices.Equal(got, []int{4, 5}) {
		t.Fatalf("received %v, want [4 5]", got)
	}
}
