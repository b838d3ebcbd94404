// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package owq_test

import (
	"slices"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/owq"
)

func TestSendOverwriteAsyncRechecksOccupancy(t *testing.T) {
	tx, rx := owq.New[int](2)
	mustEvict(t, tx, 1, nil)
	mustEvict(t, tx, 2, nil)

	p := tx.SendOverwriteAsync(3)
	// A consumer frees a slot after the send started.
	if got, err := rx.TryRecv(); err != nil || got != 1 {
		t.Fatalf("TryRecv got (%d, %v), want (1, nil)", got, err)
	}
	evicted, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if evicted != nil {
		t.Fatalf("evicted %v, want nil", evicted)
	}
	if got := rx.Drain(); !slices.Equal(got, []int{2, 3}) {
		t.Fatalf("queue holds %v, want [2 3]", got)
	}
}

func TestSendOverwriteAsyncStaleOccupancy(t *testing.T) {
	tx, rx := owq.New[int](1)
	mustEvict(t, tx, 1, nil)

	// Full by count, but a consumer already holds the head.
	head, release := owq.TakeHead(rx)
	if head != 1 {
		t.Fatalf("TakeHead got %d, want 1", head)
	}
	p := tx.SendOverwriteAsync(2)
	for range 3 {
		if p.Poll() {
			t.Fatal("send finished while the taken slot was still counted")
		}
	}
	release()

	evicted, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if evicted != nil {
		t.Fatalf("evicted %v, want nil", evicted)
	}
	if got := rx.Drain(); !slices.Equal(got, []int{2}) {
		t.Fatalf("queue holds %v, want [2]", got)
	}
}

func TestSendOverwriteStaleOccupancy(t *testing.T) {
	tx, rx := owq.New[int](1)
	mustEvict(t, tx, 1, nil)

	head, release := owq.TakeHead(rx)
	if head != 1 {
		t.Fatalf("TakeHead got %d, want 1", head)
	}

	var (
		wg      sync.WaitGroup
		evicted []int
		err     error
	)
	wg.Go(func() {
		evicted, err = tx.SendOverwrite(2)
	})
	time.Sleep(20 * time.Millisecond)
	release()
	wg.Wait()

	if err != nil {
		t.Fatalf("SendOverwrite: %v", err)
	}
	if evicted != nil {
		t.Fatalf("evicted %v, want nil", evicted)
	}
	if got := rx.Drain(); !slices.Equal(got, []int{2}) {
		t.Fatalf("queue holds %v, want [2]", got)
	}
}
