// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/owq"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

// Report is the outcome of one stress run.
// Every sent value is either received, evicted, or still queued.
type Report struct {
	Sent      int64
	Received  int64
	Evicted   int64
	Remaining int64
	// MaxLen is the highest occupancy a consumer observed.
	MaxLen   int
	Duration time.Duration
}

// starvedRatio is the received share below which consumers are reported
// as starved.
const starvedRatio = 0.01

// ReceivedRatio returns the share of sent values that consumers received.
func (r Report) ReceivedRatio() float64 {
	if r.Sent == 0 {
		return 0
	}
	return float64(r.Received) / float64(r.Sent)
}

// Starved reports whether producers evicted nearly every value before a
// consumer could take it. A starved run still balances, but it exercises
// the consumer side only lightly.
func (r Report) Starved() bool {
	return r.Sent > 0 && r.ReceivedRatio() < starvedRatio
}

// Balanced reports whether no value was lost or duplicated.
func (r Report) Balanced() bool {
	return r.Sent == r.Received+r.Evicted+r.Remaining
}

// LogValue implements slog.LogValuer.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("sent", r.Sent),
		slog.Int64("received", r.Received),
		slog.Int64("evicted", r.Evicted),
		slog.Int64("remaining", r.Remaining),
		slog.Float64("received_ratio", r.ReceivedRatio()),
		slog.Int("max_len", r.MaxLen),
		slog.Duration("duration", r.Duration),
	)
}

// run drives cfg.Producers overwrite producers under an errgroup and
// cfg.Consumers plain consumers on an ants pool against one queue.
// A run cut short by ctx returns ctx's error; its report need not balance.
func run(ctx context.Context, cfg Config, log *slog.Logger) (Report, error) {
	var (
		tx *owq.OverwriteSender[int64]
		rx *owq.Receiver[int64]
	)
	if cfg.Unbounded {
		tx, rx = owq.NewUnbounded[int64]()
	} else {
		tx, rx = owq.New[int64](cfg.Capacity)
	}
	defer rx.Close()
	log = log.With(slog.Uint64("queue", uint64(tx.Serial())))

	var (
		report   Report
		received atomic.Int64
		maxLen   atomic.Int64
	)
	start := time.Now()

	var consumers sync.WaitGroup
	if cfg.Consumers > 0 {
		pool, err := ants.NewPool(cfg.Consumers, ants.WithPreAlloc(true))
		if err != nil {
			tx.Close()
			return report, fmt.Errorf("consumer pool: %w", err)
		}
		defer pool.Release()
		for id := range cfg.Consumers {
			local := rx.Clone()
			consumers.Add(1)
			err := pool.Submit(func() {
				defer consumers.Done()
				defer local.Close()
				n := consume(ctx, local, cfg.ConsumerDelay, &maxLen)
				received.Add(n)
				log.Debug("consumer done", slog.Int("consumer", id), slog.Int64("received", n))
			})
			if err != nil {
				consumers.Done()
				local.Close()
				tx.Close()
				consumers.Wait()
				return report, fmt.Errorf("submit consumer %d: %w", id, err)
			}
		}
	}

	var sent, evicted atomic.Int64
	eg, pctx := errgroup.WithContext(ctx)
	for p := range cfg.Producers {
		local := tx.Clone()
		async := p < cfg.AsyncProducers
		eg.Go(func() error {
			defer local.Close()
			s, e, err := produce(pctx, local, int64(p)*int64(cfg.Messages), cfg.Messages, async)
			sent.Add(s)
			evicted.Add(e)
			if err != nil {
				return fmt.Errorf("producer %d: %w", p, err)
			}
			log.Debug("producer done", slog.Int("producer", p), slog.Bool("async", async),
				slog.Int64("sent", s), slog.Int64("evicted", e))
			return nil
		})
	}
	err := eg.Wait()
	tx.Close()
	consumers.Wait()

	report.Sent = sent.Load()
	report.Evicted = evicted.Load()
	report.Received = received.Load()
	report.Remaining = int64(len(rx.Drain()))
	report.MaxLen = int(maxLen.Load())
	report.Duration = time.Since(start)
	return report, err
}

// produce overwrite-sends n consecutive values starting at base.
// It returns how many values were sent and how many they evicted.
func produce(ctx context.Context, tx *owq.OverwriteSender[int64], base int64, n int, async bool) (sent, evicted int64, err error) {
	for i := range n {
		if err := ctx.Err(); err != nil {
			return sent, evicted, err
		}
		v := base + int64(i)
		var out []int64
		if async {
			p := tx.SendOverwriteAsync(v)
			out, err = p.WaitContext(ctx)
			if err != nil && !errors.Is(err, owq.ErrDisconnected) {
				p.Discard()
			}
		} else {
			out, err = tx.SendOverwrite(v)
		}
		if err != nil {
			var de *owq.DisconnectedError[int64]
			if errors.As(err, &de) {
				evicted += int64(len(de.Evicted))
			}
			return sent, evicted, err
		}
		sent++
		evicted += int64(len(out))
	}
	return sent, evicted, nil
}

// observe raises hi to l.
func observe(hi *atomic.Int64, l int64) {
	for {
		cur := hi.Load()
		if l <= cur || hi.CompareAndSwap(cur, l) {
			return
		}
	}
}

// consume receives until every producer is gone and the queue is drained,
// or until ctx is done. It returns the number of values received.
func consume(ctx context.Context, rx *owq.Receiver[int64], delay time.Duration, maxLen *atomic.Int64) int64 {
	var n int64
	var bo iox.Backoff
	for ctx.Err() == nil {
		observe(maxLen, int64(rx.Len()))
		_, err := rx.TryRecv()
		switch {
		case err == nil:
			n++
			bo.Reset()
			if delay > 0 {
				time.Sleep(delay)
			}
		case iox.IsWouldBlock(err):
			bo.Wait()
		default:
			return n
		}
	}
	return n
}
