// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command owqstress runs concurrent overwrite producers and consumers
// against one owq queue and checks that every sent value is received,
// evicted, or still queued exactly once.
//
// Settings come from OWQ_-prefixed environment variables, optionally
// loaded from a .env file in the working directory:
//
//	OWQ_CAPACITY=64 OWQ_PRODUCERS=8 OWQ_CONSUMERS=2 owqstress
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(2)
	}
	log := newLogger(cfg)

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	log.Info("Stress run started",
		slog.Int("capacity", cfg.Capacity),
		slog.Bool("unbounded", cfg.Unbounded),
		slog.Int("producers", cfg.Producers),
		slog.Int("async_producers", cfg.AsyncProducers),
		slog.Int("consumers", cfg.Consumers),
		slog.Int("messages", cfg.Messages))

	report, err := run(ctx, cfg, log)
	if err != nil {
		log.Error("Stress run failed", slog.Any("report", report), slog.String("error", err.Error()))
		os.Exit(1)
	}
	if !report.Balanced() {
		log.Error("Values lost or duplicated", slog.Any("report", report))
		os.Exit(1)
	}
	if !cfg.Unbounded && report.MaxLen > max(cfg.Capacity, 1) {
		log.Error("Occupancy exceeded capacity", slog.Any("report", report))
		os.Exit(1)
	}
	if cfg.Consumers > 0 && report.Starved() {
		log.Warn("Consumers starved, raise OWQ_CAPACITY or lower OWQ_PRODUCERS",
			slog.Float64("received_ratio", report.ReceivedRatio()))
	}
	log.Info("Stress run finished", slog.Any("report", report))
}
