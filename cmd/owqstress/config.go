// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// envPrefix namespaces every setting, e.g. OWQ_CAPACITY.
const envPrefix = "OWQ_"

// Config describes one stress run.
type Config struct {
	// Capacity bounds the queue. Ignored when Unbounded is set.
	Capacity  int  `env:"CAPACITY" envDefault:"64"`
	Unbounded bool `env:"UNBOUNDED" envDefault:"false"`

	Producers int `env:"PRODUCERS" envDefault:"4"`
	// AsyncProducers of the producers send with SendOverwriteAsync.
	AsyncProducers int `env:"ASYNC_PRODUCERS" envDefault:"2"`
	Consumers      int `env:"CONSUMERS" envDefault:"2"`
	// Messages is the number of values each producer sends.
	Messages int `env:"MESSAGES" envDefault:"100000"`
	// ConsumerDelay slows consumers down to force eviction. Consumers
	// already poll with backoff, so small capacities evict most values
	// even at the default of zero.
	ConsumerDelay time.Duration `env:"CONSUMER_DELAY" envDefault:"0s"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"1m"`

	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"LOG_FORMAT" envDefault:"json"`
}

var (
	errNoProducers   = errors.New("owqstress: at least one producer is required")
	errNegative      = errors.New("owqstress: negative setting")
	errAsyncTooLarge = errors.New("owqstress: more async producers than producers")
	errLogFormat     = errors.New("owqstress: log format must be json or text")
)

// loadConfig reads an optional .env file and then the OWQ_ environment.
// Variables already set in the environment win over the file.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Producers < 1:
		return errNoProducers
	case c.Capacity < 0, c.Consumers < 0, c.Messages < 0, c.AsyncProducers < 0, c.ConsumerDelay < 0:
		return errNegative
	case c.AsyncProducers > c.Producers:
		return errAsyncTooLarge
	case c.LogFormat != "json" && c.LogFormat != "text":
		return errLogFormat
	}
	return nil
}

// newLogger builds the structured logger for a run.
func newLogger(c Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
