// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package emitter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync/atomic"
	"time"

	"github.com/relabs-tech/envsim/internal/env"
	"github.com/relabs-tech/envsim/internal/record"
	"github.com/relabs-tech/envsim/internal/sink"
)

// State is the lifecycle position of a Loop.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Outcome tells the caller why Run returned.
type Outcome int

const (
	// OutcomeInvalid means Run refused to start.
	OutcomeInvalid Outcome = iota
	// OutcomeCompleted means MaxTicks records were written.
	OutcomeCompleted
	// OutcomeCancelled means the context was cancelled.
	OutcomeCancelled
	// OutcomeFailed means a sink write failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeCompleted:
		return "completed"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Options configure a Loop.
type Options struct {
	// Interval between ticks. Must be positive.
	Interval time.Duration
	// MaxTicks stops the loop after that many records. Zero runs until
	// cancelled.
	MaxTicks int
	// Encoder defaults to record.Default().
	Encoder record.Encoder
	// NewTicker defaults to NewTimeTicker.
	NewTicker NewTickerFunc
	// Logger defaults to discarding output.
	Logger *log.Logger
}

// Validate checks the options without starting anything.
func (o Options) Validate() error {
	if o.Interval <= 0 {
		return &ConfigError{Field: "interval", Reason: fmt.Sprintf("must be positive, got %s", o.Interval)}
	}
	if o.MaxTicks < 0 {
		return &ConfigError{Field: "max ticks", Reason: fmt.Sprintf("must not be negative, got %d", o.MaxTicks)}
	}
	return nil
}

// Loop drives a reading source on a fixed cadence and writes each encoded
// reading to a sink. A Loop runs once.
type Loop struct {
	src    env.Source
	sink   sink.RecordSink
	opts   Options
	logger *log.Logger

	state   atomic.Int32
	emitted atomic.Uint64
}

// New creates an idle loop reading from src, normally an *env.Generator.
// Options are checked when Run is called.
func New(src env.Source, s sink.RecordSink, opts Options) *Loop {
	if opts.Encoder == nil {
		opts.Encoder = record.Default()
	}
	if opts.NewTicker == nil {
		opts.NewTicker = NewTimeTicker
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loop{src: src, sink: s, opts: opts, logger: logger}
}

// State reports the current lifecycle state. Safe to call from any
// goroutine.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Emitted reports how many records were written successfully.
func (l *Loop) Emitted() uint64 {
	return l.emitted.Load()
}

// Run emits the first record immediately and then one per tick until
// MaxTicks is reached, ctx is cancelled, or the sink fails. Each write
// completes before the next tick is awaited.
//
// Cancellation returns OutcomeCancelled with a nil error. A sink failure
// returns OutcomeFailed with a *SinkError, a source failure OutcomeFailed
// with a *SourceError. Invalid options return
// OutcomeInvalid with a *ConfigError and nothing is written.
func (l *Loop) Run(ctx context.Context) (Outcome, error) {
	if err := l.opts.Validate(); err != nil {
		return OutcomeInvalid, err
	}
	if l.src == nil {
		return OutcomeInvalid, &ConfigError{Field: "source", Reason: "is nil"}
	}
	if l.sink == nil {
		return OutcomeInvalid, &ConfigError{Field: "sink", Reason: "is nil"}
	}
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return OutcomeInvalid, ErrLoopDone
	}

	ticker := l.opts.NewTicker(l.opts.Interval)
	defer ticker.Stop()

	l.logger.Printf("emitter: running every %s, max ticks %d", l.opts.Interval, l.opts.MaxTicks)

	for {
		if ctx.Err() != nil {
			return l.cancelled()
		}

		reading, err := l.src.Next()
		if err != nil {
			seq := l.emitted.Load() + 1
			l.state.Store(int32(StateFailed))
			l.logger.Printf("emitter: source failed at tick %d: %v", seq, err)
			return OutcomeFailed, &SourceError{Seq: seq, Err: err}
		}
		rec := l.opts.Encoder.Encode(reading)

		if err := l.sink.WriteRecord(ctx, rec); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return l.cancelled()
			}
			l.state.Store(int32(StateFailed))
			l.logger.Printf("emitter: write failed at tick %d: %v", reading.Seq, err)
			return OutcomeFailed, &SinkError{Seq: reading.Seq, Err: err}
		}

		n := l.emitted.Add(1)
		if l.opts.MaxTicks > 0 && n >= uint64(l.opts.MaxTicks) {
			l.state.Store(int32(StateCompleted))
			l.logger.Printf("emitter: completed after %d ticks", n)
			return OutcomeCompleted, nil
		}

		select {
		case <-ctx.Done():
			return l.cancelled()
		case <-ticker.C():
		}
	}
}

func (l *Loop) cancelled() (Outcome, error) {
	l.state.Store(int32(StateCancelled))
	l.logger.Printf("emitter: cancelled after %d ticks", l.emitted.Load())
	return OutcomeCancelled, nil
}
