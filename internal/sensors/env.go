// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/relabs-tech/envsim/internal/env"
)

// ErrHalted is returned by Sense after Halt.
var ErrHalted = errors.New("sim env: halted")

// SimEnv exposes a reading source as a periph environmental sensor, so
// code written against bmxx80 can run against the simulator. Each Sense
// advances the source by one tick.
type SimEnv struct {
	name string

	mu     sync.Mutex
	src    env.Source
	halted bool
	stop   chan struct{}
}

var _ physic.SenseEnv = (*SimEnv)(nil)

// NewSimEnv wraps src. name is returned by String.
func NewSimEnv(name string, src env.Source) *SimEnv {
	return &SimEnv{name: name, src: src}
}

func (s *SimEnv) String() string {
	return s.name
}

// Sense fills e with the next reading.
func (s *SimEnv) Sense(e *physic.Env) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.halted {
		return ErrHalted
	}

	r, err := s.src.Next()
	if err != nil {
		return fmt.Errorf("%s sense: %w", s.name, err)
	}
	*e = r.Env()
	return nil
}

// SenseContinuous delivers one reading per interval until Halt is called.
// Only one continuous stream may be active at a time.
func (s *SimEnv) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%s: interval must be positive, got %s", s.name, interval)
	}

	s.mu.Lock()
	if s.halted {
		s.mu.Unlock()
		return nil, ErrHalted
	}
	if s.stop != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%s: continuous sensing already running", s.name)
	}
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	out := make(chan physic.Env)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			var e physic.Env
			if err := s.Sense(&e); err != nil {
				return
			}
			select {
			case out <- e:
			case <-stop:
				return
			}
			select {
			case <-ticker.C:
			case <-stop:
				return
			}
		}
	}()
	return out, nil
}

// Precision reports the resolution of the simulated values: 0.1 of each
// unit, matching the single decimal of the deltas.
func (s *SimEnv) Precision(e *physic.Env) {
	e.Temperature = 100 * physic.MilliKelvin
	e.Pressure = 10 * physic.Pascal
	e.Humidity = physic.MilliRH
}

// Halt stops any continuous stream and makes further Sense calls fail.
func (s *SimEnv) Halt() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.halted = true
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	return nil
}
