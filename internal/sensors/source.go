// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"periph.io/x/conn/v3/physic"

	"github.com/relabs-tech/envsim/internal/env"
)

// EnvSource reads any periph environmental sensor as an env.Source, one
// Sense per Next. Readings are numbered from 1.
type EnvSource struct {
	dev physic.SenseEnv
	seq uint64
}

// NewEnvSource wraps dev.
func NewEnvSource(dev physic.SenseEnv) *EnvSource {
	return &EnvSource{dev: dev}
}

func (s *EnvSource) Next() (env.Reading, error) {
	var e physic.Env
	if err := s.dev.Sense(&e); err != nil {
		return env.Reading{}, fmt.Errorf("%s: %w", s.dev, err)
	}
	s.seq++
	return env.FromEnv(s.seq, e), nil
}
