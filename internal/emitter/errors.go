// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package emitter

import (
	"errors"
	"fmt"
)

// ErrLoopDone is returned by Run on a loop that already left Idle.
var ErrLoopDone = errors.New("emitter: loop already ran")

// ConfigError reports an invalid option. It is returned before any record
// is written.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExitCode is the process exit status for configuration failures.
func (e *ConfigError) ExitCode() int { return 2 }

// SinkError reports a failed write. The loop stops on the first one.
type SinkError struct {
	Seq uint64 // tick whose record failed
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("sink write failed at tick %d: %v", e.Seq, e.Err)
}

func (e *SinkError) Unwrap() error { return e.Err }

// ExitCode is the process exit status for sink failures.
func (e *SinkError) ExitCode() int { return 1 }

// SourceError reports a reading source that failed. The generator never
// fails; device-backed sources can.
type SourceError struct {
	Seq uint64 // tick that could not be read
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source read failed at tick %d: %v", e.Seq, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ExitCode is the process exit status for source failures.
func (e *SourceError) ExitCode() int { return 1 }
