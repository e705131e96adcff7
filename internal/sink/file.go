// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewRotatingFile creates a line sink that appends to path and rotates
// it once it grows past maxSizeMB, keeping maxBackups old files.
// Writes go straight to the file with no buffering inside lumberjack.
func NewRotatingFile(path string, maxSizeMB, maxBackups int) *Line {
	return NewLine(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}, false)
}
