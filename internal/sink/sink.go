// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/relabs-tech/envsim/internal/record"
)

// RecordSink accepts one record per call. A nil return means the record
// has been flushed to the underlying transport.
type RecordSink interface {
	WriteRecord(ctx context.Context, rec record.Record) error
}

type syncer interface {
	Sync() error
}

// Line frames each record with a trailing newline and flushes before
// returning. If the writer has a Sync method (os.File) it is called too.
type Line struct {
	mu    sync.Mutex
	w     io.Writer
	buf   *bufio.Writer
	fsync bool
}

// NewLine creates a line sink on w. When syncWrites is set and w supports
// it, every record is fsynced.
func NewLine(w io.Writer, syncWrites bool) *Line {
	return &Line{w: w, buf: bufio.NewWriter(w), fsync: syncWrites}
}

func (l *Line) WriteRecord(ctx context.Context, rec record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.buf.WriteString(string(rec)); err != nil {
		return fmt.Errorf("line sink: write: %w", err)
	}
	if err := l.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("line sink: write: %w", err)
	}
	if err := l.buf.Flush(); err != nil {
		return fmt.Errorf("line sink: flush: %w", err)
	}
	if s, ok := l.w.(syncer); ok && l.fsync {
		if err := s.Sync(); err != nil {
			return fmt.Errorf("line sink: sync: %w", err)
		}
	}
	return nil
}

// Close closes the underlying writer if it is an io.Closer.
func (l *Line) Close() error {
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
