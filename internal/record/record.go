// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package record

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/relabs-tech/envsim/internal/env"
)

// GroupSeparator is ASCII GS, the default field delimiter.
const GroupSeparator byte = 0x1D

// Record is one encoded reading. It never contains the line terminator;
// framing belongs to the sink.
type Record string

// Encoder turns a reading into a record.
type Encoder interface {
	Encode(r env.Reading) Record
}

// Separated renders temperature, pressure and humidity joined by Sep.
type Separated struct {
	Sep byte
}

// Default returns the GS-separated codec.
func Default() Separated {
	return Separated{Sep: GroupSeparator}
}

func (s Separated) Encode(r env.Reading) Record {
	var b strings.Builder
	b.WriteString(FormatValue(r.Temperature))
	b.WriteByte(s.Sep)
	b.WriteString(FormatValue(r.Pressure))
	b.WriteByte(s.Sep)
	b.WriteString(FormatValue(r.Humidity))
	return Record(b.String())
}

// Decode parses a record produced by Encode. The Seq of the returned
// reading is left zero since it is not on the wire.
func (s Separated) Decode(rec Record) (env.Reading, error) {
	fields := strings.Split(string(rec), string(s.Sep))
	if len(fields) != 3 {
		return env.Reading{}, fmt.Errorf("record: expected 3 fields, got %d", len(fields))
	}

	var vals [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return env.Reading{}, fmt.Errorf("record: field %d: %w", i, err)
		}
		vals[i] = v
	}

	return env.Reading{
		Temperature: vals[0],
		Pressure:    vals[1],
		Humidity:    vals[2],
	}, nil
}

// FormatValue renders v as the shortest decimal that round-trips, always
// with a fractional part ("30.0", "-2.4").
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// ByName returns the codec registered under name. The empty name selects
// the default.
func ByName(name string) (Encoder, error) {
	switch name {
	case "", "gs":
		return Default(), nil
	case "xdr":
		return XDR{Talker: DefaultTalker}, nil
	case "json":
		return Notification{}, nil
	default:
		return nil, fmt.Errorf("record: unknown format %q (want gs, xdr or json)", name)
	}
}
