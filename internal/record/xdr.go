// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package record

import (
	"fmt"
	"strconv"
	"strings"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/relabs-tech/envsim/internal/env"
)

// DefaultTalker is the NMEA talker ID for weather instruments.
const DefaultTalker = "WI"

// Transducer names used in XDR sentences.
const (
	xdrTemperature = "TEMP"
	xdrPressure    = "BARO"
	xdrHumidity    = "HUMI"
)

// XDR renders a reading as an NMEA 0183 transducer measurement sentence:
//
//	$WIXDR,C,32.4,C,TEMP,P,0.9983,B,BARO,H,49.2,P,HUMI*hh
//
// Pressure is sent in bars as the XDR convention expects.
type XDR struct {
	Talker string
}

func (x XDR) Encode(r env.Reading) Record {
	talker := x.Talker
	if talker == "" {
		talker = DefaultTalker
	}

	bars := r.Pressure / 1000

	fields := []string{
		talker + nmea.TypeXDR,
		"C", strconv.FormatFloat(r.Temperature, 'f', -1, 64), "C", xdrTemperature,
		"P", strconv.FormatFloat(bars, 'f', -1, 64), "B", xdrPressure,
		"H", strconv.FormatFloat(r.Humidity, 'f', -1, 64), "P", xdrHumidity,
	}
	body := strings.Join(fields, ",")
	return Record("$" + body + "*" + nmea.Checksum(body))
}

// DecodeXDR parses a sentence produced by XDR.Encode back into a reading.
// Pressure is converted back to hPa.
func DecodeXDR(rec Record) (env.Reading, error) {
	s, err := nmea.Parse(string(rec))
	if err != nil {
		return env.Reading{}, fmt.Errorf("record: xdr: %w", err)
	}
	x, ok := s.(nmea.XDR)
	if !ok {
		return env.Reading{}, fmt.Errorf("record: xdr: unexpected sentence type %s", s.DataType())
	}

	var r env.Reading
	var seen int
	for _, m := range x.Measurements {
		switch m.TransducerName {
		case xdrTemperature:
			r.Temperature = m.Value
		case xdrPressure:
			r.Pressure = m.Value * 1000
		case xdrHumidity:
			r.Humidity = m.Value
		default:
			continue
		}
		seen++
	}
	if seen != 3 {
		return env.Reading{}, fmt.Errorf("record: xdr: expected 3 measurements, got %d", seen)
	}
	return r, nil
}
