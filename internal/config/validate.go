// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"fmt"

	"github.com/relabs-tech/envsim/internal/emitter"
	"github.com/relabs-tech/envsim/internal/record"
)

// Validate checks the configuration. Every failure is an
// *emitter.ConfigError so callers map it to the same exit status as loop
// option errors.
func (c *Config) Validate() error {
	opts := emitter.Options{Interval: c.Interval, MaxTicks: c.MaxTicks}
	if err := opts.Validate(); err != nil {
		return err
	}
	if _, err := c.Encoder(); err != nil {
		return &emitter.ConfigError{Field: "format", Reason: err.Error()}
	}
	if !validSeparator(c.Separator) {
		return &emitter.ConfigError{
			Field:  "separator",
			Reason: fmt.Sprintf("0x%02x must be a control character other than CR or LF", c.Separator),
		}
	}
	if c.Source != SourceGenerator && c.Source != SourcePeriph {
		return &emitter.ConfigError{
			Field:  "source",
			Reason: fmt.Sprintf("unknown source %q (want generator or periph)", c.Source),
		}
	}

	switch c.Sink {
	case SinkStdout:
	case SinkFile:
		if c.FilePath == "" {
			return required("FILE_PATH", c.Sink)
		}
		if c.FileMaxSizeMB < 0 || c.FileMaxBackups < 0 {
			return &emitter.ConfigError{Field: "file rotation", Reason: "sizes must not be negative"}
		}
	case SinkMQTT:
		if c.MQTTBroker == "" {
			return required("MQTT_BROKER", c.Sink)
		}
		if c.MQTTTopic == "" {
			return required("MQTT_TOPIC", c.Sink)
		}
	case SinkSerial:
		if c.SerialPort == "" {
			return required("SERIAL_PORT", c.Sink)
		}
		if c.SerialBaudRate <= 0 {
			return &emitter.ConfigError{Field: "SERIAL_BAUD_RATE", Reason: fmt.Sprintf("must be positive, got %d", c.SerialBaudRate)}
		}
	case SinkWebSocket:
		if c.WSListenAddr == "" {
			return required("WS_LISTEN_ADDR", c.Sink)
		}
	default:
		return &emitter.ConfigError{
			Field:  "sink",
			Reason: fmt.Sprintf("unknown sink %q (want stdout, file, mqtt, serial or ws)", c.Sink),
		}
	}
	return nil
}

// validSeparator accepts ASCII control characters that cannot appear in a
// rendered number or split a line.
func validSeparator(b byte) bool {
	if b == '\n' || b == '\r' {
		return false
	}
	return b < 0x20 || b == 0x7F
}

func required(key, sink string) error {
	return &emitter.ConfigError{Field: key, Reason: "required for sink " + sink}
}

// Encoder returns the record codec selected by FORMAT. SEPARATOR applies
// to the gs format only.
func (c *Config) Encoder() (record.Encoder, error) {
	if c.Format == "" || c.Format == "gs" {
		return record.Separated{Sep: c.Separator}, nil
	}
	return record.ByName(c.Format)
}
