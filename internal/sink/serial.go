// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sink

import (
	"fmt"

	serial "github.com/jacobsa/go-serial/serial"
)

// OpenSerial opens a serial port at 8N1 and returns a line sink on it, the
// way a real sensor board would stream readings over UART.
func OpenSerial(portName string, baudRate int) (*Line, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              uint(baudRate),
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 0,
	}

	port, err := serial.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("serial sink: open %s: %w", portName, err)
	}
	return NewLine(port, false), nil
}
