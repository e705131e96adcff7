// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"math"

	"periph.io/x/conn/v3/physic"
)

// Reading is an immutable snapshot of the simulated sensor at one tick.
type Reading struct {
	Seq uint64 `json:"seq"` // tick number, starts at 1

	Temperature float64 `json:"temp_c"`       // °C
	Pressure    float64 `json:"pressure_hpa"` // hPa
	Humidity    float64 `json:"humidity_rh"`  // %rH
}

// Env converts the reading into periph physical units, the same shape the
// bmxx80 driver fills in on real hardware.
func (r Reading) Env() physic.Env {
	return physic.Env{
		Temperature: physic.ZeroCelsius + physic.Temperature(math.Round(r.Temperature*float64(physic.Celsius))),
		Pressure:    physic.Pressure(math.Round(r.Pressure * 100 * float64(physic.Pascal))),
		Humidity:    physic.RelativeHumidity(math.Round(r.Humidity * float64(physic.PercentRH))),
	}
}

// FromEnv is the inverse of Reading.Env. Pressure comes back in hPa.
func FromEnv(seq uint64, e physic.Env) Reading {
	return Reading{
		Seq:         seq,
		Temperature: float64(e.Temperature-physic.ZeroCelsius) / float64(physic.Celsius),
		Pressure:    float64(e.Pressure) / float64(100*physic.Pascal),
		Humidity:    float64(e.Humidity) / float64(physic.PercentRH),
	}
}
