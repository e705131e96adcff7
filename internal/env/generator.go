// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

// Per-tick change applied while rising. Falling ticks apply the negation.
const (
	TemperatureDelta = 2.4
	PressureDelta    = 3.3
	HumidityDelta    = 4.2
)

// State is the mutable state behind the simulated sensor.
type State struct {
	Temperature float64
	Pressure    float64
	Humidity    float64
	Rising      bool // direction of the next step
}

// Seed returns the fixed initial state every simulation starts from.
func Seed() State {
	return State{
		Temperature: 30.0,
		Pressure:    995.0,
		Humidity:    45.0,
		Rising:      true,
	}
}

// Generator produces a triangle wave with a period of two ticks.
//
// A Generator is not safe for concurrent use. The emission loop owns it
// for the lifetime of a run.
type Generator struct {
	state State
	ticks uint64
}

// NewGenerator creates a generator starting at the given state.
func NewGenerator(initial State) *Generator {
	return &Generator{state: initial}
}

// Step advances the state by exactly one tick and returns the reading
// taken after the change.
func (g *Generator) Step() Reading {
	sign := 1.0
	if !g.state.Rising {
		sign = -1.0
	}

	g.state.Temperature += sign * TemperatureDelta
	g.state.Pressure += sign * PressureDelta
	g.state.Humidity += sign * HumidityDelta
	g.state.Rising = !g.state.Rising
	g.ticks++

	return Reading{
		Seq:         g.ticks,
		Temperature: g.state.Temperature,
		Pressure:    g.state.Pressure,
		Humidity:    g.state.Humidity,
	}
}

// Next satisfies Source.
func (g *Generator) Next() (Reading, error) {
	return g.Step(), nil
}

// State returns a copy of the current state.
func (g *Generator) State() State {
	return g.state
}

// Ticks returns how many times Step has been called.
func (g *Generator) Ticks() uint64 {
	return g.ticks
}

// Source is anything that can provide readings over time.
type Source interface {
	Next() (Reading, error)
}
