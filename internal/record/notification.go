// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package record

import (
	"strings"

	"github.com/relabs-tech/envsim/internal/env"
)

// Notification wraps the three values in the JSON NOTIFICATION message the
// host process reads from fixture stdout:
//
//	{"type":"NOTIFICATION","content":["32.4","998.3","49.2"]}
//
// FormatValue only yields digits, '.', '-', '+' or the letters of NaN and
// Inf, none of which need JSON escaping.
type Notification struct{}

func (Notification) Encode(r env.Reading) Record {
	var b strings.Builder
	b.WriteString(`{"type":"NOTIFICATION","content":["`)
	b.WriteString(FormatValue(r.Temperature))
	b.WriteString(`","`)
	b.WriteString(FormatValue(r.Pressure))
	b.WriteString(`","`)
	b.WriteString(FormatValue(r.Humidity))
	b.WriteString(`"]}`)
	return Record(b.String())
}
