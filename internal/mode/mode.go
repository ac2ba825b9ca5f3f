// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mode defines the chat modes the backend understands.
package mode

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// MODE TYPE
// =============================================================================

// Mode selects the backend behavior for generated replies.
type Mode string

const (
	Default     Mode = "default"
	Image       Mode = "image"
	Calculation Mode = "calculation"
	Study       Mode = "study"
)

// String returns the wire value of the mode.
func (m Mode) String() string {
	return string(m)
}

// IsKnown reports whether the mode is one of the fixed set.
func (m Mode) IsKnown() bool {
	switch m {
	case Default, Image, Calculation, Study:
		return true
	}
	return false
}

// =============================================================================
// REGISTRY
// =============================================================================

var titleCaser = cases.Title(language.English)

// labels maps each known mode to its display label. The default mode reads
// "Chat" rather than "Default"; the rest are title-cased wire values.
var labels = map[Mode]string{
	Default:     "Chat",
	Image:       titleCaser.String(string(Image)),
	Calculation: titleCaser.String(string(Calculation)),
	Study:       titleCaser.String(string(Study)),
}

// LabelFor returns the human-readable label for a mode. It is total over all
// inputs: unrecognized values fall back to the default mode's label.
func LabelFor(m Mode) string {
	if label, ok := labels[m]; ok {
		return label
	}
	return labels[Default]
}

// All returns the fixed mode set in UI cycling order.
func All() []Mode {
	return []Mode{Default, Image, Calculation, Study}
}

// Next returns the mode after m in cycling order, wrapping around.
// Unknown modes cycle to the default mode.
func Next(m Mode) Mode {
	all := All()
	for i, candidate := range all {
		if candidate == m {
			return all[(i+1)%len(all)]
		}
	}
	return Default
}

// Parse normalizes arbitrary input into a Mode. The value is lowercased and
// trimmed but otherwise preserved: the backend accepts unknown modes, they
// are merely displayed under the default label.
func Parse(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Default
	}
	return Mode(s)
}
