// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

import "testing"

func TestLabelFor(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{Default, "Chat"},
		{Image, "Image"},
		{Calculation, "Calculation"},
		{Study, "Study"},
		{Mode("poetry"), "Chat"}, // unknown falls back to default label
		{Mode(""), "Chat"},
	}

	for _, tc := range tests {
		if got := LabelFor(tc.mode); got != tc.want {
			t.Errorf("LabelFor(%q) = %q, want %q", tc.mode, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"study", Study},
		{"  Image ", Image},
		{"CALCULATION", Calculation},
		{"", Default},
		{"poetry", Mode("poetry")}, // preserved, displayed under default label
	}

	for _, tc := range tests {
		if got := Parse(tc.in); got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNextCycles(t *testing.T) {
	m := Default
	seen := map[Mode]bool{}
	for range All() {
		seen[m] = true
		m = Next(m)
	}

	if m != Default {
		t.Errorf("cycling %d times ended on %q, want %q", len(All()), m, Default)
	}
	if len(seen) != len(All()) {
		t.Errorf("cycle visited %d modes, want %d", len(seen), len(All()))
	}

	if got := Next(Mode("poetry")); got != Default {
		t.Errorf("Next(unknown) = %q, want %q", got, Default)
	}
}
