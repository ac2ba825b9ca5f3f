// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"multibyte", "日本語のテキスト", 5, "日本..."},
		{"tiny", "hello", 2, "he"},
		{"zero", "hello", 0, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	// CJK characters are two columns wide.
	got := TruncateWidth("日本語", 4)
	if got != "日..." && got != "..." {
		t.Errorf("TruncateWidth CJK = %q, want width <= 4 with ellipsis", got)
	}

	if got := TruncateWidth("hello", 10); got != "hello" {
		t.Errorf("TruncateWidth fitting = %q, want 'hello'", got)
	}
}

func TestFormatClock(t *testing.T) {
	ts := time.Date(2025, 3, 1, 9, 5, 42, 0, time.Local)
	if got := FormatClock(ts); got != "09:05" {
		t.Errorf("FormatClock = %q, want '09:05'", got)
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	if err := AtomicWriteFile(path, []byte("a = 1\n"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "a = 1\n" {
		t.Errorf("content = %q, want 'a = 1\\n'", data)
	}

	// Overwrite must replace, not append.
	if err := AtomicWriteFile(path, []byte("b = 2\n"), 0644); err != nil {
		t.Fatalf("second AtomicWriteFile failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "b = 2\n" {
		t.Errorf("content after overwrite = %q, want 'b = 2\\n'", data)
	}
}
