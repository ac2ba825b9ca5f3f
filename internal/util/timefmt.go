// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "time"

// FormatClock renders a message timestamp in local time, hour and minute
// only. Seconds are noise at chat pace.
func FormatClock(t time.Time) string {
	return t.Local().Format("15:04")
}

// FormatDate renders a date for titles and list entries, e.g. "Mar 1, 2025".
func FormatDate(t time.Time) string {
	return t.Local().Format("Jan 2, 2006")
}
