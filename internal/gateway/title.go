// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gateway

import (
	"io"
	"time"

	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/util"
)

// titleDateLayout renders the creation date the way the backend's web client
// shows it, e.g. "Mar 1, 2025".
const titleDateLayout = "Jan 2, 2006"

// DefaultTitle composes the title for a lazily created conversation:
// a preview of the first message plus the local date, or the mode label plus
// the local date when there is no content yet.
func DefaultTitle(content string, m mode.Mode) string {
	prefix := util.TruncateRunes(content, 24)
	if prefix == "" {
		prefix = mode.LabelFor(m)
	}
	return prefix + " - " + time.Now().Format(titleDateLayout)
}

// Helper to drain a response body so the connection can be reused.
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
