// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli parses command line arguments and hosts the non-TUI command
// handlers: the plain-terminal chat REPL, backend status, and version
// output. The full-screen interface lives under internal/ui.
package cli
