// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the parley client: rune- and
// width-aware string truncation, local time formatting for the chat view,
// and atomic file writes for configuration persistence.
package util
