// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange owns the message-exchange state machine: how a locally
// typed message becomes a persisted conversation on the backend.
//
// The Controller holds the selected conversation identifier and the status
// of the pending send (idle, creating conversation, sending, errored). A
// submit with no held conversation creates one lazily and chains straight
// into the send, so no observer ever sees a created-but-unsent conversation
// as a steady state. Only one send may be in flight; concurrent submits are
// no-ops. Failures preserve the pending text and surface a recoverable
// error; acknowledging it returns the machine to idle for retry.
package exchange
