// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// These types mirror the backend's JSON payloads exactly; the client treats
// the server-held message list as authoritative and never fabricates a
// Message or Conversation of its own.
//
// # Key Types
//
//   - Conversation: mode-tagged container for an ordered message sequence
//   - Message: single message with role, content, and server timestamp
//   - ChatExchange: the user/assistant message pair returned by a send
//   - Role: message role enumeration (user, assistant)
package model
