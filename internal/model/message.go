// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single message in a conversation as the backend stores it.
// The client never constructs one locally: every Message in a rendered list
// originated from a server response, identifiers included.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// IsUser reports whether the message was sent by the user.
func (m *Message) IsUser() bool {
	return m.Role == RoleUser
}

// Preview returns the first maxLen runes of the content on a single line.
func (m *Message) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.Content), " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// CHAT EXCHANGE
// =============================================================================

// ChatExchange is the backend's response to a send: the persisted user
// message and the generated assistant reply, both server-assigned.
type ChatExchange struct {
	UserMessage Message `json:"userMessage"`
	AIMessage   Message `json:"aiMessage"`
}

// Messages returns the exchange as an ordered pair, user first.
func (e *ChatExchange) Messages() []Message {
	return []Message{e.UserMessage, e.AIMessage}
}
