// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the message transcript into the viewport.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/parley/internal/model"
	"github.com/morganforge/parley/internal/ui/components"
	"github.com/morganforge/parley/internal/util"
)

// refreshViewport re-renders the transcript into the viewport. Called
// whenever messages, width, or theme change.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderMessages())
}

// renderMessages builds the full transcript view.
func (m *Model) renderMessages() string {
	if len(m.messages) == 0 {
		return m.renderEmptyState()
	}

	var b strings.Builder
	for i, msg := range m.messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEmptyState fills the viewport before the first exchange.
func (m *Model) renderEmptyState() string {
	lines := []string{
		"",
		m.theme.RoleLabel.Render("No messages yet."),
		m.theme.Timestamp.Render("Type a message and press Enter to start a conversation."),
	}
	return lipgloss.NewStyle().
		Width(m.viewport.Width).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

// renderMessage renders a single message as a labeled bubble. User
// messages align right, assistant messages align left.
func (m *Model) renderMessage(msg model.Message) string {
	bubbleWidth := m.viewport.Width * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = m.viewport.Width - 2
	}

	label := m.theme.RoleLabel.Render(msg.Role.DisplayName())
	if m.cfg.UI.ShowTimestamps && !msg.Timestamp.IsZero() {
		label += " " + m.theme.Timestamp.Render(util.FormatClock(msg.Timestamp))
	}

	var bubble string
	var align lipgloss.Position
	switch msg.Role {
	case model.RoleUser:
		bubble = m.theme.UserBubble.Width(bubbleWidth).Render(msg.Content)
		align = lipgloss.Right
	default:
		bubble = m.theme.AssistantBubble.Width(bubbleWidth).Render(m.renderAssistantContent(msg.Content, bubbleWidth))
		align = lipgloss.Left
	}

	block := lipgloss.JoinVertical(align, label, bubble)
	return lipgloss.NewStyle().
		Width(m.viewport.Width).
		Align(align).
		Render(block)
}

// renderAssistantContent renders assistant output as markdown when
// enabled, otherwise plain text with highlighted code fences.
func (m *Model) renderAssistantContent(content string, width int) string {
	if m.cfg.UI.Markdown {
		if r := m.renderer(); r != nil {
			if out, err := r.Render(content); err == nil {
				return strings.TrimRight(out, "\n")
			}
		}
	}
	return components.HighlightCodeBlocks(content, m.theme.IsDark)
}
