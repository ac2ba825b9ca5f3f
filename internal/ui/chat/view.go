// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file composes the full-screen chat layout.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/util"
)

// View renders the chat screen.
func (m Model) View() string {
	if !m.ready {
		return "Starting parley..."
	}

	if m.showPicker {
		return m.renderPicker()
	}

	sections := []string{
		m.renderHeader(),
		m.viewport.View(),
		m.renderInput(),
		m.renderStatusBar(),
	}

	if toasts := m.toasts.View(m.theme, m.width-4); toasts != "" {
		sections = append(sections, toasts)
	}

	return strings.Join(sections, "\n")
}

// renderHeader draws the title row with the active mode.
func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("parley")
	activeMode := m.theme.HeaderMode.Render("[" + mode.LabelFor(m.controller.Mode()) + "]")

	left := title + " " + activeMode
	gap := m.width - lipgloss.Width(left)
	if gap < 0 {
		gap = 0
	}
	return m.theme.Header.Width(m.width).Render(left + strings.Repeat(" ", gap))
}

// renderInput draws the prompt line.
func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

// renderStatusBar draws the bottom status row: spinner or error state on
// the left, shortcuts on the right.
func (m Model) renderStatusBar() string {
	var left string
	switch m.controller.Status() {
	case exchange.StatusCreating:
		left = m.theme.StatusBusy.Render(m.spin.View() + " Creating conversation...")
	case exchange.StatusSending:
		left = m.theme.StatusBusy.Render(m.spin.View() + " Waiting for reply...")
	case exchange.StatusErrored:
		left = m.theme.StatusError.Render("Send failed. Press Enter to retry, Esc to dismiss.")
	default:
		left = m.theme.StatusBar.Render("Ready")
	}

	shortcuts := []struct{ key, desc string }{
		{"^G", "mode"},
		{"^N", "new"},
		{"^P", "chats"},
		{"^X", "clear"},
		{"^Y", "copy"},
		{"^C", "quit"},
	}
	parts := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		parts = append(parts, m.theme.ShortcutKey.Render(s.key)+m.theme.ShortcutDesc.Render(" "+s.desc))
	}
	right := strings.Join(parts, "  ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return left
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

// renderPicker draws the conversation picker as a full-screen list.
func (m Model) renderPicker() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Conversations"))
	b.WriteString("\n\n")

	if len(m.conversations) == 0 {
		b.WriteString(m.theme.PickerItem.Render("No conversations yet."))
	}

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.pickerIndex >= visible {
		start = m.pickerIndex - visible + 1
	}
	end := start + visible
	if end > len(m.conversations) {
		end = len(m.conversations)
	}

	for i := start; i < end; i++ {
		conv := m.conversations[i]
		line := util.TruncateWidth(conv.DisplayTitle(), m.width-8) +
			"  " + util.FormatDate(conv.CreatedAt)
		if i == m.pickerIndex {
			b.WriteString(m.theme.PickerSelected.Render("> " + line))
		} else {
			b.WriteString(m.theme.PickerItem.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("enter select · esc close"))
	return b.String()
}
