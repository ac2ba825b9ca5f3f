// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/parley/internal/gateway"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/model"
	"github.com/morganforge/parley/internal/ui/components"
)

// Update handles incoming messages and user intents.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mdRenderer = nil // word wrap depends on width

		headerHeight := 2
		footerHeight := 4
		vpHeight := msg.Height - headerHeight - footerHeight
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.input.Width = msg.Width - 6
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.controller.Status().InFlight() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case SendResultMsg:
		m.input.Reset()
		m.histIndex = -1
		cmds := []tea.Cmd{
			LoadMessagesCmd(m.cache, msg.Result.ConversationID),
			RecordHistoryCmd(m.hist, msg.Result.Exchange.UserMessage.Content, m.controller.Mode().String()),
		}
		return m, tea.Batch(cmds...)

	case SendErrorMsg:
		// Non-fatal, dismissible; acknowledging re-arms the controller so
		// the preserved text can be resubmitted as-is.
		if gateway.IsNetworkError(msg.Err) {
			m.toasts.Error("Backend unreachable. Message kept; press Enter to retry.")
		} else {
			m.toasts.Error("Send failed: " + msg.Err.Error())
		}
		m.controller.Acknowledge()
		return m, m.toasts.TickCmd()

	case MessagesLoadedMsg:
		if msg.ConversationID == m.controller.ConversationID() {
			m.messages = msg.Messages
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		return m, nil

	case ConversationsLoadedMsg:
		m.conversations = msg.Conversations
		if m.pickerIndex >= len(m.conversations) {
			m.pickerIndex = 0
		}
		return m, nil

	case LoadErrorMsg:
		m.toasts.Error("Load failed: " + msg.Err.Error())
		return m, m.toasts.TickCmd()

	case ClearedMsg:
		m.messages = nil
		m.refreshViewport()
		m.toasts.Status("Conversation cleared")
		return m, m.toasts.TickCmd()

	case ClearErrorMsg:
		m.toasts.Error("Clear failed: " + msg.Err.Error())
		return m, m.toasts.TickCmd()

	case CopyResultMsg:
		if msg.Err != nil {
			// Best-effort action; conversation state is unaffected.
			m.toasts.Warning("Copy failed: " + msg.Err.Error())
		} else {
			m.toasts.Status("Copied to clipboard")
		}
		return m, m.toasts.TickCmd()

	case ConfigReloadedMsg:
		m.SetConfig(msg.Config)
		m.refreshViewport()
		m.toasts.Status("Configuration reloaded")
		return m, m.toasts.TickCmd()

	case HistoryLoadedMsg:
		m.histEntries = msg.Entries
		m.histIndex = -1
		return m, nil

	case components.ToastTickMsg:
		if m.toasts.Expire(time.Now()) {
			return m, m.toasts.TickCmd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey routes a key press.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showPicker {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Dismiss):
		m.toasts.DismissOldest()
		return m, nil

	case key.Matches(msg, m.keyMap.Submit):
		text := m.input.Value()
		// Empty and in-flight submits are no-ops; the controller enforces
		// both, so the input is left untouched either way.
		return m, tea.Batch(
			SubmitCmd(m.controller, text),
			m.spin.Tick,
		)

	case key.Matches(msg, m.keyMap.CycleMode):
		m.controller.SetMode(mode.Next(m.controller.Mode()))
		return m, nil

	case key.Matches(msg, m.keyMap.ToggleTheme):
		m.theme = m.theme.Toggle()
		if m.theme.IsDark {
			m.cfg.UI.Theme = "dark"
		} else {
			m.cfg.UI.Theme = "light"
		}
		// Best effort; the toggle works for the session regardless.
		_ = m.cfg.Save()
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.NewChat):
		m.controller.NewChat()
		m.messages = nil
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.ClearChat):
		return m, ClearCmd(m.controller)

	case key.Matches(msg, m.keyMap.Picker):
		m.showPicker = true
		m.pickerIndex = 0
		return m, LoadConversationsCmd(m.cache)

	case key.Matches(msg, m.keyMap.CopyReply):
		if reply := m.lastAssistantReply(); reply != "" {
			return m, CopyCmd(reply)
		}
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryPrev):
		m.recallHistory(1)
		return m, nil

	case key.Matches(msg, m.keyMap.HistoryNext):
		m.recallHistory(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handlePickerKey routes keys while the conversation picker is open.
func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+p":
		m.showPicker = false
		return m, nil
	case "up", "k":
		if m.pickerIndex > 0 {
			m.pickerIndex--
		}
		return m, nil
	case "down", "j":
		if m.pickerIndex < len(m.conversations)-1 {
			m.pickerIndex++
		}
		return m, nil
	case "enter":
		if m.pickerIndex < len(m.conversations) {
			selected := m.conversations[m.pickerIndex]
			m.controller.Select(selected.ID)
			m.showPicker = false
			return m, LoadMessagesCmd(m.cache, selected.ID)
		}
		m.showPicker = false
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// lastAssistantReply returns the content of the newest assistant message.
func (m *Model) lastAssistantReply() string {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == model.RoleAssistant {
			return m.messages[i].Content
		}
	}
	return ""
}

// recallHistory moves through remembered prompts. direction is +1 for
// older, -1 for newer; index -1 restores the stashed live input.
func (m *Model) recallHistory(direction int) {
	if len(m.histEntries) == 0 {
		return
	}

	next := m.histIndex + direction
	if next < -1 {
		next = -1
	}
	if next >= len(m.histEntries) {
		next = len(m.histEntries) - 1
	}
	if next == m.histIndex {
		return
	}

	if m.histIndex == -1 {
		m.histDraft = m.input.Value()
	}

	m.histIndex = next
	if next == -1 {
		m.input.SetValue(m.histDraft)
	} else {
		m.input.SetValue(m.histEntries[next])
	}
	m.input.CursorEnd()
}
