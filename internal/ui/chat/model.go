// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/history"
	"github.com/morganforge/parley/internal/model"
	"github.com/morganforge/parley/internal/ui/components"
	"github.com/morganforge/parley/internal/ui/styles"
	"github.com/morganforge/parley/internal/viewcache"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view. It renders the view
// cache's current message list plus the controller's pending state, and
// forwards user intents back to the controller.
type Model struct {
	// Core collaborators
	controller *exchange.Controller
	cache      *viewcache.Cache
	hist       *history.Store
	cfg        *config.Config

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int
	ready  bool

	// Rendered data
	messages      []model.Message
	conversations []model.Conversation

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	keyMap   KeyMap
	toasts   *components.ToastManager

	// Markdown rendering
	mdRenderer *glamour.TermRenderer

	// Conversation picker overlay
	showPicker  bool
	pickerIndex int

	// Prompt history recall
	histEntries []string // newest first
	histIndex   int      // -1 = live input
	histDraft   string   // input stashed while browsing history
}

// New creates a new chat model.
func New(ctrl *exchange.Controller, cache *viewcache.Cache, hist *history.Store, cfg *config.Config, theme *styles.Theme) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(styles.Amber)

	return Model{
		controller: ctrl,
		cache:      cache,
		hist:       hist,
		cfg:        cfg,
		theme:      theme,
		input:      ti,
		spin:       sp,
		keyMap:     DefaultKeyMap(),
		toasts:     components.NewToastManager(),
		histIndex:  -1,
	}
}

// Init loads the initial history; messages arrive once a conversation is
// selected or the first send creates one.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		LoadHistoryCmd(m.hist),
	)
}

// SetConfig swaps in a hot-reloaded configuration.
func (m *Model) SetConfig(cfg *config.Config) {
	m.cfg = cfg
	m.theme = styles.Detect(cfg.UI.Theme)
	m.mdRenderer = nil // rebuilt lazily at the current width
}

// renderer returns the glamour renderer, building it for the current width.
func (m *Model) renderer() *glamour.TermRenderer {
	if m.mdRenderer == nil {
		width := m.width - 6
		if width < 20 {
			width = 20
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			m.mdRenderer = r
		}
	}
	return m.mdRenderer
}
