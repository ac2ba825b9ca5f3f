// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. The theme
// preference lives in configuration, not in the exchange controller: the
// presentation surface owns it end to end.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Header
	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMode  lipgloss.Style

	// Message bubbles
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	RoleLabel       lipgloss.Style
	Timestamp       lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusError  lipgloss.Style
	StatusBusy   lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Toasts
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastStatus  lipgloss.Style

	// Conversation picker
	PickerItem     lipgloss.Style
	PickerSelected lipgloss.Style
}

// Detect builds a theme from the terminal's capabilities. The override
// string comes from configuration: "dark", "light", or "auto".
func Detect(override string) *Theme {
	isDark := termenv.HasDarkBackground()
	switch override {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	}

	lipgloss.SetHasDarkBackground(isDark)
	return New(isDark, termenv.ColorProfile())
}

// New creates a theme for the given background.
func New(isDark bool, profile termenv.Profile) *Theme {
	t := &Theme{
		IsDark:       isDark,
		ColorProfile: profile,
	}

	t.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.HeaderMode = lipgloss.NewStyle().Foreground(Purple)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 1)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 1)
	t.RoleLabel = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	t.StatusBar = lipgloss.NewStyle().Foreground(TextSecondary)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StatusBusy = lipgloss.NewStyle().Foreground(Amber)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Cyan)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)

	t.ToastError = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 1)
	t.ToastWarning = t.ToastError.Foreground(Amber).BorderForeground(Amber)
	t.ToastStatus = t.ToastError.Foreground(Cyan).BorderForeground(Cyan)

	t.PickerItem = lipgloss.NewStyle().Foreground(TextPrimary).Padding(0, 1)
	t.PickerSelected = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true).
		Padding(0, 1)

	return t
}

// Toggle returns the opposite theme, for the runtime theme switch.
func (t *Theme) Toggle() *Theme {
	lipgloss.SetHasDarkBackground(!t.IsDark)
	return New(!t.IsDark, t.ColorProfile)
}
