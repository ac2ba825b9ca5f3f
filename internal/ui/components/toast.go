// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the parley TUI.
//
// Toasts are non-blocking notices in the corner of the screen. A failed
// send surfaces as an error toast and the user keeps typing; nothing in
// this client is a modal error.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/parley/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindWarning is a warning toast
	ToastKindWarning
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts
// (longer, to read).
const ErrorToastDuration = 8 * time.Second

// Toast is a single notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast has outlived its duration.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastTickMsg drives toast expiry; the chat model re-issues it while any
// toast is visible.
type ToastTickMsg struct{}

// ToastManager owns the visible toasts.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
	nextID int
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Error adds an error toast.
func (m *ToastManager) Error(message string) {
	m.add(message, ToastKindError, ErrorToastDuration)
}

// Warning adds a warning toast.
func (m *ToastManager) Warning(message string) {
	m.add(message, ToastKindWarning, DefaultToastDuration)
}

// Status adds an informational toast.
func (m *ToastManager) Status(message string) {
	m.add(message, ToastKindStatus, DefaultToastDuration)
}

func (m *ToastManager) add(message string, kind ToastKind, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.toasts = append(m.toasts, Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  d,
	})
}

// DismissOldest removes the oldest visible toast (Esc in the UI).
func (m *ToastManager) DismissOldest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.toasts) > 0 {
		m.toasts = m.toasts[1:]
	}
}

// Expire drops expired toasts and reports whether any remain.
func (m *ToastManager) Expire(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
	return len(m.toasts) > 0
}

// Active reports whether any toast is visible.
func (m *ToastManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// TickCmd schedules the next expiry check.
func (m *ToastManager) TickCmd() tea.Cmd {
	return tea.Tick(time.Second/2, func(time.Time) tea.Msg {
		return ToastTickMsg{}
	})
}

// View renders the visible toasts, newest last, one per line.
func (m *ToastManager) View(theme *styles.Theme, maxWidth int) string {
	m.mu.Lock()
	toasts := make([]Toast, len(m.toasts))
	copy(toasts, m.toasts)
	m.mu.Unlock()

	if len(toasts) == 0 {
		return ""
	}

	var b strings.Builder
	for i, t := range toasts {
		if i > 0 {
			b.WriteString("\n")
		}
		style := theme.ToastStatus
		switch t.Kind {
		case ToastKindError:
			style = theme.ToastError
		case ToastKindWarning:
			style = theme.ToastWarning
		}
		b.WriteString(style.MaxWidth(maxWidth).Render(t.Message))
	}
	return b.String()
}
