// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/history"
	"github.com/morganforge/parley/internal/model"
	"github.com/morganforge/parley/internal/viewcache"
)

// =============================================================================
// MESSAGES
// =============================================================================

// SendResultMsg reports a completed send.
type SendResultMsg struct {
	Result *exchange.Result
}

// SendErrorMsg reports a failed send.
type SendErrorMsg struct {
	Err error
}

// MessagesLoadedMsg delivers a conversation's message list from the cache.
type MessagesLoadedMsg struct {
	ConversationID string
	Messages       []model.Message
}

// ConversationsLoadedMsg delivers the conversation list from the cache.
type ConversationsLoadedMsg struct {
	Conversations []model.Conversation
}

// LoadErrorMsg reports a failed cache read.
type LoadErrorMsg struct {
	Err error
}

// ClearedMsg reports a completed clear.
type ClearedMsg struct{}

// ClearErrorMsg reports a failed clear.
type ClearErrorMsg struct {
	Err error
}

// CopyResultMsg reports the outcome of a clipboard copy.
type CopyResultMsg struct {
	Err error
}

// ConfigReloadedMsg carries a hot-reloaded configuration into the model.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// HistoryLoadedMsg delivers recent prompts for up-arrow recall.
type HistoryLoadedMsg struct {
	Entries []string
}

// =============================================================================
// COMMAND CREATORS
// =============================================================================

// SubmitCmd runs one full send through the controller. Empty submissions
// and submits during an in-flight send are absorbed silently.
func SubmitCmd(ctrl *exchange.Controller, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := ctrl.Submit(context.Background(), text)
		if err != nil {
			if errors.Is(err, exchange.ErrEmptySubmission) || errors.Is(err, exchange.ErrSendInFlight) {
				return nil
			}
			return SendErrorMsg{Err: err}
		}
		return SendResultMsg{Result: result}
	}
}

// LoadMessagesCmd reads a conversation's messages through the cache.
func LoadMessagesCmd(cache *viewcache.Cache, conversationID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		messages, err := cache.Messages(ctx, conversationID)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		return MessagesLoadedMsg{ConversationID: conversationID, Messages: messages}
	}
}

// LoadConversationsCmd reads the conversation list through the cache.
func LoadConversationsCmd(cache *viewcache.Cache) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		conversations, err := cache.Conversations(ctx)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}
		return ConversationsLoadedMsg{Conversations: conversations}
	}
}

// ClearCmd deletes the held conversation's messages.
func ClearCmd(ctrl *exchange.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := ctrl.Clear(ctx); err != nil {
			return ClearErrorMsg{Err: err}
		}
		return ClearedMsg{}
	}
}

// CopyCmd copies text to the system clipboard. A failure is non-critical
// and surfaces as a warning toast.
func CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopyResultMsg{Err: clipboard.WriteAll(text)}
	}
}

// RecordHistoryCmd appends a submitted prompt to the history store and
// returns the refreshed recall list. A nil store disables history.
func RecordHistoryCmd(store *history.Store, content, mode string) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		// Best effort: a history failure never interrupts the exchange.
		_ = store.Add(ctx, content, mode)
		return loadHistory(ctx, store)
	}
}

// LoadHistoryCmd fetches recent prompts for recall.
func LoadHistoryCmd(store *history.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return loadHistory(ctx, store)
	}
}

func loadHistory(ctx context.Context, store *history.Store) tea.Msg {
	entries, err := store.Recent(ctx, 100)
	if err != nil {
		return HistoryLoadedMsg{}
	}
	contents := make([]string, len(entries))
	for i, e := range entries {
		contents[i] = e.Content
	}
	return HistoryLoadedMsg{Entries: contents}
}
