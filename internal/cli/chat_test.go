// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morganforge/parley/internal/config"
	"github.com/morganforge/parley/internal/exchange"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/model"
	"github.com/morganforge/parley/internal/viewcache"
)

// stubBackend satisfies the controller's gateway and the cache's fetcher;
// the slash-command tests never reach the network.
type stubBackend struct{}

func (stubBackend) CreateConversation(ctx context.Context, m mode.Mode, title string) (*model.Conversation, error) {
	return &model.Conversation{ID: "conv-1", Mode: m.String(), Title: title}, nil
}

func (stubBackend) SendMessage(ctx context.Context, conversationID, content string, m mode.Mode) (*model.ChatExchange, error) {
	return &model.ChatExchange{}, nil
}

func (stubBackend) ClearConversation(ctx context.Context, conversationID string) error {
	return nil
}

func (stubBackend) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	return nil, nil
}

func (stubBackend) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	return nil, nil
}

func newTestSession(t *testing.T) *replSession {
	t.Helper()
	cache := viewcache.New(stubBackend{})
	return &replSession{
		cfg:   config.DefaultConfig(),
		cache: cache,
		ctrl:  exchange.New(stubBackend{}, cache),
		quiet: true,
	}
}

func TestModeCommandSwitchesMode(t *testing.T) {
	s := newTestSession(t)

	quit := s.runCommand("/mode study")
	assert.False(t, quit)
	assert.Equal(t, mode.Study, s.ctrl.Mode())
}

func TestModeCommandAcceptsUnknownModes(t *testing.T) {
	s := newTestSession(t)

	// Unknown modes are preserved verbatim, never rejected.
	quit := s.runCommand("/mode experimental")
	assert.False(t, quit)
	assert.Equal(t, "experimental", s.ctrl.Mode().String())
	assert.False(t, s.ctrl.Mode().IsKnown())
}

func TestModeCommandWithoutArgumentKeepsMode(t *testing.T) {
	s := newTestSession(t)
	s.ctrl.SetMode(mode.Image)

	s.runCommand("/mode")
	assert.Equal(t, mode.Image, s.ctrl.Mode())
}

func TestQuitCommand(t *testing.T) {
	s := newTestSession(t)
	assert.True(t, s.runCommand("/quit"))
	assert.True(t, s.runCommand("/q"))
	assert.False(t, s.runCommand("/new"))
}
