// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange owns the message-exchange state machine.
package exchange

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/morganforge/parley/internal/gateway"
	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptySubmission is returned when the trimmed input is empty.
	// Callers absorb it silently; it never reaches the gateway.
	ErrEmptySubmission = errors.New("nothing to send")

	// ErrSendInFlight is returned when a submit arrives while another send
	// is outstanding. The new submit is a no-op, not queued.
	ErrSendInFlight = errors.New("a send is already in flight")

	// ErrNoConversation is returned by Clear when nothing is selected.
	ErrNoConversation = errors.New("no conversation selected")
)

// =============================================================================
// STATUS
// =============================================================================

// Status is the lifecycle state of the pending send.
type Status int

const (
	// StatusIdle means no send is outstanding.
	StatusIdle Status = iota
	// StatusCreating means a conversation is being created ahead of the
	// first send.
	StatusCreating
	// StatusSending means the message pair is being requested.
	StatusSending
	// StatusErrored means the last send failed and awaits acknowledgement.
	StatusErrored
)

// String returns the status name for display.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusCreating:
		return "creating conversation"
	case StatusSending:
		return "sending"
	case StatusErrored:
		return "error"
	default:
		return "unknown"
	}
}

// InFlight reports whether a gateway call is outstanding.
func (s Status) InFlight() bool {
	return s == StatusCreating || s == StatusSending
}

// =============================================================================
// INTERFACES
// =============================================================================

// Gateway is the subset of the backend client the controller drives.
type Gateway interface {
	CreateConversation(ctx context.Context, m mode.Mode, title string) (*model.Conversation, error)
	SendMessage(ctx context.Context, conversationID, content string, m mode.Mode) (*model.ChatExchange, error)
	ClearConversation(ctx context.Context, conversationID string) error
}

// Invalidator marks cached views stale after a successful mutation.
type Invalidator interface {
	Invalidate(conversationID string)
	InvalidateConversations()
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller tracks the selected conversation and the pending send. It
// guarantees that at most one send is in flight, that the first send of a
// session creates exactly one conversation before exactly one message pair
// is requested, and that failures leave both the held identifier and the
// pending text untouched so the user can retry.
//
// Known race: a clear completing while a send against the same identifier is
// still in flight is not resolved here. The post-clear invalidation
// converges the view eventually; the fate of the stale send is whatever the
// backend made of it.
type Controller struct {
	mu sync.Mutex

	gw    Gateway
	cache Invalidator

	mode           mode.Mode
	conversationID string

	status  Status
	pending string
	lastErr error
}

// New creates a controller in the idle state with the default mode.
func New(gw Gateway, cache Invalidator) *Controller {
	return &Controller{
		gw:    gw,
		cache: cache,
		mode:  mode.Default,
	}
}

// Result is what a successful submit produced.
type Result struct {
	// Conversation is non-nil when this send lazily created one.
	Conversation *model.Conversation
	// ConversationID is the identifier the pair was sent against.
	ConversationID string
	// Exchange is the persisted user/assistant message pair.
	Exchange *model.ChatExchange
}

// Submit runs one full send: trim and validate, create a conversation if
// none is held, request the message pair, then invalidate the cached views.
// It blocks for the duration of the round trips and is meant to be called
// from a worker goroutine (a Bubble Tea command or the REPL loop).
func (c *Controller) Submit(ctx context.Context, text string) (*Result, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptySubmission
	}

	c.mu.Lock()
	if c.status != StatusIdle {
		c.mu.Unlock()
		return nil, ErrSendInFlight
	}
	c.pending = trimmed
	c.lastErr = nil
	needCreate := c.conversationID == ""
	if needCreate {
		c.status = StatusCreating
	} else {
		c.status = StatusSending
	}
	id := c.conversationID
	m := c.mode
	c.mu.Unlock()

	result := &Result{}

	if needCreate {
		conv, err := c.gw.CreateConversation(ctx, m, gateway.DefaultTitle(trimmed, m))
		if err != nil {
			c.fail(err)
			return nil, err
		}

		c.mu.Lock()
		c.conversationID = conv.ID
		c.status = StatusSending
		c.mu.Unlock()

		id = conv.ID
		result.Conversation = conv
	}

	exchange, err := c.gw.SendMessage(ctx, id, trimmed, m)
	if err != nil {
		c.fail(err)
		return nil, err
	}

	c.mu.Lock()
	c.status = StatusIdle
	c.pending = ""
	c.mu.Unlock()

	c.cache.Invalidate(id)
	c.cache.InvalidateConversations()

	result.ConversationID = id
	result.Exchange = exchange
	return result, nil
}

// fail records a send failure. The pending text and the held conversation
// identifier survive so an identical resubmission can follow.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.status = StatusErrored
	c.lastErr = err
	c.mu.Unlock()
}

// Acknowledge dismisses a surfaced error, returning the controller to idle.
// The pending text stays available through PendingText for retry.
func (c *Controller) Acknowledge() {
	c.mu.Lock()
	if c.status == StatusErrored {
		c.status = StatusIdle
		c.lastErr = nil
	}
	c.mu.Unlock()
}

// Clear deletes the held conversation's messages and invalidates both
// cached views. The held identifier is released on success: the backend
// treats clearing as terminal for that identifier.
func (c *Controller) Clear(ctx context.Context) error {
	c.mu.Lock()
	id := c.conversationID
	c.mu.Unlock()

	if id == "" {
		return ErrNoConversation
	}

	if err := c.gw.ClearConversation(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	if c.conversationID == id {
		c.conversationID = ""
	}
	c.mu.Unlock()

	c.cache.Invalidate(id)
	c.cache.InvalidateConversations()
	return nil
}

// NewChat releases the held identifier so the next send creates a fresh
// conversation. Rejected while a send is in flight.
func (c *Controller) NewChat() {
	c.mu.Lock()
	if !c.status.InFlight() {
		c.conversationID = ""
		c.pending = ""
		c.status = StatusIdle
		c.lastErr = nil
	}
	c.mu.Unlock()
}

// Select makes an existing conversation the held one. Rejected while a send
// is in flight.
func (c *Controller) Select(conversationID string) {
	c.mu.Lock()
	if !c.status.InFlight() {
		c.conversationID = conversationID
		c.status = StatusIdle
		c.lastErr = nil
	}
	c.mu.Unlock()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Status returns the current send status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// ConversationID returns the held conversation identifier, or "".
func (c *Controller) ConversationID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

// PendingText returns the trimmed text of the outstanding or failed send.
func (c *Controller) PendingText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Err returns the failure awaiting acknowledgement, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Mode returns the currently selected mode.
func (c *Controller) Mode() mode.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode selects the mode used for subsequent sends.
func (c *Controller) SetMode(m mode.Mode) {
	c.mu.Lock()
	c.mode = m
	c.mu.Unlock()
}
