// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeGateway records calls and can be made to fail or block.
type fakeGateway struct {
	createCalls int
	sendCalls   int
	clearCalls  int

	createErr error
	sendErr   error
	clearErr  error

	lastCreateMode  mode.Mode
	lastCreateTitle string
	lastSendID      string
	lastSendContent string
	lastSendMode    mode.Mode

	// When non-nil, SendMessage blocks until the channel is closed.
	sendGate chan struct{}

	nextConvID int
}

func (g *fakeGateway) CreateConversation(_ context.Context, m mode.Mode, title string) (*model.Conversation, error) {
	g.createCalls++
	g.lastCreateMode = m
	g.lastCreateTitle = title
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextConvID++
	return &model.Conversation{
		ID:        fmt.Sprintf("c%d", g.nextConvID),
		Mode:      m.String(),
		Title:     title,
		CreatedAt: time.Now(),
	}, nil
}

func (g *fakeGateway) SendMessage(_ context.Context, id, content string, m mode.Mode) (*model.ChatExchange, error) {
	g.sendCalls++
	g.lastSendID = id
	g.lastSendContent = content
	g.lastSendMode = m
	if g.sendGate != nil {
		<-g.sendGate
	}
	if g.sendErr != nil {
		return nil, g.sendErr
	}
	return &model.ChatExchange{
		UserMessage: model.Message{ID: "m-user", ConversationID: id, Role: model.RoleUser, Content: content},
		AIMessage:   model.Message{ID: "m-ai", ConversationID: id, Role: model.RoleAssistant, Content: "reply"},
	}, nil
}

func (g *fakeGateway) ClearConversation(_ context.Context, id string) error {
	g.clearCalls++
	return g.clearErr
}

// fakeInvalidator records invalidation signals.
type fakeInvalidator struct {
	invalidated     []string
	listInvalidated int
}

func (f *fakeInvalidator) Invalidate(id string)     { f.invalidated = append(f.invalidated, id) }
func (f *fakeInvalidator) InvalidateConversations() { f.listInvalidated++ }

func newController() (*Controller, *fakeGateway, *fakeInvalidator) {
	gw := &fakeGateway{}
	inv := &fakeInvalidator{}
	return New(gw, inv), gw, inv
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestSubmitEmptyIsNoOp(t *testing.T) {
	c, gw, inv := newController()

	for _, input := range []string{"", "   ", "\n\t  "} {
		_, err := c.Submit(context.Background(), input)
		assert.ErrorIs(t, err, ErrEmptySubmission, "input %q", input)
	}

	assert.Zero(t, gw.createCalls, "validation failures never reach the gateway")
	assert.Zero(t, gw.sendCalls)
	assert.Empty(t, inv.invalidated)
	assert.Equal(t, StatusIdle, c.Status())
	assert.Empty(t, c.ConversationID())
}

// =============================================================================
// LAZY CREATION
// =============================================================================

func TestFirstSubmitCreatesThenSends(t *testing.T) {
	c, gw, _ := newController()
	c.SetMode(mode.Study)

	result, err := c.Submit(context.Background(), "Explain entropy")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.createCalls, "exactly one conversation for one send")
	assert.Equal(t, 1, gw.sendCalls)
	assert.Equal(t, mode.Study, gw.lastCreateMode)
	assert.True(t, strings.HasPrefix(gw.lastCreateTitle, "Explain entropy - "), "title = %q", gw.lastCreateTitle)

	// The send targets the identifier the creation returned.
	require.NotNil(t, result.Conversation)
	assert.Equal(t, result.Conversation.ID, gw.lastSendID)
	assert.Equal(t, result.Conversation.ID, c.ConversationID())

	// The pair comes back in gateway order, user first.
	require.NotNil(t, result.Exchange)
	assert.Equal(t, model.RoleUser, result.Exchange.UserMessage.Role)
	assert.Equal(t, "Explain entropy", result.Exchange.UserMessage.Content)
	assert.Equal(t, model.RoleAssistant, result.Exchange.AIMessage.Role)

	assert.Equal(t, StatusIdle, c.Status())
	assert.Empty(t, c.PendingText(), "buffer cleared after success")
}

func TestSecondSubmitReusesConversation(t *testing.T) {
	c, gw, _ := newController()
	ctx := context.Background()

	first, err := c.Submit(ctx, "hello")
	require.NoError(t, err)

	second, err := c.Submit(ctx, "again")
	require.NoError(t, err)

	assert.Equal(t, 1, gw.createCalls, "only the first send creates")
	assert.Equal(t, 2, gw.sendCalls)
	assert.Nil(t, second.Conversation)
	assert.Equal(t, first.ConversationID, second.ConversationID)
}

func TestCreateFailureLeavesIdentifierUnset(t *testing.T) {
	c, gw, inv := newController()
	gw.createErr = errors.New("backend down")

	_, err := c.Submit(context.Background(), "hello")
	require.Error(t, err)

	assert.Equal(t, StatusErrored, c.Status())
	assert.Empty(t, c.ConversationID(), "held identifier unchanged on failure")
	assert.Equal(t, "hello", c.PendingText(), "input not lost")
	assert.Zero(t, gw.sendCalls, "no send against a conversation that was never created")
	assert.Empty(t, inv.invalidated, "no invalidation without a success")
}

// =============================================================================
// FAILURE AND RETRY
// =============================================================================

func TestSendFailurePreservesPendingText(t *testing.T) {
	c, gw, _ := newController()
	gw.sendErr = errors.New("model overloaded")

	_, err := c.Submit(context.Background(), "  Explain entropy  ")
	require.Error(t, err)

	assert.Equal(t, StatusErrored, c.Status())
	assert.Equal(t, "Explain entropy", c.PendingText(), "trimmed original preserved")
	assert.ErrorContains(t, c.Err(), "model overloaded")

	// Acknowledge returns to idle; an identical resubmission succeeds.
	c.Acknowledge()
	assert.Equal(t, StatusIdle, c.Status())

	gw.sendErr = nil
	result, err := c.Submit(context.Background(), c.PendingText())
	require.NoError(t, err)
	assert.Equal(t, "Explain entropy", result.Exchange.UserMessage.Content)
}

func TestSubmitWhileInFlightIsNoOp(t *testing.T) {
	c, gw, _ := newController()
	gw.sendGate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "first")
		done <- err
	}()

	// Wait for the first submit to reach the gateway.
	require.Eventually(t, func() bool { return c.Status() == StatusSending },
		time.Second, 5*time.Millisecond)

	_, err := c.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrSendInFlight)
	assert.Equal(t, "first", c.PendingText(), "pending text of the first send untouched")

	close(gw.sendGate)
	require.NoError(t, <-done)

	assert.Equal(t, 1, gw.sendCalls, "the concurrent submit produced no gateway call")
	assert.Equal(t, "first", gw.lastSendContent)
}

// =============================================================================
// INVALIDATION
// =============================================================================

func TestSuccessInvalidatesBothViews(t *testing.T) {
	c, _, inv := newController()

	result, err := c.Submit(context.Background(), "hello")
	require.NoError(t, err)

	require.Len(t, inv.invalidated, 1)
	assert.Equal(t, result.ConversationID, inv.invalidated[0])
	assert.Equal(t, 1, inv.listInvalidated)
}

func TestClear(t *testing.T) {
	c, gw, inv := newController()
	ctx := context.Background()

	// Nothing selected yet.
	assert.ErrorIs(t, c.Clear(ctx), ErrNoConversation)

	result, err := c.Submit(ctx, "hello")
	require.NoError(t, err)

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, 1, gw.clearCalls)
	assert.Empty(t, c.ConversationID(), "clear is terminal for the identifier")
	assert.Contains(t, inv.invalidated, result.ConversationID)
	assert.Equal(t, 2, inv.listInvalidated, "send + clear each invalidate the list")
}

func TestClearFailureKeepsIdentifier(t *testing.T) {
	c, gw, _ := newController()
	ctx := context.Background()

	result, err := c.Submit(ctx, "hello")
	require.NoError(t, err)

	gw.clearErr = errors.New("backend down")
	require.Error(t, c.Clear(ctx))
	assert.Equal(t, result.ConversationID, c.ConversationID())
}

// =============================================================================
// SELECTION
// =============================================================================

func TestNewChatReleasesIdentifier(t *testing.T) {
	c, gw, _ := newController()
	ctx := context.Background()

	_, err := c.Submit(ctx, "hello")
	require.NoError(t, err)
	require.NotEmpty(t, c.ConversationID())

	c.NewChat()
	assert.Empty(t, c.ConversationID())

	// The next send creates a fresh conversation.
	_, err = c.Submit(ctx, "again")
	require.NoError(t, err)
	assert.Equal(t, 2, gw.createCalls)
}

func TestSelectSwitchesConversation(t *testing.T) {
	c, gw, _ := newController()

	c.Select("c42")
	_, err := c.Submit(context.Background(), "hello")
	require.NoError(t, err)

	assert.Zero(t, gw.createCalls, "selected conversation needs no creation")
	assert.Equal(t, "c42", gw.lastSendID)
}

func TestSelectRejectedWhileInFlight(t *testing.T) {
	c, gw, _ := newController()
	gw.sendGate = make(chan struct{})
	c.Select("c1")

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "first")
		done <- err
	}()
	require.Eventually(t, func() bool { return c.Status() == StatusSending },
		time.Second, 5*time.Millisecond)

	c.Select("c2")
	c.NewChat()
	assert.Equal(t, "c1", c.ConversationID(), "selection is frozen while a send is outstanding")

	close(gw.sendGate)
	require.NoError(t, <-done)
}
