// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package viewcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/parley/internal/model"
)

// fakeFetcher counts round trips and serves canned responses.
type fakeFetcher struct {
	messages      map[string][]model.Message
	conversations []model.Conversation

	messageCalls int
	listCalls    int
}

func (f *fakeFetcher) GetMessages(_ context.Context, id string) ([]model.Message, error) {
	f.messageCalls++
	return f.messages[id], nil
}

func (f *fakeFetcher) ListConversations(_ context.Context) ([]model.Conversation, error) {
	f.listCalls++
	return f.conversations, nil
}

func TestMessagesEmptySelectionNeverFetches(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := New(fetcher)

	msgs, err := cache.Messages(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Zero(t, fetcher.messageCalls, "no speculative fetch without a selected conversation")
}

func TestMessagesReadThrough(t *testing.T) {
	fetcher := &fakeFetcher{messages: map[string][]model.Message{
		"c1": {{ID: "m1", Role: model.RoleUser, Content: "hi"}},
	}}
	cache := New(fetcher)
	ctx := context.Background()

	first, err := cache.Messages(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Second read is served from cache.
	_, err = cache.Messages(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.messageCalls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	fetcher := &fakeFetcher{messages: map[string][]model.Message{
		"c1": {{ID: "m1", Role: model.RoleUser, Content: "hi"}},
	}}
	cache := New(fetcher)
	ctx := context.Background()

	_, err := cache.Messages(ctx, "c1")
	require.NoError(t, err)

	// The backend appends the exchange pair; invalidation must expose it.
	fetcher.messages["c1"] = append(fetcher.messages["c1"],
		model.Message{ID: "m2", Role: model.RoleUser, Content: "more"},
		model.Message{ID: "m3", Role: model.RoleAssistant, Content: "reply"},
	)
	cache.Invalidate("c1")

	msgs, err := cache.Messages(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, msgs, 3)
	assert.Equal(t, 2, fetcher.messageCalls)
}

func TestClearedConversationReadsEmpty(t *testing.T) {
	fetcher := &fakeFetcher{messages: map[string][]model.Message{
		"c1": {{ID: "m1"}, {ID: "m2"}},
	}}
	cache := New(fetcher)
	ctx := context.Background()

	_, err := cache.Messages(ctx, "c1")
	require.NoError(t, err)

	// Clear on the backend, then invalidate both entries.
	fetcher.messages["c1"] = nil
	cache.Invalidate("c1")
	cache.InvalidateConversations()

	msgs, err := cache.Messages(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, msgs, "post-invalidation re-fetch reflects the deletion")
}

func TestConversationsCachedUntilInvalidated(t *testing.T) {
	fetcher := &fakeFetcher{conversations: []model.Conversation{{ID: "c1"}}}
	cache := New(fetcher)
	ctx := context.Background()

	_, err := cache.Conversations(ctx)
	require.NoError(t, err)
	_, err = cache.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.listCalls)

	cache.InvalidateConversations()
	_, err = cache.Conversations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.listCalls)
}

func TestInvalidateAll(t *testing.T) {
	fetcher := &fakeFetcher{
		messages:      map[string][]model.Message{"c1": {{ID: "m1"}}},
		conversations: []model.Conversation{{ID: "c1"}},
	}
	cache := New(fetcher)
	ctx := context.Background()

	cache.Messages(ctx, "c1")
	cache.Conversations(ctx)
	cache.InvalidateAll()
	cache.Messages(ctx, "c1")
	cache.Conversations(ctx)

	assert.Equal(t, 2, fetcher.messageCalls)
	assert.Equal(t, 2, fetcher.listCalls)
}
