// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package viewcache caches the conversation views fetched from the backend.
package viewcache

import (
	"context"
	"sync"

	"github.com/morganforge/parley/internal/model"
)

// Fetcher is the subset of the gateway the cache reads through on a miss.
type Fetcher interface {
	GetMessages(ctx context.Context, conversationID string) ([]model.Message, error)
	ListConversations(ctx context.Context) ([]model.Conversation, error)
}

// Cache is a read-through cache with explicit invalidation rather than
// time-based expiry: message lists keyed by conversation identifier, plus a
// single entry for the conversation list. Entries are refreshed only when a
// mutation observed by the controller marks them stale, so a cached read
// always reflects the last known server state.
type Cache struct {
	mu sync.Mutex

	fetcher Fetcher

	messages map[string][]model.Message

	conversations     []model.Conversation
	haveConversations bool
}

// New creates an empty cache reading through the given fetcher.
func New(fetcher Fetcher) *Cache {
	return &Cache{
		fetcher:  fetcher,
		messages: make(map[string][]model.Message),
	}
}

// Messages returns the message list for a conversation, fetching from the
// backend on a miss. An empty conversation identifier yields an empty list
// without issuing a request: before the first send there is nothing to fetch.
func (c *Cache) Messages(ctx context.Context, conversationID string) ([]model.Message, error) {
	if conversationID == "" {
		return nil, nil
	}

	c.mu.Lock()
	if cached, ok := c.messages[conversationID]; ok {
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	// Fetch outside the lock; the single-in-flight-send invariant upstream
	// means competing fetches for the same key are rare and harmless.
	fetched, err := c.fetcher.GetMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.messages[conversationID] = fetched
	c.mu.Unlock()
	return fetched, nil
}

// Conversations returns the conversation list, fetching on a miss. The
// backend's ordering is preserved as-is.
func (c *Cache) Conversations(ctx context.Context) ([]model.Conversation, error) {
	c.mu.Lock()
	if c.haveConversations {
		cached := c.conversations
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	fetched, err := c.fetcher.ListConversations(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.conversations = fetched
	c.haveConversations = true
	c.mu.Unlock()
	return fetched, nil
}

// Invalidate marks a conversation's message list stale; the next read
// re-fetches from the backend.
func (c *Cache) Invalidate(conversationID string) {
	c.mu.Lock()
	delete(c.messages, conversationID)
	c.mu.Unlock()
}

// InvalidateConversations marks the conversation list stale.
func (c *Cache) InvalidateConversations() {
	c.mu.Lock()
	c.conversations = nil
	c.haveConversations = false
	c.mu.Unlock()
}

// InvalidateAll drops everything. Used when the backend base URL changes.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.messages = make(map[string][]model.Message)
	c.conversations = nil
	c.haveConversations = false
	c.mu.Unlock()
}
