// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the parley chat backend.
//
// Every operation is a single request/response round trip: create a
// conversation, list conversations, fetch a conversation's messages, send a
// message (which returns the persisted user/assistant pair together), and
// clear a conversation. The gateway performs no retries and keeps no cache;
// failure handling belongs to the caller.
//
// Errors are typed ClientError values. Transport failures map to
// ErrUnreachable or ErrTimeout, a 404 maps to ErrConversationNotFound, and
// any other non-2xx response surfaces the backend's error message when one
// is present.
//
// Example:
//
//	client := gateway.NewClient()
//	conv, err := client.CreateConversation(ctx, mode.Study, "")
//	if err != nil {
//	    // handle
//	}
//	exchange, err := client.SendMessage(ctx, conv.ID, "Explain entropy", mode.Study)
package gateway
