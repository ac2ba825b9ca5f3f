// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gateway provides the HTTP client for the parley chat backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/morganforge/parley/internal/mode"
	"github.com/morganforge/parley/internal/model"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from a backend request.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnreachable
	ErrTypeTimeout
	ErrTypeNotFound
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable          = &ClientError{Type: ErrTypeUnreachable, Message: "chat backend is unreachable"}
	ErrTimeout              = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrConversationNotFound = &ClientError{Type: ErrTypeNotFound, Message: "conversation not found"}
)

// IsUnreachable checks if an error indicates the backend could not be reached.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable
	}
	return false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsNetworkError checks if an error means the backend never answered,
// whether by connection failure or timeout.
func IsNetworkError(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeUnreachable || clientErr.Type == ErrTypeTimeout
	}
	return false
}

// IsNotFound checks if an error is a missing-conversation error.
func IsNotFound(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeNotFound
	}
	return false
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8787)
	BaseURL string

	// Timeout for list/fetch/clear requests (default: 15s)
	Timeout time.Duration

	// SendTimeout for send requests, which block until the assistant reply
	// is generated (default: 120s)
	SendTimeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 5)
	RequestsPerSecond float64

	// Burst is the limiter burst size (default: 5)
	Burst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:           "http://127.0.0.1:8787",
		Timeout:           15 * time.Second,
		SendTimeout:       120 * time.Second,
		RequestsPerSecond: 5,
		Burst:             5,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client performs the four conversation operations against the backend.
// Each call is a single round trip that either returns a typed payload or
// fails with a ClientError; there is no retry or caching at this layer.
//
// The Client is safe for concurrent use.
type Client struct {
	config     *ClientConfig
	httpClient *http.Client
	sendClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8787"
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	if config.SendTimeout == 0 {
		config.SendTimeout = 120 * time.Second
	}
	if config.RequestsPerSecond == 0 {
		config.RequestsPerSecond = 5
	}
	if config.Burst == 0 {
		config.Burst = 5
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		sendClient: &http.Client{Timeout: config.SendTimeout},
		limiter:    rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// GetConfig returns the client configuration.
func (c *Client) GetConfig() *ClientConfig {
	return c.config
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckReachable verifies that the backend answers at all.
func (c *Client) CheckReachable(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "unexpected status from backend: " + resp.Status,
		}
	}

	return nil
}

// =============================================================================
// CONVERSATION OPERATIONS
// =============================================================================

// createConversationRequest is the POST /conversations payload.
type createConversationRequest struct {
	Mode  string `json:"mode"`
	Title string `json:"title"`
}

// CreateConversation creates a new conversation with the given mode and
// title. When title is empty, a default of "<mode label> - <local date>" is
// composed so the conversation list is never unlabeled.
func (c *Client) CreateConversation(ctx context.Context, m mode.Mode, title string) (*model.Conversation, error) {
	if title == "" {
		title = DefaultTitle("", m)
	}

	body, err := json.Marshal(createConversationRequest{Mode: m.String(), Title: title})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/conversations", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var conv model.Conversation
	if err := c.do(c.httpClient, req, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversations retrieves all conversations. The order is defined by the
// backend and passed through untouched.
func (c *Client) ListConversations(ctx context.Context) ([]model.Conversation, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/conversations", nil)
	if err != nil {
		return nil, err
	}

	var conversations []model.Conversation
	if err := c.do(c.httpClient, req, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// GetMessages retrieves the chronological message list for a conversation.
func (c *Client) GetMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/messages/"+url.PathEscape(conversationID), nil)
	if err != nil {
		return nil, err
	}

	var messages []model.Message
	if err := c.do(c.httpClient, req, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// sendMessageRequest is the POST /chat/{id} payload.
type sendMessageRequest struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// SendMessage submits user content and blocks until the backend has
// persisted the user message and generated the assistant reply. There is no
// partial or streaming result; the whole pair arrives together.
func (c *Client) SendMessage(ctx context.Context, conversationID, content string, m mode.Mode) (*model.ChatExchange, error) {
	body, err := json.Marshal(sendMessageRequest{Content: content, Role: model.RoleUser.String()})
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	path := "/chat/" + url.PathEscape(conversationID) + "?mode=" + url.QueryEscape(m.String())
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var exchange model.ChatExchange
	if err := c.do(c.sendClient, req, &exchange); err != nil {
		return nil, err
	}
	return &exchange, nil
}

// ClearConversation deletes all messages of a conversation. The operation is
// terminal for the identifier.
func (c *Client) ClearConversation(ctx context.Context, conversationID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/conversation/"+url.PathEscape(conversationID), nil)
	if err != nil {
		return err
	}
	return c.do(c.httpClient, req, nil)
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// newRequest builds a request against the backend with a fresh request ID,
// waiting on the rate limiter first.
func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "request aborted", Cause: err}
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, nil)
	}
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnreachable, Message: "failed to create request", Cause: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// backendError is the error payload the backend returns on failure.
type backendError struct {
	Error string `json:"error"`
}

// do executes the request and decodes the JSON response into out (skipped
// when out is nil). Transport failures and non-2xx responses both surface as
// ClientError.
func (c *Client) do(httpClient *http.Client, req *http.Request, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrConversationNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var backendErr backendError
		if err := json.NewDecoder(resp.Body).Decode(&backendErr); err == nil && backendErr.Error != "" {
			return &ClientError{Type: ErrTypeInvalidResponse, Message: backendErr.Error}
		}
		return &ClientError{
			Type:    ErrTypeInvalidResponse,
			Message: "request failed: " + resp.Status,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}
