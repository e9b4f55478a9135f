// Copyright (c) 2024-2025 Velora App
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// DefaultTimeout is the default timeout for API requests.
	DefaultTimeout = 15 * time.Second

	// MaxResponseSize caps response bodies; the backend serves small JSON
	// payloads, anything larger indicates a broken endpoint.
	MaxResponseSize = 4 * 1024 * 1024

	userAgent = "velora-tui/1.0"
)

// sharedTransport pools connections across all clients.
var sharedTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
	TLSHandshakeTimeout: 10 * time.Second,
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTransport indicates the request never completed (offline, DNS,
	// timeout). The operation is abandoned; the user retries manually.
	ErrTransport = errors.New("cannot reach server")

	// ErrNoResetCredential indicates a forgot-password response carried no
	// reset credential under any known alias. Verification cannot proceed,
	// so this is distinct from a generic send failure.
	ErrNoResetCredential = errors.New("reset credential missing from response")
)

// ServerError is a business-rule rejection: the HTTP exchange succeeded but
// the backend said no (wrong password, expired OTP, duplicate phone).
type ServerError struct {
	Status  int    // HTTP status
	Code    int    // envelope err code
	Message string // server-provided message, may be empty
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server rejected request (HTTP %d, err %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("server rejected request (HTTP %d, err %d)", e.Status, e.Code)
}

// ProtocolError is a contract violation: the call looked successful but a
// field the client depends on is missing or unparseable. Not retried
// automatically.
type ProtocolError struct {
	Endpoint string
	Reason   string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed response from %s: %s", e.Endpoint, e.Reason)
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the storefront backend. The zero value is not usable;
// construct with New.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// authToken is the session bearer token for authenticated endpoints.
	// Auth-flow endpoints that authenticate with the short-lived reset
	// credential pass their own bearer instead.
	authToken string
}

// New creates a client for the given base URL (e.g.
// "https://api.velora.example/api/v1").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Transport: sharedTransport,
			Timeout:   DefaultTimeout,
		},
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client (used by tests).
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.httpClient = h
	return c
}

// SetToken installs the session bearer token used by authenticated
// endpoints. Pass "" to clear it on sign-out.
func (c *Client) SetToken(token string) {
	c.authToken = token
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one HTTP exchange and decodes the envelope. bearer overrides
// the session token when non-empty ("-" suppresses auth entirely).
func (c *Client) do(ctx context.Context, method, path string, body interface{}, bearer string) (int, *Envelope, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	switch {
	case bearer == noAuth:
		// Unauthenticated endpoint.
	case bearer != "":
		req.Header.Set("Authorization", "Bearer "+bearer)
	case c.authToken != "":
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Context cancellation is the caller's doing, not connectivity.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := readResponse(resp)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	// Status and path only; bodies and headers can carry credentials.
	log.Printf("api: %s %s -> %d (%v)", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	return resp.StatusCode, decodeEnvelope(raw), nil
}

// noAuth marks a request that must not carry an Authorization header even
// when a session token is installed.
const noAuth = "-"

// call performs a request and folds non-success envelopes into errors.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, bearer string) (*Envelope, error) {
	status, env, err := c.do(ctx, method, path, body, bearer)
	if err != nil {
		return nil, err
	}
	if env.OK(status) {
		if env.Anomalous() {
			// err != 0 alongside success == true: accepted, but worth a
			// trail for contract tightening.
			log.Printf("api: ambiguous envelope from %s (err=%d, success=true)", path, env.errCode())
		}
		return env, nil
	}
	return env, &ServerError{Status: status, Code: env.errCode(), Message: env.Notice()}
}

// getInto performs a GET and unmarshals the envelope data payload into out.
func (c *Client) getInto(ctx context.Context, path string, out interface{}) error {
	env, err := c.call(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return &ProtocolError{Endpoint: path, Reason: "data payload missing"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ProtocolError{Endpoint: path, Reason: "data payload unparseable: " + err.Error()}
	}
	return nil
}

// readResponse reads the body with a size cap.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return body, nil
}
