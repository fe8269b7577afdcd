package httpapi

// Package httpapi provides the network adapters for the AlgExpress backend:
// a generic JSON request client with bearer-token injection, and the remote
// authentication gateway built on top of it.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/algexpress/algexpress-admin/internal/domain/auth"
)

// TokenSource supplies the current bearer token for outgoing requests.
// An empty string means no credential is attached.
type TokenSource interface {
	Token() string
}

// Config holds configuration for the request client.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL string

	// Timeout bounds each request. Default 10s.
	Timeout time.Duration

	// Tokens optionally supplies bearer tokens for every request.
	Tokens TokenSource

	// Client overrides the underlying HTTP client. Optional.
	Client *http.Client
}

// Client is a JSON request client for the AlgExpress backend. When a
// TokenSource is configured, every request carries its token in the
// Authorization header.
type Client struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api responded %d: %s", e.StatusCode, e.Body)
}

// NewClient builds a request client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: baseURL,
		tokens:  cfg.Tokens,
		client:  hc,
	}, nil
}

// SetTokenSource installs ts as the bearer source for subsequent requests.
// It breaks the construction cycle between the client and the session store
// that feeds it tokens; call it during wiring, before the client is shared.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// Do performs a JSON request against path, injecting the TokenSource token
// when one is available, and decodes a 2xx response body into out (ignored
// when out is nil). Transport failures are reported as
// domainauth.ErrGatewayUnreachable; non-2xx responses as *APIError.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	token := ""
	if c.tokens != nil {
		token = c.tokens.Token()
	}
	return c.do(ctx, method, path, token, body, out)
}

// DoWithToken is Do with an explicit bearer token, bypassing the TokenSource.
// Used by auth flows that operate on a token not yet (or no longer) current.
func (c *Client) DoWithToken(ctx context.Context, method, path, token string, body, out interface{}) error {
	return c.do(ctx, method, path, token, body, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domainauth.ErrGatewayUnreachable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read path

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read keeps error payloads from ballooning log lines.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("decode response body: %w", decodeErr)
	}
	return nil
}
