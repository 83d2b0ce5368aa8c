// Package httprpc implements the networked transport: a single JSON POST per command
// against the server's RPC endpoint.
package httprpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/hostbridge/pkg/domain"
	"github.com/aretw0/hostbridge/pkg/ports"
	"github.com/google/uuid"
)

const (
	// RPCPath is appended to the API base URL.
	RPCPath = "/rpc"

	// RequestIDHeader carries a per-call correlation ID.
	RequestIDHeader = "X-Request-ID"

	// maxResponseBytes bounds the size of a decoded response body (64 MB).
	maxResponseBytes = 64 << 20
)

var _ ports.Transport = (*Client)(nil)

// Client posts {cmd, args} to <base>/rpc. It holds no retry or connection state of its
// own beyond the shared *http.Client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
}

// Option configures a Client during construction.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// NewClient creates a client for the API rooted at baseURL (e.g. "http://localhost:3000/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + RPCPath,
		httpClient: http.DefaultClient,
		userAgent:  "hostbridge",
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the full RPC URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Call issues one request and returns the decoded body without interpreting it.
// A non-2xx status is a transport error regardless of the body.
func (c *Client) Call(ctx context.Context, cmd string, args map[string]any) (any, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(domain.Request{Cmd: cmd, Args: args})
	if err != nil {
		return nil, domain.NewProtocolError(cmd, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewTransportError(cmd, 0, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("RPC request failed", "cmd", cmd, "request_id", reqID, "error", err)
		return nil, domain.NewTransportError(cmd, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		c.logger.Debug("RPC returned non-2xx", "cmd", cmd, "request_id", reqID, "status", resp.StatusCode)
		return nil, domain.NewTransportError(cmd, resp.StatusCode, nil)
	}

	var raw any
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&raw); err != nil {
		return nil, domain.NewProtocolError(cmd, err)
	}
	return raw, nil
}
