package overlay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/example/chatshot/internal/logger"
)

// Fetcher renders overlays for a request. *Client implements it; tests and
// the compositor depend on the interface.
type Fetcher interface {
	Fetch(ctx context.Context, req Request) (Result, error)
}

var _ Fetcher = (*Client)(nil)

const (
	// DefaultEndpoint is used when no rasterizer URL is configured.
	DefaultEndpoint  = "http://127.0.0.1:8787/"
	defaultUserAgent = "chatshot/0.1"
	maxResponseBytes = 64 << 20

	// RequestIDHeader correlates client and rasterizer logs.
	RequestIDHeader = "X-Request-ID"
)

// Client posts render requests to a rasterizer endpoint.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
}

// NewClient builds a Client for endpoint. Bare host:port values are given an
// http scheme.
func NewClient(endpoint string) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	return &Client{
		endpoint:  u,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}, nil
}

// Endpoint returns the rasterizer URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Fetch performs one render exchange. Cancelling ctx aborts the request.
func (c *Client) Fetch(ctx context.Context, req Request) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("client is nil")
	}
	payload, err := json.Marshal(req.Clamp())
	if err != nil {
		return Result{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("create request: %w", err)
	}
	id := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/octet-stream")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, id)

	log := logger.WithField("request_id", id)
	log.Debugf("overlay: POST %s (%d top, %d bottom lines)", c.endpoint, len(req.Top), len(req.Bottom))

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return Result{}, fmt.Errorf("rasterizer returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("read response: %w", err)
	}
	frame, err := ReadFrame(resp.Header.Get(LengthHeader), body)
	if err != nil {
		return Result{}, err
	}
	log.Debugf("overlay: received %d bytes", len(body))
	return frame.Decode(), nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse rasterizer url %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("rasterizer url %q has no host", endpoint)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	return u, nil
}
