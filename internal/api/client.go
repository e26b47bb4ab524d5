// Package api is the client for the mulberry leaf inference service.
//
// A Client is built once from a Config and is safe for concurrent use: it
// holds no mutable state after New returns. Every operation is bounded by the
// client timeout and by the caller's context, and every failure is returned
// as an *Error whose Kind is Transport, Protocol or Schema. The client never
// retries.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mulberryleaf/mulberry-cli/internal/config"
)

const (
	pathHealth  = "/health"
	pathQuality = "/predict/leaf-quality"
	pathYield   = "/predict/yield"

	headerRequestID = "X-Request-ID"
)

// Config is the endpoint configuration for a Client.
type Config struct {
	// BaseURL is the service root. Empty means config.FallbackBaseURL.
	BaseURL string
	// Timeout bounds each request end to end. Zero means config.DefaultTimeout.
	Timeout time.Duration
	// Transport is the underlying round tripper (default http.DefaultTransport).
	Transport http.RoundTripper
}

// Client issues the health, leaf-quality and yield calls.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// jsonTransport fills in the default Accept and Content-Type headers on every
// request that does not set its own.
type jsonTransport struct {
	base http.RoundTripper
}

func (t *jsonTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept") == "" || req.Header.Get("Content-Type") == "" {
		req = req.Clone(req.Context())
		if req.Header.Get("Accept") == "" {
			req.Header.Set("Accept", "application/json")
		}
		if req.Header.Get("Content-Type") == "" {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates an *http.Client configured for the inference service.
// timeout is the per-request deadline; base defaults to http.DefaultTransport.
func NewHTTPClient(timeout time.Duration, base http.RoundTripper) *http.Client {
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{Timeout: timeout, Transport: &jsonTransport{base: base}}
}

// New resolves cfg into a ready Client.
func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = config.FallbackBaseURL
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	return &Client{
		baseURL: u,
		http:    NewHTTPClient(timeout, cfg.Transport),
	}, nil
}

// BaseURL returns the resolved service root.
func (c *Client) BaseURL() string { return c.baseURL.String() }

// Timeout returns the per-request deadline.
func (c *Client) Timeout() time.Duration { return c.http.Timeout }

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(headerRequestID, uuid.NewString())
	return req, nil
}

// do sends req and returns the full body of a 2xx response.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()
	rid := req.Header.Get(headerRequestID)
	logf(op, "%s %s id=%s", req.Method, req.URL.Path, rid)

	resp, err := c.http.Do(req)
	if err != nil {
		logf(op, "id=%s failed after %s: %v", rid, time.Since(start).Round(time.Millisecond), err)
		return nil, transportErr(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		logf(op, "id=%s read body: %v", rid, err)
		return nil, transportErr(op, fmt.Errorf("read response body: %w", err))
	}
	logf(op, "id=%s status=%d took=%s", rid, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, protocolErr(op, resp, body)
	}
	return body, nil
}
