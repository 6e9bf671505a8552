// Package backend is the authenticated gateway to the car-rental REST backend.
// Every call goes through one http.Client whose transport attaches the
// session's bearer token and reports authorization failures as invalidation
// signals; callers never repeat auth logic.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnauthorized matches every 401 answer. For calls made with a token the
// session has already been reported as invalidated when the caller sees it.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError is a non-2xx or success:false backend answer
type APIError struct {
	Status  int
	Message string
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 answers
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// MessageOf returns the backend's human-readable message carried by err, or
// fallback when there is none.
func MessageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Envelope is the {success, message, data} shape used by all endpoints
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Client talks to the backend on behalf of the session carried by each
// request's context.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	sink    InvalidationSink
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithTransport replaces the base transport under the interceptors
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.Transport = rt
	}
}

// WithInvalidationSink sets the sink used when the request context has none
func WithInvalidationSink(sink InvalidationSink) Option {
	return func(c *Client) {
		c.sink = sink
	}
}

// New creates a backend client for baseURL, e.g. http://localhost:8080/api
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Transport: http.DefaultTransport},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http.Transport = &metricsTransport{
		next: &unauthorizedTransport{
			next:   &bearerTransport{next: c.http.Transport},
			client: c,
		},
	}

	return c, nil
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// WebURL returns the backend's own web root: the base URL without a trailing /api
func (c *Client) WebURL() string {
	return strings.TrimSuffix(c.baseURL.String(), "/api")
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	u.RawPath = ""
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// call performs one request and unwraps the envelope's data into T
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("backend request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure Envelope[json.RawMessage]
		_ = json.Unmarshal(raw, &failure)
		return zero, &APIError{Status: resp.StatusCode, Message: failure.Message}
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return zero, nil
	}

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success {
		return zero, &APIError{Status: resp.StatusCode, Message: env.Message}
	}

	return env.Data, nil
}

// Empty is the data type of endpoints that answer with no payload
type Empty = json.RawMessage
