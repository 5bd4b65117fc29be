// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package supabase is a minimal client for the parts of a Supabase project the
// setup commands touch: the PostgREST root, exact row counts, GoTrue sign-up
// and the user_roles upsert.
package supabase

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	apperr "basesetup/cli/internal/errors"
)

// DefaultTimeout bounds every request when no option overrides it.
const DefaultTimeout = 10 * time.Second

// endpointPaths holds the URL paths relative to the project URL.
type endpointPaths struct {
	RestRoot string
	SignUp   string
}

// defaultEndpoints are the paths every hosted project exposes.
var defaultEndpoints = endpointPaths{
	RestRoot: "/rest/v1/",
	SignUp:   "/auth/v1/signup",
}

// Client talks to one Supabase project using its publishable (anon) key.
type Client struct {
	// baseURL is the project URL without a trailing slash
	baseURL string
	// apiKey is sent as apikey and, without a session, as the bearer token
	apiKey    string
	endpoints endpointPaths
	client    *http.Client
	log       *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithLogger attaches a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the project at baseURL.
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:    apiKey,
		endpoints: defaultEndpoints,
		client:    &http.Client{Timeout: DefaultTimeout},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) setStandardHeaders(req *http.Request, bearer string) {
	if bearer == "" {
		bearer = c.apiKey
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}

// do sends req and logs the exchange. Transport failures come back as
// Network errors; HTTP error statuses are left to the caller.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, apperr.Wrap(apperr.Network, req.Method+" "+req.URL.Path, err)
	}
	c.log.Debug("request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

// Ping issues one GET against the REST root and returns the HTTP status.
// Any status means the request reached the service; only transport
// failures return an error.
func (c *Client) Ping(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.endpoints.RestRoot, nil)
	if err != nil {
		return 0, err
	}
	c.setStandardHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
