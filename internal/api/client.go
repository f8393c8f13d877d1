// Package api is the single transport to the finance backend. It issues one
// request per call and leaves response shape handling to Normalize.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Client performs requests against a configured base address
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent on requests that include credentials
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets a client-side timeout. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new Client for the given base address
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request
func (c *Client) Get(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts)
}

// Post issues a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body any, opts Options) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts)
}

// Put issues a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body any, opts Options) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts)
}

// Patch issues a PATCH request with a JSON body
func (c *Client) Patch(ctx context.Context, path string, body any, opts Options) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts)
}

// Delete issues a DELETE request
func (c *Client) Delete(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, opts)
}

// Do performs exactly one request and returns the raw response body.
// Any non-2xx status or transport failure is returned as *HTTPError.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts Options) (json.RawMessage, error) {
	cfg := opts.merge()
	endpoint := c.url(path)
	if len(cfg.Query) > 0 {
		endpoint += "?" + cfg.Query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range cfg.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if cfg.WithCredentials && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.Debug().
		Str("method", method).
		Str("url", endpoint).
		Bool("with_credentials", cfg.WithCredentials).
		Msg("Backend request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", method).Str("url", endpoint).Msg("Backend request failed")
		return nil, &HTTPError{Method: method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &HTTPError{Method: method, URL: endpoint, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().
			Str("method", method).
			Str("url", endpoint).
			Int("status", resp.StatusCode).
			Msg("Backend returned error status")
		return nil, &HTTPError{Method: method, URL: endpoint, Status: resp.StatusCode, Body: raw}
	}

	return json.RawMessage(raw), nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
