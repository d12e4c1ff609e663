// Package client talks to the catalog service: products, webhooks, CSV
// upload and import progress. Every call is a single request with no
// retries; failures come back as *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"productdash/internal/platform/config"
)

const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultPageSize = 20
	defaultTimeout  = 30 * time.Second
	maxErrorBody    = 64 << 10
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (timeouts, transport, test doubles).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(cfg config.APIConfig, opts ...Option) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "catalog_client").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(op, method, path string, payload any) (request, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return request{}, &Error{Kind: KindValidation, Op: op, Message: "cannot encode request", Err: err}
	}
	return request{op: op, method: method, path: path, body: bytes.NewReader(b), contentType: "application/json"}, nil
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: req.op, URL: target, Message: "cannot build request", Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.log.Warn().Err(err).Str("op", req.op).Str("method", req.method).Str("path", req.path).Msg("catalog request failed")
		return &Error{Kind: KindNetwork, Op: req.op, URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", req.op).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("catalog request")

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := errorFromResponse(req.op, resp.StatusCode, body)
		apiErr.URL = target
		return apiErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: req.op, URL: target, Status: resp.StatusCode, Message: "cannot read response", Err: err}
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindDecode, Op: req.op, URL: target, Status: resp.StatusCode, Message: "unexpected response body", Err: err}
	}
	return nil
}

func idPath(prefix string, id int64, suffix ...string) string {
	p := fmt.Sprintf("%s/%d", prefix, id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
