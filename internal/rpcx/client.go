package rpcx

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
	"sync/atomic"
	"time"
)

// RetryPolicy controls the retry behaviour for transient failures.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     float64
}

// DefaultRetryPolicy implements a conservative retry strategy for reads.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	BaseDelay:  250 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Jitter:     0.25,
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for transport.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithHeaders assigns default headers added to every request.
func WithHeaders(h http.Header) Option {
	return func(c *Client) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithRetryPolicy overrides the default retry configuration.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// Client speaks JSON-RPC 2.0 over HTTP POST against a single endpoint. The
// underlying connection is borrowed: the Client never owns its lifecycle
// beyond the default http.Client it constructs when none is supplied.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	headers     http.Header
	retryPolicy RetryPolicy
	nextID      atomic.Uint64
}

// NewClient creates a Client for the provided endpoint URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("rpcx: endpoint URL is required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("rpcx: invalid endpoint URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("rpcx: unsupported URL scheme %q", parsed.Scheme)
	}

	c := &Client{
		endpoint: parsed.String(),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		headers:     make(http.Header),
		retryPolicy: DefaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.retryPolicy.MaxRetries < 0 {
		c.retryPolicy.MaxRetries = 0
	}
	if c.retryPolicy.BaseDelay <= 0 {
		c.retryPolicy.BaseDelay = DefaultRetryPolicy.BaseDelay
	}
	if c.retryPolicy.MaxDelay <= 0 {
		c.retryPolicy.MaxDelay = DefaultRetryPolicy.MaxDelay
	}
	return c, nil
}

type requestEnvelope struct {
	Version string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type responseEnvelope struct {
	Version string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Call invokes a remote method and decodes the result into out (which may be
// nil when the caller only cares about success). Transient HTTP failures are
// retried per the client policy; remote method errors (RPCError) are never
// retried, they represent a rejection, not a transport fault.
func (c *Client) Call(ctx context.Context, method string, params any, out any) error {
	return c.call(ctx, method, params, out, true)
}

// CallOnce is Call without retries. The write path uses it: a submitted
// mutation must settle exactly once.
func (c *Client) CallOnce(ctx context.Context, method string, params any, out any) error {
	return c.call(ctx, method, params, out, false)
}

func (c *Client) call(ctx context.Context, method string, params any, out any, retry bool) error {
	if c == nil {
		return errors.New("rpcx: client is nil")
	}
	if strings.TrimSpace(method) == "" {
		return errors.New("rpcx: method is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	body, err := encodeJSON(requestEnvelope{
		Version: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("rpcx: encode request: %w", err)
	}

	maxAttempts := 1
	if retry {
		maxAttempts = c.retryPolicy.MaxRetries + 1
	}
	backoff := NewBackoff(c.retryPolicy.BaseDelay, c.retryPolicy.MaxDelay, c.retryPolicy.Jitter)

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, backoff.ForAttempt(attempt-1)); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := c.roundTrip(ctx, body)
		if err != nil {
			lastErr = err
			if retryable(err) {
				continue
			}
			return err
		}
		return decodeEnvelope(raw, out)
	}
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header = c.headers.Clone()
	if httpReq.Header == nil {
		httpReq.Header = make(http.Header)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rpcx: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       data,
			Header:     resp.Header.Clone(),
		}
	}
	return data, nil
}

// decodeEnvelope unwraps a JSON-RPC response body, surfacing the remote error
// when present and decoding the result into out otherwise.
func decodeEnvelope(body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return errors.New("rpcx: empty response body")
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return fmt.Errorf("rpcx: decode response envelope: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out == nil {
		return nil
	}
	result := envelope.Result
	if len(result) == 0 {
		result = []byte("null")
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("rpcx: decode result: %w", err)
	}
	return nil
}

func retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return false
	}
	// Remaining cases are transport-level (dial, reset, timeout).
	return true
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func encodeJSON(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
