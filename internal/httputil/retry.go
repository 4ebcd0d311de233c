// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the retrying HTTP client used to fetch source
// corpora.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/pdiddy/tourism-qa/internal/logging"
	"github.com/pdiddy/tourism-qa/pkg/types"
)

// RetryBaseDelay is the first backoff wait; it doubles on every retry.
// Tests override it to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const (
	defaultMaxRetries = 5
	defaultTimeout    = 60 * time.Second
	defaultUserAgent  = "tourism-qa/0.1"

	// maxRetryAfter caps a server-provided Retry-After wait and the
	// exponential schedule.
	maxRetryAfter = 2 * time.Minute
)

// Client wraps http.Client with retries on 429 and 503 responses.
type Client struct {
	http       *http.Client
	userAgent  string
	maxRetries int
	logger     *zap.Logger
}

// NewClient returns a Client configured from cfg.
func NewClient(cfg types.HTTPConfig, logger *zap.Logger) *Client {
	c := &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
		logger:     logging.OrNop(logger),
	}
	if c.http.Timeout <= 0 {
		c.http.Timeout = defaultTimeout
	}
	if c.userAgent == "" {
		c.userAgent = defaultUserAgent
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	return c
}

// WithHTTPClient replaces the underlying transport client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// Do executes req and retries retryable statuses with exponential backoff
// (RetryBaseDelay, doubling each attempt, capped at two minutes). A
// Retry-After header in seconds overrides the computed wait. When the
// context is cancelled during a wait Do returns ctx.Err(). After exhausting retries the last response is
// returned so the caller can inspect it.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	schedule := newSchedule(c.maxRetries)
	for attempt := 1; ; attempt++ {
		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			return resp, nil
		}
		wait = retryAfter(resp.Header.Get("Retry-After"), wait)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		c.logger.Warn("retrying request",
			zap.String("url", req.URL.String()),
			zap.Int("status", resp.StatusCode),
			zap.Duration("wait", wait),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", c.maxRetries),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// newSchedule returns a deterministic doubling schedule starting at
// RetryBaseDelay that stops after maxRetries waits.
func newSchedule(maxRetries int) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = RetryBaseDelay
	exp.RandomizationFactor = 0
	exp.Multiplier = 2
	exp.MaxInterval = maxRetryAfter
	exp.MaxElapsedTime = 0
	exp.Reset()
	return backoff.WithMaxRetries(exp, uint64(maxRetries))
}

// retryAfter returns the Retry-After header in seconds, capped, or
// fallback when the header is absent or not an integer.
func retryAfter(header string, fallback time.Duration) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return fallback
}

// Get fetches url and returns the body. Non-2xx responses are errors.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}
