// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client and retry helper used by the
// remote text source.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pdiddy/postsmith/pkg/types"
)

// RetryBaseDelay is the first backoff interval. It doubles on every retry.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// MaxRetryAfter caps a server-provided Retry-After value.
var MaxRetryAfter = time.Minute

const defaultMaxRetries = 3

// DefaultTimeout applies when HTTPConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent applies when HTTPConfig.UserAgent is empty.
const DefaultUserAgent = "postsmith/dev"

// NewClient returns an http.Client honouring cfg.Timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// UserAgent returns cfg.UserAgent or the default.
func UserAgent(cfg types.HTTPConfig) string {
	if cfg.UserAgent == "" {
		return DefaultUserAgent
	}
	return cfg.UserAgent
}

// retryable reports whether the status asks the client to come back later.
func retryable(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
}

// DoWithRetry executes req and retries on HTTP 429 and 503 with exponential
// backoff starting at RetryBaseDelay. A numeric Retry-After header replaces
// the computed delay, capped at MaxRetryAfter.
//
// When maxRetries is 0 the default (3) is used. Each retry is announced on
// log (which may be nil). Cancelling ctx during a wait returns ctx.Err().
// After the last retry the final response is returned unread so the caller
// can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, log io.Writer) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if log == nil {
		log = io.Discard
	}

	for attempt := 0; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}

		resp, err := client.Do(attemptReq)
		if err != nil {
			return nil, err
		}
		if !retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		wait := RetryBaseDelay << attempt
		if d, ok := retryAfter(resp.Header.Get("Retry-After")); ok {
			wait = d
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		fmt.Fprintf(log, "HTTP %d from %s, retrying in %v (attempt %d/%d)\n",
			resp.StatusCode, req.URL.Host, wait, attempt+1, maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// retryAfter parses a Retry-After value given in seconds.
func retryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	d := time.Duration(secs) * time.Second
	if d > MaxRetryAfter {
		d = MaxRetryAfter
	}
	return d, true
}
