// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/postsmith/pkg/types"
)

func init() {
	RetryBaseDelay = time.Millisecond
}

// statusSequence serves the given codes in order, repeating the last one.
func statusSequence(t *testing.T, calls *int32, codes ...int) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(atomic.AddInt32(calls, 1))
		if n > len(codes) {
			n = len(codes)
		}
		w.WriteHeader(codes[n-1])
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestDoWithRetry(t *testing.T) {
	tests := []struct {
		name       string
		codes      []int
		maxRetries int
		wantStatus int
		wantCalls  int32
	}{
		{"immediate success", []int{200}, 3, 200, 1},
		{"429 then success", []int{429, 429, 200}, 3, 200, 3},
		{"503 then success", []int{503, 200}, 3, 200, 2},
		{"exhausts retries", []int{429}, 2, 429, 3},
		{"default retries", []int{429}, 0, 429, 4},
		{"server error passes through", []int{500}, 3, 500, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			ts := statusSequence(t, &calls, tt.codes...)

			req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
			require.NoError(t, err)

			resp, err := DoWithRetry(context.Background(), ts.Client(), req, tt.maxRetries, nil)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestDoWithRetryResendsBody(t *testing.T) {
	var calls int32
	var bodies []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL, strings.NewReader(`{"title":"x"}`))
	require.NoError(t, err)

	var log bytes.Buffer
	resp, err := DoWithRetry(context.Background(), ts.Client(), req, 3, &log)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, []string{`{"title":"x"}`, `{"title":"x"}`}, bodies)
	assert.Contains(t, log.String(), "HTTP 429")
	assert.Contains(t, log.String(), "attempt 1/3")
}

func TestDoWithRetryContextCancelled(t *testing.T) {
	var calls int32
	ts := statusSequence(t, &calls, http.StatusTooManyRequests)

	old := RetryBaseDelay
	RetryBaseDelay = 500 * time.Millisecond
	defer func() { RetryBaseDelay = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequest(http.MethodGet, ts.URL, nil)
	require.NoError(t, err)

	_, err = DoWithRetry(ctx, ts.Client(), req, 3, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryAfter(t *testing.T) {
	d, ok := retryAfter("2")
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, d)

	d, ok = retryAfter("100000")
	assert.True(t, ok)
	assert.Equal(t, MaxRetryAfter, d)

	_, ok = retryAfter("Wed, 21 Oct 2015 07:28:00 GMT")
	assert.False(t, ok)
	_, ok = retryAfter("")
	assert.False(t, ok)
}

func TestClientDefaults(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(types.HTTPConfig{}).Timeout)
	assert.Equal(t, 5*time.Second, NewClient(types.HTTPConfig{Timeout: 5 * time.Second}).Timeout)
	assert.Equal(t, DefaultUserAgent, UserAgent(types.HTTPConfig{}))
	assert.Equal(t, "bot/1", UserAgent(types.HTTPConfig{UserAgent: "bot/1"}))
}
