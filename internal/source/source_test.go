// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/postsmith/internal/httputil"
	"github.com/pdiddy/postsmith/pkg/types"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

// stubProvider returns a fixed body or error.
type stubProvider struct {
	name  string
	body  string
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Body(context.Context, Request) (string, error) {
	s.calls++
	return s.body, s.err
}

func TestResolve(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		providers    []Provider
		required     bool
		fallback     string
		wantKind     types.SourceKind
		wantBody     string
		wantProvider string
		wantErr      bool
	}{
		{
			name:         "no providers uses template",
			fallback:     "Intro\ntext",
			wantKind:     types.SourceFallback,
			wantBody:     "Intro\ntext",
			wantProvider: TemplateProvider,
		},
		{
			name:         "provider succeeds",
			providers:    []Provider{&stubProvider{name: "remote", body: "Remote body"}},
			fallback:     "template",
			wantKind:     types.SourceOK,
			wantBody:     "Remote body",
			wantProvider: "remote",
		},
		{
			name: "second provider succeeds after first fails",
			providers: []Provider{
				&stubProvider{name: "a", err: boom},
				&stubProvider{name: "b", body: "from b"},
			},
			fallback:     "template",
			wantKind:     types.SourceOK,
			wantBody:     "from b",
			wantProvider: "b",
		},
		{
			name:         "failure falls back to template",
			providers:    []Provider{&stubProvider{name: "remote", err: boom}},
			fallback:     "template",
			wantKind:     types.SourceFallback,
			wantBody:     "template",
			wantProvider: TemplateProvider,
			wantErr:      true,
		},
		{
			name:         "empty provider body counts as failure",
			providers:    []Provider{&stubProvider{name: "remote", body: "  \n"}},
			fallback:     "template",
			wantKind:     types.SourceFallback,
			wantBody:     "template",
			wantProvider: TemplateProvider,
			wantErr:      true,
		},
		{
			name:      "required provider failure is fatal",
			providers: []Provider{&stubProvider{name: "remote", err: boom}},
			required:  true,
			fallback:  "template",
			wantKind:  types.SourceFailed,
			wantErr:   true,
		},
		{
			name:     "empty template without providers fails",
			fallback: " ",
			wantKind: types.SourceFailed,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Chain{Providers: tt.providers, Required: tt.required}
			out := c.Resolve(context.Background(), Request{Category: "SEO", Title: "t"}, tt.fallback)

			assert.Equal(t, tt.wantKind, out.Kind)
			assert.Equal(t, tt.wantBody, out.Body)
			assert.Equal(t, tt.wantProvider, out.Provider)
			if tt.wantErr {
				assert.Error(t, out.Err)
			} else {
				assert.NoError(t, out.Err)
			}
		})
	}
}

func TestResolveWrapsProviderError(t *testing.T) {
	boom := errors.New("boom")
	out := Chain{Providers: []Provider{&stubProvider{name: "remote", err: boom}}}.
		Resolve(context.Background(), Request{}, "template")
	assert.ErrorIs(t, out.Err, boom)
	assert.Contains(t, out.Err.Error(), "remote")
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &stubProvider{name: "remote", body: "x"}

	out := Chain{Providers: []Provider{p}}.Resolve(ctx, Request{}, "template")
	assert.Equal(t, types.SourceFailed, out.Kind)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Zero(t, p.calls)
}

func newRemote(url string) *Remote {
	return NewRemote(types.RemoteConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "postsmith-test"},
		Endpoint:   url,
		APIKey:     "tk_test",
		MaxRetries: 2,
	}, nil)
}

func TestRemoteBody(t *testing.T) {
	var got Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "postsmith-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"content": "Intro\nQuality wins.\n\nTips\nWrite often."})
	}))
	defer ts.Close()

	body, err := newRemote(ts.URL).Body(context.Background(), Request{Category: "SEO", Title: "SEO Guide", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Intro\nQuality wins.\n\nTips\nWrite often.", body)
	assert.Equal(t, Request{Category: "SEO", Title: "SEO Guide", Language: "en"}, got)
}

func TestRemoteConvertsHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"content": "<h2>Intro</h2><p>Quality <strong>wins</strong>.</p><h2>Tips</h2><p>Write often.</p>",
		})
	}))
	defer ts.Close()

	body, err := newRemote(ts.URL).Body(context.Background(), Request{Category: "SEO"})
	require.NoError(t, err)
	assert.NotContains(t, body, "<p>")
	assert.NotContains(t, body, "#")
	assert.Contains(t, body, "Intro")
	assert.Contains(t, body, "**wins**")
	assert.Contains(t, body, "Write often.")
}

func TestRemoteHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := newRemote(ts.URL).Body(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
}

func TestRemoteRateLimitedThenOK(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"content": "Body"})
	}))
	defer ts.Close()

	body, err := newRemote(ts.URL).Body(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "Body", body)
	assert.Equal(t, 2, calls)
}

func TestRemoteBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := newRemote(ts.URL).Body(context.Background(), Request{})
	assert.Error(t, err)
}

func TestRemoteInChainFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	out := Chain{Providers: []Provider{newRemote(ts.URL)}}.Resolve(context.Background(), Request{}, "Template body")
	assert.Equal(t, types.SourceFallback, out.Kind)
	assert.Equal(t, "Template body", out.Body)
	assert.Contains(t, out.Err.Error(), "HTTP 500")
}

func TestPlainHeadings(t *testing.T) {
	in := "## Intro\n\nQuality wins.\n\n### Tips\n\n\n- One\n- Two"
	assert.Equal(t, "Intro\nQuality wins.\n\nTips\n- One\n- Two", plainHeadings(in))
}
