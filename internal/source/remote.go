// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/postsmith/internal/httputil"
	"github.com/pdiddy/postsmith/pkg/types"
)

// maxResponseBytes bounds the size of a remote response.
const maxResponseBytes = 1 << 20

var htmlPattern = regexp.MustCompile(`(?i)<(p|div|h[1-6]|ul|ol|li|br|strong|em|article|section)\b`)

var (
	headingGap   = regexp.MustCompile(`(?m)^(#{1,6}[ \t]+[^\n]*)\n\n+`)
	headingMarks = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
)

// remoteResponse is the JSON answer of the text endpoint.
type remoteResponse struct {
	Content string `json:"content"`
}

// Remote fetches bodies from an HTTP text endpoint. The request is a JSON
// POST of Request; the answer is {"content": "..."} with plain text,
// Markdown or HTML content.
type Remote struct {
	cfg       types.RemoteConfig
	client    *http.Client
	converter *md.Converter
	log       io.Writer
}

// NewRemote returns a Remote for cfg. Retry notices go to log.
func NewRemote(cfg types.RemoteConfig, log io.Writer) *Remote {
	return &Remote{
		cfg:       cfg,
		client:    httputil.NewClient(cfg.HTTPConfig),
		converter: md.NewConverter("", true, nil),
		log:       log,
	}
}

// Name implements Provider.
func (r *Remote) Name() string { return "remote" }

// Body implements Provider.
func (r *Remote) Body(ctx context.Context, req Request) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", httputil.UserAgent(r.cfg.HTTPConfig))
	if r.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, r.client, httpReq, r.cfg.MaxRetries, r.log)
	if err != nil {
		return "", fmt.Errorf("text API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text API returned HTTP %d", resp.StatusCode)
	}

	var out remoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("parsing text API response: %w", err)
	}

	content := strings.TrimSpace(out.Content)
	if htmlPattern.MatchString(content) {
		converted, err := r.converter.ConvertString(content)
		if err != nil {
			return "", fmt.Errorf("converting HTML to markdown: %w", err)
		}
		content = converted
	}
	return plainHeadings(content), nil
}

// plainHeadings keeps Markdown headings attached to the text below them and
// drops their # marks, so each heading starts a body segment.
func plainHeadings(s string) string {
	s = headingGap.ReplaceAllString(s, "${1}\n")
	return headingMarks.ReplaceAllString(s, "")
}
