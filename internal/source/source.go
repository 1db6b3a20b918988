// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source resolves the body text of an article. Configured providers
// are tried in order; when all of them fail the catalog template body is
// used, and the result records which path was taken.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/postsmith/pkg/types"
)

// ErrEmptyBody is returned by providers that answer without content.
var ErrEmptyBody = errors.New("provider returned an empty body")

// Request describes the article a body is wanted for.
type Request struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Language string `json:"language,omitempty"`
}

// Provider produces article body text.
type Provider interface {
	Name() string
	Body(ctx context.Context, req Request) (string, error)
}

// Outcome is the result of resolving a body.
type Outcome struct {
	// Kind is ok when a provider supplied the body, fallback when the
	// template body was used, and failed when no body may be used.
	Kind types.SourceKind

	// Body is the text to assemble. Empty when Kind is failed.
	Body string

	// Provider names the provider that supplied Body, or "template".
	Provider string

	// Err holds the last provider error, if any.
	Err error
}

// TemplateProvider is the Provider name recorded for template bodies.
const TemplateProvider = "template"

// Chain tries Providers in order.
type Chain struct {
	Providers []Provider

	// Required makes a provider failure fatal instead of falling back.
	Required bool
}

// Resolve returns the first non-empty provider body. Without providers,
// or when all of them fail and Required is false, fallback is used. The
// outcome is failed when Required is set and no provider succeeded, or
// when fallback is empty.
func (c Chain) Resolve(ctx context.Context, req Request, fallback string) Outcome {
	var last error
	for _, p := range c.Providers {
		if err := ctx.Err(); err != nil {
			return Outcome{Kind: types.SourceFailed, Err: err}
		}
		body, err := p.Body(ctx, req)
		if err == nil && strings.TrimSpace(body) == "" {
			err = ErrEmptyBody
		}
		if err != nil {
			last = fmt.Errorf("%s: %w", p.Name(), err)
			continue
		}
		return Outcome{Kind: types.SourceOK, Body: body, Provider: p.Name()}
	}

	if last != nil && c.Required {
		return Outcome{Kind: types.SourceFailed, Err: last}
	}
	if strings.TrimSpace(fallback) == "" {
		if last == nil {
			last = errors.New("template body is empty")
		}
		return Outcome{Kind: types.SourceFailed, Err: last}
	}
	return Outcome{Kind: types.SourceFallback, Body: fallback, Provider: TemplateProvider, Err: last}
}
