// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose normalizes article titles so that every emitted title
// reads as a search-oriented content-marketing headline.
package compose

import (
	"regexp"
	"strings"

	"github.com/pdiddy/postsmith/internal/random"
)

// DefaultMarkers are the lower-case substrings that mark a title as already
// search-oriented.
var DefaultMarkers = []string{"guide", "checklist", "proven", "ultimate"}

// DefaultPhrases are the power phrases prepended to plain titles.
var DefaultPhrases = []string{"Ultimate Guide:", "How to", "Top Tips:", "Proven:"}

// yearPattern matches a 4-digit year fragment (1900-2099).
var yearPattern = regexp.MustCompile(`(?:19|20)\d{2}`)

// Composer holds the marker and phrase sets. The zero value is not usable;
// call New.
type Composer struct {
	markers []string
	phrases []string
}

// New returns a Composer. Nil or empty slices select the defaults.
func New(markers, phrases []string) *Composer {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	c := &Composer{phrases: append([]string(nil), phrases...)}
	for _, m := range markers {
		c.markers = append(c.markers, strings.ToLower(m))
	}
	return c
}

// HasMarker reports whether title already contains a marker or a year.
func (c *Composer) HasMarker(title string) bool {
	lowered := strings.ToLower(title)
	for _, m := range c.markers {
		if strings.Contains(lowered, m) {
			return true
		}
	}
	return yearPattern.MatchString(lowered)
}

// Normalize returns title unchanged when it carries a marker; otherwise it
// prepends a power phrase chosen with rng, separated by a space. It draws
// from rng only when a phrase is needed.
func (c *Composer) Normalize(title string, rng random.Source) string {
	if c.HasMarker(title) {
		return title
	}
	return c.phrases[rng.IntN(len(c.phrases))] + " " + title
}
