// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package slug derives filesystem- and URL-safe identifiers from titles.
package slug

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/postsmith/internal/random"
)

// MaxBase is the maximum length of the title-derived part of a slug.
const MaxBase = 60

// Empty is the base used when a title has no usable characters.
const Empty = "article"

// Base lower-cases title, folds accented letters to ASCII, drops every
// character outside [a-z0-9], whitespace and '-', and joins words with
// single hyphens. The result is at most MaxBase bytes and never begins or
// ends with a hyphen.
//
// Unlike a plain per-character filter, accents fold rather than vanish
// ("Café" gives "cafe", not "caf") and hyphen runs collapse ("On-Page SEO -
// Guide" gives "on-page-seo-guide", not "on-page-seo---guide").
func Base(title string) string {
	decomposed := norm.NFD.String(strings.ToLower(title))

	var b strings.Builder
	b.Grow(len(decomposed))

	pendingHyphen := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from NFD
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}

	s := b.String()
	if len(s) > MaxBase {
		s = strings.TrimRight(s[:MaxBase], "-")
	}
	if s == "" {
		return Empty
	}
	return s
}

// Suffix returns the uniqueness suffix: epoch seconds mod 10000 and a
// random three-digit number, joined by a hyphen.
func Suffix(now time.Time, rng random.Source) string {
	return fmt.Sprintf("%d-%d", now.Unix()%10000, 100+rng.IntN(900))
}

// Make returns Base(title) followed by the uniqueness suffix.
func Make(title string, now time.Time, rng random.Source) string {
	return Base(title) + "-" + Suffix(now, rng)
}

// Escalation returns the extra three-digit suffix appended after a
// filename collision.
func Escalation(rng random.Source) string {
	return strconv.Itoa(100 + rng.IntN(900))
}
