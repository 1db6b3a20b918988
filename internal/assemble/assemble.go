// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble expands a body pattern into ordered sections with a
// table of contents and a closing conclusion section.
package assemble

import (
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/postsmith/pkg/types"
)

const (
	// TOCLabelLimit is the maximum rune length of a table-of-contents label.
	TOCLabelLimit = 50

	// ConclusionAnchor is the heading id of the appended conclusion.
	ConclusionAnchor = "conclusion"

	// ConclusionHeading is the heading text of the appended conclusion.
	ConclusionHeading = "Conclusion"
)

// Anchor returns the heading id for the 1-based segment index i.
func Anchor(i int) string {
	return fmt.Sprintf("section-%d", i)
}

// Segments splits body on blank-line boundaries. Each segment is trimmed
// and empty segments are discarded.
func Segments(body string) []string {
	body = strings.ReplaceAll(body, "\r\n", "\n")

	var segments []string
	var current []string
	flush := func() {
		seg := strings.TrimSpace(strings.Join(current, "\n"))
		if seg != "" {
			segments = append(segments, seg)
		}
		current = current[:0]
	}
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()
	return segments
}

// Build turns body into sections. Segment i becomes a section anchored at
// section-i whose heading is the segment's first line; the remaining
// non-empty lines become paragraphs. A conclusion referencing category is
// appended after the segments and is left out of the table of contents.
// The result always has len(TOC)+1 sections.
func Build(body, category string, generatedAt time.Time) types.Content {
	segments := Segments(body)

	content := types.Content{
		Sections:    make([]types.Section, 0, len(segments)+1),
		TOC:         make([]types.TOCEntry, 0, len(segments)),
		GeneratedAt: generatedAt,
	}

	for i, seg := range segments {
		idx := i + 1
		lines := strings.Split(seg, "\n")
		heading := strings.TrimSpace(lines[0])

		var paras []string
		for _, l := range lines[1:] {
			if p := strings.TrimSpace(l); p != "" {
				paras = append(paras, p)
			}
		}

		sec := types.Section{
			Index:      idx,
			Anchor:     Anchor(idx),
			Heading:    heading,
			TOCLabel:   truncate(heading, TOCLabelLimit),
			Paragraphs: paras,
			InTOC:      true,
		}
		content.Sections = append(content.Sections, sec)
		content.TOC = append(content.TOC, types.TOCEntry{Anchor: sec.Anchor, Label: sec.TOCLabel})
	}

	content.Sections = append(content.Sections, Conclusion(category))
	return content
}

// Conclusion returns the fixed closing section for category.
func Conclusion(category string) types.Section {
	return types.Section{
		Anchor:   ConclusionAnchor,
		Heading:  ConclusionHeading,
		TOCLabel: ConclusionHeading,
		Paragraphs: []string{
			fmt.Sprintf("Apply these recommendations to improve your %s outcomes.", strings.ToLower(category)),
		},
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
