// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Template is a category-bound title/body pair. The title may contain the
// {category} placeholder; the body is split on blank lines into sections.
type Template struct {
	// Category is the catalog category this template belongs to.
	Category string `json:"category,omitempty" yaml:"-" toml:"-"`

	// Title is the title pattern.
	Title string `json:"title" yaml:"title" toml:"title"`

	// Body is the free-form body pattern.
	Body string `json:"body" yaml:"body" toml:"body"`
}

// Section is one heading-plus-paragraphs unit of an assembled article.
type Section struct {
	// Index is the 1-based position of the segment in the body. The
	// conclusion section has Index 0.
	Index int `json:"index" yaml:"index"`

	// Anchor is the addressable id of the heading (section-N or conclusion).
	Anchor string `json:"anchor" yaml:"anchor"`

	// Heading is the full heading line.
	Heading string `json:"heading" yaml:"heading"`

	// TOCLabel is the heading truncated for table-of-contents display.
	TOCLabel string `json:"toc_label" yaml:"toc_label"`

	// Paragraphs holds the trimmed, non-empty lines following the heading.
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`

	// InTOC reports whether the section is listed in the table of contents.
	InTOC bool `json:"in_toc" yaml:"in_toc"`
}

// TOCEntry links a table-of-contents label to a section anchor.
type TOCEntry struct {
	Anchor string `json:"anchor" yaml:"anchor"`
	Label  string `json:"label" yaml:"label"`
}

// Content is the assembled body of an article.
type Content struct {
	Sections    []Section  `json:"sections" yaml:"sections"`
	TOC         []TOCEntry `json:"toc" yaml:"toc"`
	GeneratedAt time.Time  `json:"generated_at" yaml:"generated_at"`
}

// FrontMatter is the metadata block prefixed to every generated document.
type FrontMatter struct {
	Layout          string   `json:"layout" yaml:"layout"`
	Title           string   `json:"title" yaml:"title"`
	Date            string   `json:"date" yaml:"date"`
	Categories      []string `json:"categories" yaml:"categories"`
	Tags            []string `json:"tags" yaml:"tags"`
	Author          string   `json:"author" yaml:"author"`
	Excerpt         string   `json:"excerpt" yaml:"excerpt"`
	MetaDescription string   `json:"meta_description" yaml:"meta_description"`
	Language        string   `json:"language" yaml:"language"`
	Image           string   `json:"image,omitempty" yaml:"image,omitempty"`
}

// SourceKind records where an article body came from.
type SourceKind string

const (
	// SourceOK means a text provider supplied the body.
	SourceOK SourceKind = "ok"
	// SourceFallback means the catalog template body was used.
	SourceFallback SourceKind = "fallback"
	// SourceFailed means no usable body could be obtained.
	SourceFailed SourceKind = "failed"
)

// Article is one generated unit, built in a single pass and handed to the
// writer. It is not mutated after assembly.
type Article struct {
	// ID uniquely identifies the article in the ledger.
	ID string `json:"id" yaml:"id"`

	// Title is the normalized title.
	Title string `json:"title" yaml:"title"`

	// Category is the category name echoed into the metadata.
	Category string `json:"category" yaml:"category"`

	// KnownCategory is false when the fallback template was used.
	KnownCategory bool `json:"known_category" yaml:"known_category"`

	// Date is the publication timestamp.
	Date time.Time `json:"date" yaml:"date"`

	// Body is the raw body text the sections were built from.
	Body string `json:"body" yaml:"body"`

	// Content holds the ordered sections and table of contents.
	Content Content `json:"content" yaml:"content"`

	// Slug is the filename stem including the uniqueness suffix.
	Slug string `json:"slug" yaml:"slug"`

	// FrontMatter holds the metadata fields.
	FrontMatter FrontMatter `json:"front_matter" yaml:"front_matter"`

	// Source records whether the body came from a provider or the template.
	Source SourceKind `json:"source" yaml:"source"`
}
