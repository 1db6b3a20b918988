// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package frontmatter builds, encodes and parses the metadata block that
// starts every generated post.
package frontmatter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postsmith/pkg/types"
)

// Defaults applied by Build when the corresponding Input field is empty.
const (
	DefaultLayout   = "default"
	DefaultAuthor   = "Admin FortoolSEO"
	DefaultLanguage = "en"
)

// ExcerptLimit is the maximum rune length of the excerpt.
const ExcerptLimit = 150

// DateLayout formats the date field.
const DateLayout = "2006-01-02"

// Delimiter opens and closes the metadata block.
const Delimiter = "---"

// Input carries everything Build needs.
type Input struct {
	Title    string
	Category string
	Date     time.Time
	Body     string
	Author   string
	Layout   string
	Language string
	Image    string
}

// Build derives the front matter fields from in.
func Build(in Input) types.FrontMatter {
	excerpt := Excerpt(in.Body)
	meta := excerpt + "..."
	if excerpt == "" {
		meta = in.Title + " - actionable tips and examples."
	}

	return types.FrontMatter{
		Layout:          orDefault(in.Layout, DefaultLayout),
		Title:           in.Title,
		Date:            in.Date.Format(DateLayout),
		Categories:      []string{in.Category},
		Tags:            []string{strings.ToLower(in.Category), "tips", "guide"},
		Author:          orDefault(in.Author, DefaultAuthor),
		Excerpt:         excerpt,
		MetaDescription: meta,
		Language:        orDefault(in.Language, DefaultLanguage),
		Image:           in.Image,
	}
}

// Excerpt collapses all whitespace runs in body to single spaces and
// returns at most ExcerptLimit runes.
func Excerpt(body string) string {
	collapsed := []rune(strings.Join(strings.Fields(body), " "))
	if len(collapsed) > ExcerptLimit {
		collapsed = collapsed[:ExcerptLimit]
	}
	return string(collapsed)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Marshal encodes fm between delimiter lines. Keys keep a fixed order,
// free-text fields are double-quoted with YAML escaping, and the
// categories and tags lists use flow style.
func Marshal(fm types.FrontMatter) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, value)
	}

	add("layout", plain(fm.Layout))
	add("title", quoted(fm.Title))
	add("date", &yaml.Node{Kind: yaml.ScalarNode, Value: fm.Date})
	add("categories", flow(fm.Categories))
	add("tags", flow(fm.Tags))
	add("author", plain(fm.Author))
	add("excerpt", quoted(fm.Excerpt))
	add("meta_description", quoted(fm.MetaDescription))
	add("language", plain(fm.Language))
	if fm.Image != "" {
		add("image", plain(fm.Image))
	}

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	buf.WriteString(Delimiter + "\n")
	return buf.Bytes(), nil
}

func plain(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func quoted(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: v}
}

func flow(items []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, it := range items {
		seq.Content = append(seq.Content, quoted(it))
	}
	return seq
}

// Parse reads a document and returns its front matter and the remaining
// body. A document without a metadata block yields a zero FrontMatter and
// the whole input as body.
//
// categories and tags may be written as lists or, as hand-written posts
// often do, as a single comma-separated string.
func Parse(r io.Reader) (types.FrontMatter, []byte, error) {
	var doc document
	body, err := frontmatter.Parse(r, &doc)
	if err != nil {
		return types.FrontMatter{}, nil, fmt.Errorf("parsing front matter: %w", err)
	}
	return types.FrontMatter{
		Layout:          doc.Layout,
		Title:           doc.Title,
		Date:            doc.Date,
		Categories:      doc.Categories,
		Tags:            doc.Tags,
		Author:          doc.Author,
		Excerpt:         doc.Excerpt,
		MetaDescription: doc.MetaDescription,
		Language:        doc.Language,
		Image:           doc.Image,
	}, body, nil
}

// document is the decoding shape of types.FrontMatter.
type document struct {
	Layout          string `yaml:"layout"`
	Title           string `yaml:"title"`
	Date            string `yaml:"date"`
	Categories      terms  `yaml:"categories"`
	Tags            terms  `yaml:"tags"`
	Author          string `yaml:"author"`
	Excerpt         string `yaml:"excerpt"`
	MetaDescription string `yaml:"meta_description"`
	Language        string `yaml:"language"`
	Image           string `yaml:"image"`
}

// terms decodes a YAML list or a comma-separated string.
type terms []string

// UnmarshalYAML implements the yaml unmarshaler interface.
func (t *terms) UnmarshalYAML(unmarshal func(any) error) error {
	var list []string
	if err := unmarshal(&list); err == nil {
		*t = list
		return nil
	}
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("want a list or a string: %w", err)
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*t = out
	return nil
}

// Validate reports the required fields missing from fm.
func Validate(fm types.FrontMatter) error {
	var missing []string
	if strings.TrimSpace(fm.Title) == "" {
		missing = append(missing, "title")
	}
	if fm.Date == "" {
		missing = append(missing, "date")
	} else if _, err := time.Parse(DateLayout, dateOnly(fm.Date)); err != nil {
		return fmt.Errorf("invalid date %q: %w", fm.Date, err)
	}
	if len(fm.Categories) == 0 {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return fmt.Errorf("front matter missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// dateOnly keeps the calendar part of a Jekyll date such as
// "2025-01-05 10:00:00 +0700".
func dateOnly(s string) string {
	if len(s) >= len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
