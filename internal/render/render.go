// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns an assembled article into the document written to
// the posts directory. The body is always built as Markdown first; HTML
// output is produced by converting that Markdown with goldmark.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/postsmith/internal/frontmatter"
	"github.com/pdiddy/postsmith/pkg/types"
)

// FooterLayout formats the generation timestamp in the footer notice.
const FooterLayout = "02 January 2006 15:04"

// Renderer converts articles to documents. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GFM, heading attributes ({#id}) and raw HTML
// passthrough enabled.
func New() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAttribute(),
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md}
}

// Markdown renders the article body (without front matter).
func (r *Renderer) Markdown(a *types.Article) []byte {
	var b bytes.Buffer

	fmt.Fprintf(&b, "# %s\n\n", a.Title)
	fmt.Fprintf(&b, "<div class=\"article-meta\">📅 %s 📂 %s 👤 %s</div>\n\n",
		a.FrontMatter.Date, a.Category, a.FrontMatter.Author)

	b.WriteString("<div class=\"toc\">\n\n")
	for _, e := range a.Content.TOC {
		fmt.Fprintf(&b, "- [%s](#%s)\n", escapeLabel(e.Label), e.Anchor)
	}
	b.WriteString("\n</div>\n\n")

	for _, s := range a.Content.Sections {
		fmt.Fprintf(&b, "## %s {#%s}\n\n", s.Heading, s.Anchor)
		for _, p := range s.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "*Article generated automatically on %s*\n",
		a.Content.GeneratedAt.Format(FooterLayout))
	return b.Bytes()
}

// HTML converts Markdown source to HTML.
func (r *Renderer) HTML(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	return buf.Bytes(), nil
}

// Document returns the complete file contents for a: the front matter
// block, a blank line, and the body in the requested format.
func (r *Renderer) Document(a *types.Article, format types.OutputFormat) ([]byte, error) {
	if !format.Valid() {
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	head, err := frontmatter.Marshal(a.FrontMatter)
	if err != nil {
		return nil, err
	}

	body := r.Markdown(a)
	if format == types.OutputHTML {
		if body, err = r.HTML(body); err != nil {
			return nil, err
		}
	}

	out := make([]byte, 0, len(head)+1+len(body))
	out = append(out, head...)
	out = append(out, '\n')
	out = append(out, body...)
	return out, nil
}

// Heading is a heading found by Inspect.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Link is a link found by Inspect.
type Link struct {
	Dest string
	Text string
}

// Outline lists the headings and links of a Markdown document.
type Outline struct {
	Headings []Heading
	Links    []Link
}

// Dangling returns the in-page links (#anchor) that match no heading id.
func (o Outline) Dangling() []Link {
	ids := make(map[string]bool, len(o.Headings))
	for _, h := range o.Headings {
		if h.ID != "" {
			ids[h.ID] = true
		}
	}
	var out []Link
	for _, l := range o.Links {
		anchor, ok := strings.CutPrefix(l.Dest, "#")
		if ok && !ids[anchor] {
			out = append(out, l)
		}
	}
	return out
}

// Inspect parses Markdown source and collects its headings and links.
func (r *Renderer) Inspect(src []byte) Outline {
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(parser.NewContext()))

	var o Outline
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			h := Heading{Level: node.Level, Text: plainText(node, src)}
			if id, ok := node.AttributeString("id"); ok {
				switch v := id.(type) {
				case string:
					h.ID = v
				case []byte:
					h.ID = string(v)
				}
			}
			o.Headings = append(o.Headings, h)
		case *ast.Link:
			o.Links = append(o.Links, Link{Dest: string(node.Destination), Text: plainText(node, src)})
		}
		return ast.WalkContinue, nil
	})
	return o
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		default:
			buf.WriteString(plainText(c, src))
		}
	}
	return buf.String()
}

var labelEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`)

func escapeLabel(s string) string {
	return labelEscaper.Replace(s)
}
