// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy builds the category and tag index pages of the site from
// the front matter of the posts directory.
package taxonomy

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/postsmith/internal/frontmatter"
)

// Term is a category or tag with the number of posts carrying it.
type Term struct {
	Name  string
	Slug  string
	Count int
}

// Index is the result of scanning a posts directory.
type Index struct {
	Categories []Term
	Tags       []Term
	Posts      int
	Skipped    []string
}

// IsPost reports whether name is a post file the scan considers.
func IsPost(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".html"
}

// Scan reads every post in dir and collects the unique categories and
// tags. Unreadable or unparsable posts are reported on warn and skipped.
func Scan(ctx context.Context, dir string, warn io.Writer) (Index, error) {
	if warn == nil {
		warn = io.Discard
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Index{}, fmt.Errorf("reading posts directory %s: %w", dir, err)
	}

	cats := make(map[string]int)
	tags := make(map[string]int)
	var idx Index

	for _, entry := range entries {
		if entry.IsDir() || !IsPost(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return Index{}, err
		}

		path := filepath.Join(dir, entry.Name())
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(warn, "skipped %s: %v\n", entry.Name(), err)
			idx.Skipped = append(idx.Skipped, entry.Name())
			continue
		}
		fm, _, err := frontmatter.Parse(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(warn, "skipped %s: %v\n", entry.Name(), err)
			idx.Skipped = append(idx.Skipped, entry.Name())
			continue
		}

		idx.Posts++
		for _, c := range fm.Categories {
			if c = strings.TrimSpace(c); c != "" {
				cats[c]++
			}
		}
		for _, t := range fm.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags[t]++
			}
		}
	}

	idx.Categories = terms(cats)
	idx.Tags = terms(tags)
	return idx, nil
}

// terms sorts names case-insensitively.
func terms(counts map[string]int) []Term {
	out := make([]Term, 0, len(counts))
	for name, n := range counts {
		out = append(out, Term{Name: name, Slug: Slug(name), Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].Name < out[j].Name
	})
	return out
}
