// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/postsmith/internal/frontmatter"
	"github.com/pdiddy/postsmith/pkg/types"
)

func writePost(t *testing.T, dir, name, title, category string) {
	t.Helper()
	fm := frontmatter.Build(frontmatter.Input{
		Title: title, Category: category,
		Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Body: "Intro",
	})
	head, err := frontmatter.Marshal(fm)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), append(head, []byte("\n<h1>x</h1>\n")...), 0o644))
}

func layout(t *testing.T) types.TaxonomyConfig {
	t.Helper()
	root := t.TempDir()
	cfg := types.TaxonomyConfig{
		PostsDir:      filepath.Join(root, "_posts"),
		CategoriesDir: filepath.Join(root, "categories"),
		TagsDir:       filepath.Join(root, "tags"),
	}
	require.NoError(t, os.MkdirAll(cfg.PostsDir, 0o755))
	return cfg
}

func TestScan(t *testing.T) {
	cfg := layout(t)
	writePost(t, cfg.PostsDir, "2026-03-14-a.html", "A", "SEO")
	writePost(t, cfg.PostsDir, "2026-03-14-b.md", "B", "SEO")
	writePost(t, cfg.PostsDir, "2026-03-14-c.html", "C", "Digital Marketing")
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PostsDir, "broken.md"), []byte("---\ntitle: [unclosed\n---\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PostsDir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PostsDir, ".postsmith-1.tmp"), []byte("ignored"), 0o644))

	var warn bytes.Buffer
	idx, err := Scan(context.Background(), cfg.PostsDir, &warn)
	require.NoError(t, err)

	assert.Equal(t, 3, idx.Posts)
	assert.Equal(t, []string{"broken.md"}, idx.Skipped)
	assert.Contains(t, warn.String(), "skipped broken.md")
	assert.Equal(t, []Term{
		{Name: "Digital Marketing", Slug: "digital-marketing", Count: 1},
		{Name: "SEO", Slug: "seo", Count: 2},
	}, idx.Categories)

	var tagNames []string
	for _, tag := range idx.Tags {
		tagNames = append(tagNames, tag.Name)
	}
	assert.Equal(t, []string{"digital marketing", "guide", "seo", "tips"}, tagNames)
}

func TestScanStringTerms(t *testing.T) {
	cfg := layout(t)
	post := "---\nlayout: post\ntitle: Hand written\ndate: 2025-01-01 10:00:00 +0700\ncategories: SEO\ntags: seo, tips\n---\nBody\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.PostsDir, "2025-01-01-a.md"), []byte(post), 0o644))
	writePost(t, cfg.PostsDir, "2026-03-14-b.html", "B", "SEO")

	var warn bytes.Buffer
	idx, err := Scan(context.Background(), cfg.PostsDir, &warn)
	require.NoError(t, err)

	assert.Empty(t, idx.Skipped, warn.String())
	assert.Equal(t, 2, idx.Posts)
	assert.Equal(t, []Term{{Name: "SEO", Slug: "seo", Count: 2}}, idx.Categories)
	counts := map[string]int{}
	for _, tag := range idx.Tags {
		counts[tag.Name] = tag.Count
	}
	assert.Equal(t, map[string]int{"seo": 2, "tips": 2, "guide": 1}, counts)
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "absent"), nil)
	assert.Error(t, err)
}

func TestWritePages(t *testing.T) {
	cfg := layout(t)
	writePost(t, cfg.PostsDir, "a.html", "A", "Digital Marketing")
	writePost(t, cfg.PostsDir, "b.html", "B", "Owner's Guide")

	idx, sum, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	// 2 categories + index, 4 tags + index
	assert.Len(t, sum.Written, 8)
	assert.Len(t, idx.Tags, 4)

	page, err := os.ReadFile(filepath.Join(cfg.CategoriesDir, "digital-marketing", "index.html"))
	require.NoError(t, err)
	s := string(page)
	assert.Contains(t, s, "title: \"Digital Marketing\"\npermalink: /categories/digital-marketing/\n")
	assert.Contains(t, s, "<h1>Category: Digital Marketing</h1>")
	assert.Contains(t, s, "{% assign posts = site.categories['Digital Marketing'] %}")
	assert.Contains(t, s, `{{ post.date | date: "%b %d, %Y" }}`)

	quoted, err := os.ReadFile(filepath.Join(cfg.CategoriesDir, "owners-guide", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(quoted), `site.categories["Owner's Guide"]`)

	_, err = os.Stat(filepath.Join(cfg.TagsDir, "owners-guide", "index.html"))
	assert.NoError(t, err)

	tag, err := os.ReadFile(filepath.Join(cfg.TagsDir, "tips", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(tag), "{% assign posts = site.tags['tips'] %}")
	assert.Contains(t, string(tag), "permalink: /tags/tips/")

	overview, err := os.ReadFile(filepath.Join(cfg.TagsDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(overview), "{% for tag in site.tags %}")

	fm, _, err := frontmatter.Parse(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, "Digital Marketing", fm.Title)
}

func TestWriteIsIdempotent(t *testing.T) {
	cfg := layout(t)
	writePost(t, cfg.PostsDir, "a.html", "A", "SEO")

	_, first, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotEmpty(t, first.Written)

	_, second, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Empty(t, second.Written)
	assert.Equal(t, len(first.Written), second.Unchanged)
}

func TestWriteSkipsSlugClash(t *testing.T) {
	cfg := layout(t)
	idx := Index{Categories: []Term{
		{Name: "SEO", Slug: "seo", Count: 1},
		{Name: "seo", Slug: "seo", Count: 1},
	}}
	var warn bytes.Buffer
	sum, err := Write(idx, cfg, &warn)
	require.NoError(t, err)
	assert.Len(t, sum.Written, 3, "one category page and both overview pages")
	assert.Contains(t, warn.String(), `slug "seo" already used by "SEO"`)
}

func TestWatchRebuildsOnNewPost(t *testing.T) {
	old := DebounceDelay
	DebounceDelay = 20 * time.Millisecond
	defer func() { DebounceDelay = old }()

	cfg := layout(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	built := make(chan Index, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, nil, func(idx Index, _ Summary, _ error) { built <- idx })
	}()

	// Give the watcher time to register before creating the post.
	time.Sleep(100 * time.Millisecond)
	writePost(t, cfg.PostsDir, "new.html", "New", "Analytics")

	select {
	case idx := <-built:
		require.Len(t, idx.Categories, 1)
		assert.Equal(t, "Analytics", idx.Categories[0].Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after creating a post")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	_, err := os.Stat(filepath.Join(cfg.CategoriesDir, "analytics", "index.html"))
	assert.NoError(t, err)
}
