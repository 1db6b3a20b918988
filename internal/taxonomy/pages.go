// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/pdiddy/postsmith/internal/slug"
	"github.com/pdiddy/postsmith/pkg/types"
)

// Slug returns the URL segment of a category or tag page.
func Slug(name string) string {
	return slug.Base(name)
}

// Templates use [[ ]] delimiters so the Liquid {{ }} and {% %} markup is
// written verbatim for the site generator.
var pages = template.Must(template.New("pages").Delims("[[", "]]").Funcs(template.FuncMap{
	"quote":  strconv.Quote,
	"lookup": lookup,
}).Parse(`[[ define "category" ]]---
layout: default
title: [[ quote .Name ]]
permalink: /categories/[[ .Slug ]]/
---

<section class="category-page">
  <h1>Category: [[ .Name ]]</h1>

  <div class="category-description">
    <p>Browse all articles in the [[ .Name ]] category.</p>
  </div>

  <div class="posts-grid">
    {% assign posts = [[ lookup "site.categories" .Name ]] %}
    {% if posts %}
      {% for post in posts %}
        <article class="post-card">
          <h3><a href="{{ post.url }}">{{ post.title }}</a></h3>
          <div class="post-meta">
            <small>{{ post.date | date: "%b %d, %Y" }}</small>
            {% if post.tags %}
              <div class="post-tags">
                {% for tag in post.tags %}
                  <a href="/tags/{{ tag | slugify }}/" class="tag">#{{ tag }}</a>
                {% endfor %}
              </div>
            {% endif %}
          </div>
          {% if post.excerpt %}
            <p class="post-excerpt">{{ post.excerpt | truncate: 150 }}</p>
          {% endif %}
        </article>
      {% endfor %}
    {% else %}
      <div class="no-posts">
        <p>No articles in this category yet.</p>
        <a href="/" class="btn">Browse all articles</a>
      </div>
    {% endif %}
  </div>
</section>
[[ end ]][[ define "tag" ]]---
layout: default
title: [[ quote .Name ]]
permalink: /tags/[[ .Slug ]]/
---

<section class="tag-page">
  <h1>Tag: [[ .Name ]]</h1>

  <div class="tag-description">
    <p>Browse all articles tagged with "[[ .Name ]]".</p>
  </div>

  <div class="posts-grid">
    {% assign posts = [[ lookup "site.tags" .Name ]] %}
    {% if posts %}
      {% for post in posts %}
        <article class="post-card">
          <h3><a href="{{ post.url }}">{{ post.title }}</a></h3>
          <div class="post-meta">
            <small>{{ post.date | date: "%b %d, %Y" }}</small>
            {% if post.categories %}
              <div class="post-categories">
                {% for category in post.categories %}
                  <a href="/categories/{{ category | slugify }}/" class="category">{{ category }}</a>
                {% endfor %}
              </div>
            {% endif %}
          </div>
          {% if post.excerpt %}
            <p class="post-excerpt">{{ post.excerpt | truncate: 150 }}</p>
          {% endif %}
        </article>
      {% endfor %}
    {% else %}
      <div class="no-posts">
        <p>No articles with this tag yet.</p>
        <a href="/" class="btn">Browse all articles</a>
      </div>
    {% endif %}
  </div>
</section>
[[ end ]][[ define "categories" ]]---
layout: default
title: "Categories"
permalink: /categories/
---

<section class="categories-index">
  <h1>All Categories</h1>

  <div class="categories-grid">
    {% for category in site.categories %}
      {% assign category_name = category[0] %}
      {% assign posts_count = category[1].size %}
      <div class="category-card">
        <h3>
          <a href="/categories/{{ category_name | slugify }}/">
            {{ category_name }}
          </a>
        </h3>
        <p class="post-count">{{ posts_count }} article{% if posts_count != 1 %}s{% endif %}</p>
        <div class="recent-posts">
          {% for post in category[1] limit:3 %}
            <div class="recent-post">
              <a href="{{ post.url }}">{{ post.title | truncate: 40 }}</a>
              <small>{{ post.date | date: "%b %d" }}</small>
            </div>
          {% endfor %}
        </div>
      </div>
    {% endfor %}
  </div>
</section>
[[ end ]][[ define "tags" ]]---
layout: default
title: "Tags"
permalink: /tags/
---

<section class="tags-index">
  <h1>All Tags</h1>

  <div class="tags-cloud">
    {% for tag in site.tags %}
      {% assign tag_name = tag[0] %}
      {% assign posts_count = tag[1].size %}
      {% assign font_size = 14 %}
      {% if posts_count > 5 %}{% assign font_size = 18 %}{% endif %}
      {% if posts_count > 10 %}{% assign font_size = 22 %}{% endif %}
      {% if posts_count > 20 %}{% assign font_size = 26 %}{% endif %}

      <a href="/tags/{{ tag_name | slugify }}/"
         class="tag-cloud-item"
         style="font-size: {{ font_size }}px;"
         title="{{ posts_count }} articles">
        {{ tag_name }} ({{ posts_count }})
      </a>
    {% endfor %}
  </div>
</section>
[[ end ]]`))

// lookup returns the Liquid expression collection['name']. Liquid string
// literals have no escapes, so a name containing both quote kinds loses
// its double quotes.
func lookup(collection, name string) string {
	if strings.Contains(name, "'") {
		return collection + `["` + strings.ReplaceAll(name, `"`, "") + `"]`
	}
	return collection + "['" + name + "']"
}

// Summary reports the pages a Write produced.
type Summary struct {
	Written   []string
	Unchanged int
}

// Write renders one page per category and tag plus the two overview pages
// into cfg.CategoriesDir and cfg.TagsDir. Pages whose content is already
// current are left untouched. Terms that map to an already used slug are
// reported on warn and skipped.
func Write(idx Index, cfg types.TaxonomyConfig, warn io.Writer) (Summary, error) {
	if warn == nil {
		warn = io.Discard
	}
	var sum Summary

	groups := []struct {
		dir   string
		page  string
		index string
		terms []Term
	}{
		{cfg.CategoriesDir, "category", "categories", idx.Categories},
		{cfg.TagsDir, "tag", "tags", idx.Tags},
	}

	for _, g := range groups {
		seen := make(map[string]string, len(g.terms))
		for _, t := range g.terms {
			if prev, ok := seen[t.Slug]; ok {
				fmt.Fprintf(warn, "skipped %s %q: slug %q already used by %q\n", g.page, t.Name, t.Slug, prev)
				continue
			}
			seen[t.Slug] = t.Name
			path := filepath.Join(g.dir, t.Slug, "index.html")
			if err := sum.render(path, g.page, t); err != nil {
				return sum, err
			}
		}
		if err := sum.render(filepath.Join(g.dir, "index.html"), g.index, nil); err != nil {
			return sum, err
		}
	}
	return sum, nil
}

func (s *Summary) render(path, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("rendering %s page: %w", name, err)
	}

	if old, err := os.ReadFile(path); err == nil && bytes.Equal(old, buf.Bytes()) {
		s.Unchanged++
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.Written = append(s.Written, path)
	return nil
}
