// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog loads the category set and per-category template catalog
// and answers template lookups for the generation pipeline.
//
// A catalog is read once at startup from a YAML or TOML file (or the
// embedded default) and is treated as read-only afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/postsmith/pkg/types"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is the declarative source of categories and templates.
type Catalog struct {
	// Categories lists the recognized categories in display order. When
	// empty, the template keys are used.
	Categories []string `yaml:"categories" toml:"categories"`

	// Templates maps a category to its title/body patterns.
	Templates map[string][]types.Template `yaml:"templates" toml:"templates"`

	// PowerPhrases overrides the phrases prepended to plain titles.
	PowerPhrases []string `yaml:"power_phrases,omitempty" toml:"power_phrases,omitempty"`

	// SEOMarkers overrides the substrings that mark a title as already
	// search-oriented.
	SEOMarkers []string `yaml:"seo_markers,omitempty" toml:"seo_markers,omitempty"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog, "yaml")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded catalog: %w", err)
	}
	return c, nil
}

// DefaultBytes returns the raw embedded catalog, for writing a starter file.
func DefaultBytes() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}

// Load reads a catalog file. Files ending in .toml are decoded as TOML;
// everything else as YAML. An empty path returns the embedded default.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = "toml"
	}
	c, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog data in the given format ("yaml" or "toml") and
// validates it.
func Parse(data []byte, format string) (*Catalog, error) {
	var c Catalog
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	case "yaml", "":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	c.bind()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// bind stamps each template with its category and fills the category list
// from the template keys when it was left empty.
func (c *Catalog) bind() {
	for name, list := range c.Templates {
		for i := range list {
			list[i].Category = name
		}
	}
	if len(c.Categories) == 0 {
		for name := range c.Templates {
			c.Categories = append(c.Categories, name)
		}
		sort.Strings(c.Categories)
	}
}

// Validate checks that categories are unique and non-empty and that every
// template has a title and a body.
func (c *Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("catalog has no categories")
	}
	seen := make(map[string]bool, len(c.Categories))
	for _, name := range c.Categories {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("catalog has an empty category name")
		}
		if seen[name] {
			return fmt.Errorf("duplicate category %q", name)
		}
		seen[name] = true
	}
	for name, list := range c.Templates {
		if !seen[name] {
			return fmt.Errorf("templates for %q but it is not listed in categories", name)
		}
		for i, t := range list {
			if strings.TrimSpace(t.Title) == "" {
				return fmt.Errorf("template %d of %q has an empty title", i+1, name)
			}
			if strings.TrimSpace(t.Body) == "" {
				return fmt.Errorf("template %d of %q has an empty body", i+1, name)
			}
		}
	}
	for _, p := range c.PowerPhrases {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("catalog has an empty power phrase")
		}
	}
	for _, m := range c.SEOMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("catalog has an empty seo marker")
		}
	}
	return nil
}

// Marshal encodes the catalog as YAML.
func (c *Catalog) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog: %w", err)
	}
	return data, nil
}

// TemplateCount returns the number of templates across all categories.
func (c *Catalog) TemplateCount() int {
	n := 0
	for _, list := range c.Templates {
		n += len(list)
	}
	return n
}
