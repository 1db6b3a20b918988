// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"fmt"
	"strings"

	"github.com/pdiddy/postsmith/internal/random"
	"github.com/pdiddy/postsmith/pkg/types"
)

// Placeholder is replaced by the category name in template titles and bodies.
const Placeholder = "{category}"

// Store holds the recognized categories.
type Store struct {
	names []string
	known map[string]bool
}

// NewStore builds a Store from the catalog's category list.
func NewStore(c *Catalog) *Store {
	s := &Store{known: make(map[string]bool, len(c.Categories))}
	for _, name := range c.Categories {
		s.names = append(s.names, name)
		s.known[name] = true
	}
	return s
}

// Categories returns the categories in catalog order.
func (s *Store) Categories() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Has reports whether name is a recognized category.
func (s *Store) Has(name string) bool {
	return s.known[name]
}

// Random picks a category uniformly. It returns "" for an empty store.
func (s *Store) Random(rng random.Source) string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[rng.IntN(len(s.names))]
}

// Library maps categories to their templates.
type Library struct {
	templates map[string][]types.Template
}

// NewLibrary builds a Library from the catalog.
func NewLibrary(c *Catalog) *Library {
	l := &Library{templates: make(map[string][]types.Template, len(c.Templates))}
	for name, list := range c.Templates {
		cp := make([]types.Template, len(list))
		copy(cp, list)
		l.templates[name] = cp
	}
	return l
}

// Templates returns the raw patterns configured for category.
func (l *Library) Templates(category string) []types.Template {
	list := l.templates[category]
	out := make([]types.Template, len(list))
	copy(out, list)
	return out
}

// Pick chooses one of the category's templates uniformly at random and
// expands the {category} placeholder. For a category without templates it
// returns Fallback(category) and false.
func (l *Library) Pick(category string, rng random.Source) (types.Template, bool) {
	list := l.templates[category]
	if len(list) == 0 {
		return Fallback(category), false
	}
	t := list[rng.IntN(len(list))]
	return Expand(t, category), true
}

// Expand substitutes category for the placeholder in t.
func Expand(t types.Template, category string) types.Template {
	return types.Template{
		Category: category,
		Title:    strings.ReplaceAll(t.Title, Placeholder, category),
		Body:     strings.ReplaceAll(t.Body, Placeholder, category),
	}
}

// Fallback is the generic template used for categories with no entry.
func Fallback(category string) types.Template {
	return types.Template{
		Category: category,
		Title:    category + " Best Practices",
		Body:     fmt.Sprintf("An overview of best practices for %s.", category),
	}
}
