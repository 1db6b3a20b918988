// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generator runs the article pipeline: it picks a category and
// template, composes the title, resolves the body, assembles sections and
// front matter, renders the document, and places it in the posts directory.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/postsmith/internal/assemble"
	"github.com/pdiddy/postsmith/internal/catalog"
	"github.com/pdiddy/postsmith/internal/compose"
	"github.com/pdiddy/postsmith/internal/frontmatter"
	"github.com/pdiddy/postsmith/internal/ledger"
	"github.com/pdiddy/postsmith/internal/logging"
	"github.com/pdiddy/postsmith/internal/random"
	"github.com/pdiddy/postsmith/internal/render"
	"github.com/pdiddy/postsmith/internal/slug"
	"github.com/pdiddy/postsmith/internal/source"
	"github.com/pdiddy/postsmith/internal/writer"
	"github.com/pdiddy/postsmith/pkg/types"
)

// DefaultPostsDir is used when the configuration names no posts directory.
const DefaultPostsDir = "_posts"

// ImageRange bounds the number substituted into the image URL pattern.
const ImageRange = 1000

// ErrNoCategories is returned when a random category is requested from an
// empty catalog.
var ErrNoCategories = errors.New("catalog has no categories")

// Policy decides what a batch does after a failed article.
type Policy int

const (
	// HaltOnError stops the batch at the first failure.
	HaltOnError Policy = iota
	// ContinueOnError counts the failure and moves on.
	ContinueOnError
)

// Options configures a Generator. Zero values select the defaults.
type Options struct {
	Config types.GenerationConfig

	// Catalog defaults to the embedded catalog.
	Catalog *catalog.Catalog

	// Chain resolves bodies. The zero Chain always uses the template body.
	Chain source.Chain

	// Ledger records written articles when non-nil.
	Ledger *ledger.Store

	// Log receives warnings and per-article lines when non-nil.
	Log *logging.Logger

	Policy Policy

	Rand random.Source
	Now  func() time.Time
}

// Generator produces articles. It is not safe for concurrent use.
type Generator struct {
	cfg      types.GenerationConfig
	store    *catalog.Store
	library  *catalog.Library
	composer *compose.Composer
	chain    source.Chain
	renderer *render.Renderer
	writer   *writer.Writer
	ledger   *ledger.Store
	log      *logging.Logger
	policy   Policy
	rng      random.Source
	now      func() time.Time
}

// New validates opts and wires the pipeline.
func New(opts Options) (*Generator, error) {
	cfg := opts.Config
	if cfg.PostsDir == "" {
		cfg.PostsDir = DefaultPostsDir
	}
	if cfg.Format == "" {
		cfg.Format = types.OutputHTML
	}
	if !cfg.Format.Valid() {
		return nil, fmt.Errorf("unsupported output format %q (use html or markdown)", cfg.Format)
	}
	if cfg.ImageURL != "" && strings.Count(cfg.ImageURL, "%d") != 1 {
		return nil, fmt.Errorf("image URL pattern %q must contain exactly one %%d", cfg.ImageURL)
	}

	cat := opts.Catalog
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, err
		}
	}

	rng := opts.Rand
	if rng == nil {
		rng = random.New(cfg.Seed)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Generator{
		cfg:      cfg,
		store:    catalog.NewStore(cat),
		library:  catalog.NewLibrary(cat),
		composer: compose.New(cat.SEOMarkers, cat.PowerPhrases),
		chain:    opts.Chain,
		renderer: render.New(),
		writer:   &writer.Writer{Dir: cfg.PostsDir, MaxAttempts: cfg.MaxAttempts, Rand: rng},
		ledger:   opts.Ledger,
		log:      opts.Log,
		policy:   opts.Policy,
		rng:      rng,
		now:      now,
	}, nil
}

// Config returns the effective generation settings.
func (g *Generator) Config() types.GenerationConfig { return g.cfg }

// Result describes one written article.
type Result struct {
	Article  *types.Article
	Path     string
	Provider string
}

// Compose builds an article without touching the posts directory. An empty
// category selects one at random. Unknown categories get the fallback
// template and keep its title verbatim.
func (g *Generator) Compose(ctx context.Context, category string) (*types.Article, error) {
	a, _, err := g.compose(ctx, category)
	return a, err
}

func (g *Generator) compose(ctx context.Context, category string) (*types.Article, source.Outcome, error) {
	if category == "" {
		category = g.store.Random(g.rng)
		if category == "" {
			return nil, source.Outcome{}, ErrNoCategories
		}
	}

	tmpl, known := g.library.Pick(category, g.rng)
	title := tmpl.Title
	if known {
		title = g.composer.Normalize(title, g.rng)
	} else {
		g.log.Warnf("unknown category %q, using fallback template", category)
	}

	out := g.chain.Resolve(ctx, source.Request{
		Category: category,
		Title:    title,
		Language: g.cfg.Language,
	}, tmpl.Body)
	switch {
	case out.Kind == types.SourceFailed:
		return nil, out, fmt.Errorf("resolving body for %q: %w", title, out.Err)
	case out.Err != nil:
		g.log.Warnf("text source failed, using template body: %v", out.Err)
	}

	now := g.now()
	var image string
	if g.cfg.ImageURL != "" {
		image = fmt.Sprintf(g.cfg.ImageURL, 1+g.rng.IntN(ImageRange))
	}

	a := &types.Article{
		ID:            ledger.NewID(),
		Title:         title,
		Category:      category,
		KnownCategory: known,
		Date:          now,
		Body:          out.Body,
		Content:       assemble.Build(out.Body, category, now),
		FrontMatter: frontmatter.Build(frontmatter.Input{
			Title:    title,
			Category: category,
			Date:     now,
			Body:     out.Body,
			Author:   g.cfg.Author,
			Layout:   g.cfg.Layout,
			Language: g.cfg.Language,
			Image:    image,
		}),
		Slug:   slug.Make(title, now, g.rng),
		Source: out.Kind,
	}
	return a, out, nil
}

// Generate composes one article, renders it, and places it in the posts
// directory. When a ledger is configured the article is recorded; a ledger
// failure is returned together with the populated Result because the file
// has already been written.
func (g *Generator) Generate(ctx context.Context, category string) (Result, error) {
	a, out, err := g.compose(ctx, category)
	if err != nil {
		return Result{}, err
	}

	if dangling := g.renderer.Inspect(g.renderer.Markdown(a)).Dangling(); len(dangling) > 0 {
		return Result{}, fmt.Errorf("table of contents of %q links to missing anchor %q", a.Title, dangling[0].Dest)
	}

	doc, err := g.renderer.Document(a, g.cfg.Format)
	if err != nil {
		return Result{}, fmt.Errorf("rendering %q: %w", a.Title, err)
	}

	placed, err := g.writer.Place(ctx, writer.Name{Date: a.Date, Slug: a.Slug, Ext: g.cfg.Format.Ext()}, doc)
	if err != nil {
		return Result{}, err
	}
	a.Slug = placed.Slug
	if placed.Attempts > 1 {
		g.log.Warnf("filename collision, placed as %s after %d attempts", placed.Path, placed.Attempts)
	}
	g.log.Infof("created %s (%s, source %s)", placed.Path, a.Category, a.Source)

	res := Result{Article: a, Path: placed.Path, Provider: out.Provider}
	if g.ledger != nil {
		_, err := g.ledger.Record(ctx, ledger.Entry{
			ID:       a.ID,
			Slug:     a.Slug,
			Path:     placed.Path,
			Title:    a.Title,
			Category: a.Category,
			Date:     a.FrontMatter.Date,
			Source:   a.Source,
			Provider: out.Provider,
		})
		if err != nil {
			return res, fmt.Errorf("recording %s in ledger: %w", placed.Path, err)
		}
	}
	return res, nil
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Created int
	Failed  int
	Skipped int
	Paths   []string
}

// Total returns the number of articles requested.
func (r BatchResult) Total() int {
	return r.Created + r.Failed + r.Skipped
}

// HasFailures reports whether any article failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Batch generates n articles one after another, writing a line per article
// and a summary to w. Articles not attempted because of the halt policy or
// a cancelled context are counted as skipped.
func (g *Generator) Batch(ctx context.Context, n int, category string, w io.Writer) BatchResult {
	if w == nil {
		w = io.Discard
	}
	var result BatchResult
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(w, "stopped: %v\n", err)
			result.Skipped += n - i
			break
		}

		res, err := g.Generate(ctx, category)
		if err != nil {
			fmt.Fprintf(w, "failed:  %v\n", err)
			g.log.Errorf("article %d/%d failed: %v", i+1, n, err)
			result.Failed++
			if res.Path != "" {
				result.Paths = append(result.Paths, res.Path)
			}
			if g.policy == HaltOnError {
				result.Skipped += n - i - 1
				break
			}
			continue
		}
		fmt.Fprintf(w, "created: %s\n", res.Path)
		result.Created++
		result.Paths = append(result.Paths, res.Path)
	}
	fmt.Fprintf(w, "\nBatch summary: %d created, %d skipped, %d failed (total: %d)\n",
		result.Created, result.Skipped, result.Failed, result.Total())
	return result
}
