// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/postsmith/internal/catalog"
	"github.com/pdiddy/postsmith/internal/generator"
	"github.com/pdiddy/postsmith/internal/render"
	"github.com/pdiddy/postsmith/internal/secrets"
	"github.com/pdiddy/postsmith/internal/source"
	"github.com/pdiddy/postsmith/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate articles into the posts directory",
	Long: `Generate builds one or more articles from the template catalog and writes
each one to <posts-dir>/<YYYY-MM-DD>-<slug>.<ext>. Without --category a
category is picked at random for every article.

A batch stops at the first failed article unless --keep-going is set. The
command exits non-zero when any article failed.`,
	RunE: runGenerate,
}

func init() {
	f := generateCmd.Flags()
	f.Int("count", 1, "number of articles to generate")
	f.String("category", "", "category to generate (default: random)")
	f.Uint64("seed", 0, "random seed for a reproducible run (0 = unseeded)")
	f.String("posts-dir", generator.DefaultPostsDir, "directory generated posts are written to")
	f.String("format", string(types.OutputHTML), "output format: html or markdown")
	f.Bool("keep-going", false, "continue the batch after a failed article")
	f.Int("max-attempts", 0, "filename placement attempts on collision (default 3)")
	f.String("image-url", "", "featured image URL pattern with one %d")
	f.String("catalog", "", "catalog file (YAML or TOML; default: embedded catalog)")
	f.Bool("no-ledger", false, "do not record articles in the ledger")
	f.Bool("dry-run", false, "print the composed document instead of writing it")

	bindFlag("generate.count", f.Lookup("count"))
	bindFlag("generate.category", f.Lookup("category"))
	bindFlag("generate.seed", f.Lookup("seed"))
	bindFlag("generate.posts_dir", f.Lookup("posts-dir"))
	bindFlag("generate.format", f.Lookup("format"))
	bindFlag("generate.keep_going", f.Lookup("keep-going"))
	bindFlag("generate.max_attempts", f.Lookup("max-attempts"))
	bindFlag("generate.image_url", f.Lookup("image-url"))
	bindFlag("catalog.path", f.Lookup("catalog"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if cfg.Generate.Count <= 0 {
		return fmt.Errorf("--count must be at least 1, got %d", cfg.Generate.Count)
	}

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	logger := openLogger()
	defer logger.Close()

	opts := generator.Options{
		Config:  cfg.Generate,
		Catalog: cat,
		Chain:   textChain(cfg.Remote),
		Log:     logger,
	}
	if cfg.Generate.KeepGoing {
		opts.Policy = generator.ContinueOnError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		g, err := generator.New(opts)
		if err != nil {
			return err
		}
		return printComposed(ctx, g, cfg.Generate)
	}

	if noLedger, _ := cmd.Flags().GetBool("no-ledger"); !noLedger {
		store, err := openLedger(cfg.Ledger)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
			opts.Ledger = store
		}
	}

	g, err := generator.New(opts)
	if err != nil {
		return err
	}

	logger.Infof("generate: count=%d category=%q format=%s", cfg.Generate.Count, cfg.Generate.Category, g.Config().Format)
	result := g.Batch(ctx, cfg.Generate.Count, cfg.Generate.Category, os.Stdout)
	if result.HasFailures() {
		return fmt.Errorf("%d article(s) failed generation", result.Failed)
	}
	if result.Skipped > 0 {
		return fmt.Errorf("%d article(s) not generated", result.Skipped)
	}
	return nil
}

// textChain builds the body source chain. Without a remote endpoint the
// template body is always used.
func textChain(cfg types.RemoteConfig) source.Chain {
	chain := source.Chain{Required: cfg.Required}
	if cfg.Endpoint == "" {
		return chain
	}
	cfg.APIKey = secrets.Pick(cfg.APIKey, loadedSecrets, secrets.TextAPIKey)
	chain.Providers = append(chain.Providers, source.NewRemote(cfg, os.Stderr))
	return chain
}

func printComposed(ctx context.Context, g *generator.Generator, cfg types.GenerationConfig) error {
	r := render.New()
	for i := 0; i < cfg.Count; i++ {
		a, err := g.Compose(ctx, cfg.Category)
		if err != nil {
			return err
		}
		doc, err := r.Document(a, g.Config().Format)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("# would write %s-%s.%s\n", a.Date.Format("2006-01-02"), a.Slug, g.Config().Format.Ext())
		os.Stdout.Write(doc)
	}
	return nil
}
