// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/postsmith/internal/taxonomy"
)

var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Build category and tag index pages from existing posts",
	Long: `Taxonomy scans the posts directory, collects the categories and tags from
each post's front matter, and writes one index page per category and tag plus
the categories/ and tags/ overview pages. Pages that are already current are
left untouched. Posts whose front matter cannot be parsed are reported and
skipped.

With --watch the pages are rebuilt whenever a post changes, until interrupted.`,
	RunE: runTaxonomy,
}

func init() {
	f := taxonomyCmd.Flags()
	f.String("posts-dir", "_posts", "directory scanned for posts")
	f.String("categories-dir", "categories", "directory receiving category pages")
	f.String("tags-dir", "tags", "directory receiving tag pages")
	f.Bool("watch", false, "rebuild whenever a post changes")

	bindFlag("taxonomy.posts_dir", f.Lookup("posts-dir"))
	bindFlag("taxonomy.categories_dir", f.Lookup("categories-dir"))
	bindFlag("taxonomy.tags_dir", f.Lookup("tags-dir"))

	rootCmd.AddCommand(taxonomyCmd)
}

func runTaxonomy(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	logger := openLogger()
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	idx, sum, err := taxonomy.Build(ctx, cfg.Taxonomy, os.Stderr)
	if err != nil {
		return err
	}
	for _, path := range sum.Written {
		fmt.Printf("wrote: %s\n", path)
	}
	fmt.Printf("\nTaxonomy summary: %d posts, %d categories, %d tags; %d pages written, %d unchanged, %d posts skipped\n",
		idx.Posts, len(idx.Categories), len(idx.Tags), len(sum.Written), sum.Unchanged, len(idx.Skipped))
	logger.Infof("taxonomy: %d categories, %d tags, %d pages written", len(idx.Categories), len(idx.Tags), len(sum.Written))

	if watch, _ := cmd.Flags().GetBool("watch"); !watch {
		return nil
	}
	return taxonomy.Watch(ctx, cfg.Taxonomy, os.Stdout, func(idx taxonomy.Index, sum taxonomy.Summary, err error) {
		if err != nil {
			logger.Errorf("taxonomy rebuild failed: %v", err)
			return
		}
		logger.Infof("taxonomy rebuilt: %d categories, %d tags, %d pages written", len(idx.Categories), len(idx.Tags), len(sum.Written))
	})
}
