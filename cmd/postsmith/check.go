// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/postsmith/internal/frontmatter"
	"github.com/pdiddy/postsmith/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check posts for valid front matter and table of contents links",
	Long: `Check parses the front matter of each post and requires a title, a
YYYY-MM-DD date and at least one category. For Markdown posts it also checks
that every table of contents link points at an existing heading.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	r := render.New()
	problems := 0
	for _, path := range args {
		if err := checkPost(r, path); err != nil {
			fmt.Fprintf(os.Stdout, "problem: %s: %v\n", path, err)
			problems++
			continue
		}
		fmt.Fprintf(os.Stdout, "ok:      %s\n", path)
	}
	if problems > 0 {
		return fmt.Errorf("%d of %d post(s) have problems", problems, len(args))
	}
	return nil
}

func checkPost(r *render.Renderer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return checkDocument(r, f, strings.EqualFold(filepath.Ext(path), ".md"))
}

func checkDocument(r *render.Renderer, src io.Reader, markdown bool) error {
	fm, body, err := frontmatter.Parse(src)
	if err != nil {
		return err
	}
	if err := frontmatter.Validate(fm); err != nil {
		return err
	}
	if !markdown {
		return nil
	}
	if dangling := r.Inspect(body).Dangling(); len(dangling) > 0 {
		dests := make([]string, len(dangling))
		for i, l := range dangling {
			dests[i] = l.Dest
		}
		return fmt.Errorf("links without a matching heading: %s", strings.Join(dests, ", "))
	}
	return nil
}
