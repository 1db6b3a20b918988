// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/postsmith/pkg/types"
)

// DebounceDelay is how long Watch waits after the last change before
// rebuilding.
var DebounceDelay = 300 * time.Millisecond

// Build scans cfg.PostsDir and writes the pages.
func Build(ctx context.Context, cfg types.TaxonomyConfig, w io.Writer) (Index, Summary, error) {
	if w == nil {
		w = io.Discard
	}
	idx, err := Scan(ctx, cfg.PostsDir, w)
	if err != nil {
		return Index{}, Summary{}, err
	}
	sum, err := Write(idx, cfg, w)
	if err != nil {
		return idx, sum, err
	}
	return idx, sum, nil
}

// Watch rebuilds the pages whenever a post in cfg.PostsDir is created,
// written, removed or renamed, until ctx is cancelled. onBuild, when
// non-nil, is called after every rebuild. Watch returns nil on
// cancellation.
func Watch(ctx context.Context, cfg types.TaxonomyConfig, w io.Writer, onBuild func(Index, Summary, error)) error {
	if w == nil {
		w = io.Discard
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.PostsDir); err != nil {
		return fmt.Errorf("watching %s: %w", cfg.PostsDir, err)
	}
	fmt.Fprintf(w, "watching %s for changes\n", cfg.PostsDir)

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsPost(filepath.Base(ev.Name)) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				debounce.Reset(DebounceDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(w, "warning: watcher error: %v\n", err)
		case <-debounce.C:
			idx, sum, err := Build(ctx, cfg, w)
			if err != nil {
				fmt.Fprintf(w, "rebuild failed: %v\n", err)
			} else {
				fmt.Fprintf(w, "rebuilt: %d categories, %d tags, %d pages written\n",
					len(idx.Categories), len(idx.Tags), len(sum.Written))
			}
			if onBuild != nil {
				onBuild(idx, sum, err)
			}
		}
	}
}
