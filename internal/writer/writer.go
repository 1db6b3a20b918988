// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package writer places generated documents in the posts directory without
// ever overwriting an existing file.
package writer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/postsmith/internal/random"
	"github.com/pdiddy/postsmith/internal/slug"
)

// DefaultMaxAttempts is the number of placement attempts when MaxAttempts
// is not set.
const DefaultMaxAttempts = 3

// ErrCollision is returned when every attempted filename already exists.
var ErrCollision = errors.New("filename collision")

// Name identifies a post file: <date>-<slug>.<ext>.
type Name struct {
	Date time.Time
	Slug string
	Ext  string
}

// String renders the filename.
func (n Name) String() string {
	return fmt.Sprintf("%s-%s.%s", n.Date.Format("2006-01-02"), n.Slug, n.Ext)
}

// Writer creates post files in Dir.
type Writer struct {
	// Dir is created on first use.
	Dir string

	// MaxAttempts bounds the number of filenames tried, including the first.
	MaxAttempts int

	// Rand supplies escalation suffixes.
	Rand random.Source
}

// Placed describes a successful write.
type Placed struct {
	Path     string
	Slug     string
	Attempts int
}

// Place writes data to Dir/name. The file is created atomically and only if
// the target does not exist. On collision the slug gets an escalation
// suffix and placement is retried, up to MaxAttempts in total; exhausting
// them returns an error wrapping ErrCollision. Any other I/O failure is
// returned immediately.
func (w *Writer) Place(ctx context.Context, name Name, data []byte) (Placed, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return Placed{}, fmt.Errorf("creating posts directory: %w", err)
	}

	attempts := w.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	rng := w.Rand
	if rng == nil {
		rng = random.New(0)
	}

	tmp, err := w.stage(data)
	if err != nil {
		return Placed{}, err
	}
	defer os.Remove(tmp)

	current := name
	noLinks := false
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return Placed{}, err
		}
		path := filepath.Join(w.Dir, current.String())
		var err error
		if !noLinks {
			err = link(tmp, path)
			noLinks = linksUnsupported(err)
		}
		if noLinks {
			err = createExclusive(path, data)
		}
		if err == nil {
			return Placed{Path: path, Slug: current.Slug, Attempts: i}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return Placed{}, fmt.Errorf("writing %s: %w", path, err)
		}
		current.Slug = name.Slug + "-" + slug.Escalation(rng)
	}
	return Placed{}, fmt.Errorf("placing %s after %d attempts: %w", name, attempts, ErrCollision)
}

// link hard-links the staged file to its final name.
var link = os.Link

// linksUnsupported reports whether err means the filesystem cannot hard-link
// (FAT, some network and shared-folder mounts).
func linksUnsupported(err error) bool {
	return err != nil && (errors.Is(err, errors.ErrUnsupported) || errors.Is(err, fs.ErrPermission))
}

// createExclusive writes data to path only if path does not exist. A
// partially written file is removed.
func createExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(path)
		return writeErr
	}
	return nil
}

// stage writes data to a hidden temp file in Dir and returns its path.
func (w *Writer) stage(data []byte) (string, error) {
	f, err := os.CreateTemp(w.Dir, ".postsmith-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmp := f.Name()

	_, writeErr := f.Write(data)
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("setting file mode: %w", err)
	}
	return tmp, nil
}
