//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for postsmith developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// siteDirs lists the working directories a site using postsmith expects.
var siteDirs = []string{
	"_posts",
	"categories",
	"tags",
	".postsmith",
	".secrets",
}

// Init creates the site directory structure.
func Init() error {
	for _, dir := range siteDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Site directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "postsmith"
	cmdPkg  = "./cmd/postsmith"
)

// binPath is the CLI binary produced by Build.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/, stamping the version from
// POSTSMITH_VERSION when set.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	ldflags := ""
	if v := os.Getenv("POSTSMITH_VERSION"); v != "" {
		ldflags = "-X main.version=" + v
	}
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Generate writes articles with the CLI. COUNT and CATEGORY select how many
// and which category (default: one article, random category).
func Generate() error {
	mg.Deps(Init, Build)
	args := []string{"generate"}
	if n := os.Getenv("COUNT"); n != "" {
		args = append(args, "--count", n)
	}
	if c := os.Getenv("CATEGORY"); c != "" {
		args = append(args, "--category", c)
	}
	return sh.RunV(binPath, args...)
}

// Taxonomy rebuilds the category and tag index pages.
func Taxonomy() error {
	mg.Deps(Init, Build)
	return sh.RunV(binPath, "taxonomy")
}

// Stats prints project metrics: Go production/test LOC and the number of
// generated posts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}
	posts, err := countPosts("_posts")
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	fmt.Printf("Posts in _posts:                %d\n", posts)
	return nil
}

// countGoLines counts non-blank lines in Go files below root, skipping
// underscore and dot directories. testOnly selects _test.go files instead
// of production files.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		if strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}

// countPosts counts .md and .html files in dir. A missing directory counts
// as zero.
func countPosts(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	n := 0
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".md" || ext == ".html") {
			n++
		}
	}
	return n, nil
}
