// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/postsmith/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage the category/template catalog",
	Long: `Catalog works with the category and template catalog used by generate.
The embedded catalog is used unless catalog.path (or --catalog) names a YAML
or TOML file.`,
}

// catalogPath prefers --catalog over the configured catalog.path.
func catalogPath(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("catalog"); f != nil && f.Changed {
		return f.Value.String()
	}
	return viper.GetString("catalog.path")
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories and their template counts",
	RunE:  runCatalogList,
}

type categoryRow struct {
	Category  string   `json:"category"`
	Templates int      `json:"templates"`
	Titles    []string `json:"titles,omitempty"`
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(catalogPath(cmd))
	if err != nil {
		return err
	}
	lib := catalog.NewLibrary(cat)
	verbose, _ := cmd.Flags().GetBool("titles")

	rows := make([]categoryRow, 0, len(cat.Categories))
	for _, name := range catalog.NewStore(cat).Categories() {
		row := categoryRow{Category: name}
		for _, t := range lib.Templates(name) {
			row.Templates++
			if verbose {
				row.Titles = append(row.Titles, catalog.Expand(t, name).Title)
			}
		}
		rows = append(rows, row)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-30s  %s\n", "#", "Category", "Templates")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 50))
	for i, row := range rows {
		fmt.Fprintf(os.Stdout, "%-4d  %-30s  %d\n", i+1, row.Category, row.Templates)
		for _, title := range row.Titles {
			fmt.Fprintf(os.Stdout, "      - %s\n", title)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d categories, %d templates\n", len(rows), cat.TemplateCount())
	return nil
}

// --- validate subcommand ---

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a catalog file",
	Long: `Validate parses a catalog file (default: the configured catalog) and
checks that every category is named once, every template belongs to a listed
category, and no title, body or power phrase is empty.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := catalogPath(cmd)
		if len(args) == 1 {
			path = args[0]
		}
		cat, err := catalog.Load(path)
		if err != nil {
			return err
		}
		if path == "" {
			path = "embedded catalog"
		}
		fmt.Printf("ok: %s (%d categories, %d templates)\n", path, len(cat.Categories), cat.TemplateCount())
		return nil
	},
}

// --- init subcommand ---

var catalogInitCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the embedded catalog to a file for editing",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "postsmith-catalog.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
		if force {
			flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		}
		f, err := os.OpenFile(path, flags, 0o644)
		if err != nil {
			if os.IsExist(err) {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			return fmt.Errorf("creating %s: %w", path, err)
		}
		if _, err := f.Write(catalog.DefaultBytes()); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("wrote %s\nset catalog.path in postsmith.yaml to use it\n", path)
		return nil
	},
}

func init() {
	catalogCmd.PersistentFlags().String("catalog", "", "catalog file (YAML or TOML; default: embedded catalog)")
	catalogListCmd.Flags().Bool("json", false, "output as JSON")
	catalogListCmd.Flags().Bool("titles", false, "list template titles under each category")
	catalogInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	catalogCmd.AddCommand(catalogInitCmd)
	rootCmd.AddCommand(catalogCmd)
}
