// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/postsmith/internal/ledger"
	"github.com/pdiddy/postsmith/internal/logging"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show articles recorded in the generation ledger",
	Long: `History lists the articles generate has written, newest first, from the
ledger database in the state directory. Filters narrow the list by category,
title substring and date. --export writes the matching entries to a YAML or
JSON file; --stats prints article counts per category; --log prints the last
lines of the run log instead.`,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.String("category", "", "only entries in this category")
	f.String("title", "", "only entries whose title contains this text")
	f.String("since", "", "only entries created on or after this date (YYYY-MM-DD)")
	f.Int("limit", 20, "maximum number of entries (0 = all)")
	f.Bool("json", false, "output entries as JSON")
	f.String("export", "", "write matching entries to this .yaml or .json file")
	f.Bool("stats", false, "print article counts per category")
	f.Int("log", 0, "print the last N lines of the run log")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if n, _ := cmd.Flags().GetInt("log"); n > 0 {
		path := filepath.Join(viper.GetString("state_dir"), "logs", logging.FileName)
		lines, err := logging.Tail(path, n)
		if err != nil {
			return err
		}
		for _, l := range lines {
			fmt.Println(l)
		}
		return nil
	}

	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	store, err := openLedger(cfg.Ledger)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("ledger is disabled (ledger.dir is empty)")
	}
	defer store.Close()

	ctx := context.Background()
	if stats, _ := cmd.Flags().GetBool("stats"); stats {
		counts, err := store.CategoryCounts(ctx)
		if err != nil {
			return err
		}
		total := 0
		for _, c := range counts {
			fmt.Printf("%-30s  %d\n", c.Category, c.Count)
			total += c.Count
		}
		fmt.Printf("\n%d articles in %d categories\n", total, len(counts))
		return nil
	}

	filter, err := historyFilter(cmd)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("export"); path != "" {
		n, err := store.Export(ctx, path, filter)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d entries to %s\n", n, path)
		return nil
	}

	entries, err := store.List(ctx, filter)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistory(entries, jsonOutput)
}

func historyFilter(cmd *cobra.Command) (ledger.Filter, error) {
	var f ledger.Filter
	f.Category, _ = cmd.Flags().GetString("category")
	f.Title, _ = cmd.Flags().GetString("title")
	f.Limit, _ = cmd.Flags().GetInt("limit")
	if since, _ := cmd.Flags().GetString("since"); since != "" {
		t, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return f, fmt.Errorf("invalid --since %q: want YYYY-MM-DD", since)
		}
		f.Since = t
	}
	return f, nil
}

func formatHistory(entries []ledger.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No articles recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-10s  %-18s  %-45s  %-8s  %s\n", "Date", "Category", "Title", "Source", "Path")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for _, e := range entries {
		fmt.Fprintf(os.Stdout, "%-10s  %-18s  %-45s  %-8s  %s\n",
			e.Date, clip(e.Category, 18), clip(e.Title, 45), e.Source, e.Path)
	}
	fmt.Fprintf(os.Stdout, "\n%d entries\n", len(entries))
	return nil
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
