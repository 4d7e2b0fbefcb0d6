package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/domain/registry"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the registry for plugins",
	Long: `Search queries the registry for plugins matching the given text,
restricted to the loaders you run.

Examples:
  plugdex search essentials
  plugdex search "world edit" --loaders paper,purpur
  plugdex search towny --limit 10 --offset 20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var (
	searchLoaders []string
	searchLimit   int
	searchOffset  int
)

func init() {
	searchCmd.Flags().StringSliceVar(&searchLoaders, "loaders", nil, "loaders to filter by (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "maximum number of results (default from config)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	loaders := cfg.Loaders
	if len(searchLoaders) > 0 {
		loaders = searchLoaders
	}
	limit := cfg.Search.PageSize
	if searchLimit > 0 {
		limit = searchLimit
	}

	client := registry.NewClient(registry.ClientConfig{
		BaseURL:   cfg.Registry.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Registry.UserAgent,
	})

	query := strings.Join(args, " ")
	hits, err := client.Search(context.Background(), query, loaders, limit, searchOffset)
	if err != nil {
		return fmt.Errorf("searching for %q: %w", query, err)
	}

	if len(hits) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No results found for %q.\n", query)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tTITLE\tAUTHOR\tDOWNLOADS")
	for _, hit := range hits {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", hit.Slug, hit.Title, hit.Author, hit.Downloads)
	}
	return w.Flush()
}
