package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/domain/compat"
	"github.com/plugdex/plugdex/internal/domain/registry"
)

var infoCmd = &cobra.Command{
	Use:   "info <slug>",
	Short: "Show project details and compatible releases",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := registry.NewClient(registry.ClientConfig{
		BaseURL:   cfg.Registry.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Registry.UserAgent,
	})

	ctx := context.Background()
	project, err := client.GetProject(ctx, args[0])
	if err != nil {
		return fmt.Errorf("looking up %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n\n", project.Title, project.Slug)
	fmt.Fprintln(out, project.LongText())

	versions, err := client.GetVersions(ctx, project.Slug, cfg.Loaders)
	if err != nil {
		return fmt.Errorf("fetching versions of %q: %w", project.Slug, err)
	}

	candidates := compat.Filter(versions, cfg.Loaders)
	fmt.Fprintf(out, "\nCompatible releases (%s):\n", strings.Join(cfg.Loaders, ", "))
	if len(candidates) == 0 {
		fmt.Fprintln(out, "  none")
		return nil
	}
	for _, c := range candidates {
		line := fmt.Sprintf("  %s (%s)", c.Version.DisplayName(), strings.Join(c.Version.Loaders, ", "))
		if deps := c.Version.RequiredDependencies(); len(deps) > 0 {
			line += fmt.Sprintf(" requires %d dependencies", len(deps))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
