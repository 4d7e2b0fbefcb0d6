package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/domain/inventory"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugin artifacts",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targetDir, err := cfg.ResolveTargetDir()
	if err != nil {
		return fmt.Errorf("resolving plugin directory: %w", err)
	}

	artifacts, err := inventory.NewTracker(targetDir).List()
	if err != nil {
		return fmt.Errorf("scanning %s: %w", targetDir, err)
	}

	out := cmd.OutOrStdout()
	if len(artifacts) == 0 {
		fmt.Fprintf(out, "No plugins installed in %s.\n", targetDir)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE")
	for _, artifact := range artifacts {
		fmt.Fprintf(w, "%s\t%d\n", artifact.Name, artifact.Size)
	}
	return w.Flush()
}
