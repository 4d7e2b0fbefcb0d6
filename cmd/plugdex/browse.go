package main

import (
	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the registry interactively",
	Long: `Browse opens an interactive terminal UI for searching the registry,
inspecting plugin releases, and installing them with their required
dependencies.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return tui.Run(cfg, newLogger())
}
