package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/domain/inventory"
)

var removeCmd = &cobra.Command{
	Use:   "remove <artifact>",
	Short: "Delete an installed plugin artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targetDir, err := cfg.ResolveTargetDir()
	if err != nil {
		return fmt.Errorf("resolving plugin directory: %w", err)
	}

	tracker := inventory.NewTracker(targetDir)
	if err := tracker.Delete(args[0]); err != nil {
		if errors.Is(err, inventory.ErrNotFound) {
			return fmt.Errorf("%q is not installed in %s", args[0], targetDir)
		}
		return fmt.Errorf("removing %q: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
	return nil
}
