package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/adapters/logging"
	"github.com/plugdex/plugdex/internal/domain/config"
	"github.com/plugdex/plugdex/internal/ports"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "plugdex",
	Short: "Discover and install Minecraft server plugins",
	Long: `Plugdex searches the Modrinth registry for server plugins, filters
releases by the platform loaders you run, and installs artifacts
together with their required dependencies into your plugins directory.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: plugdex.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration file named by --config, falling
// back to defaults when no file is present.
func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger builds the CLI logger on stderr so command output stays clean.
func newLogger() ports.Logger {
	return logging.New(os.Stderr, verbose)
}

// printError prints an error message to stderr.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", err)
}
