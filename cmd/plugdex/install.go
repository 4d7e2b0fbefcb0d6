package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plugdex/plugdex/internal/domain/compat"
	"github.com/plugdex/plugdex/internal/domain/install"
	"github.com/plugdex/plugdex/internal/domain/inventory"
	"github.com/plugdex/plugdex/internal/domain/registry"
	"github.com/plugdex/plugdex/internal/ports"
)

var installCmd = &cobra.Command{
	Use:   "install <slug>[@version]",
	Short: "Download a plugin into the plugins directory",
	Long: `Install downloads the newest release of a plugin that is compatible
with your loaders, then installs its required dependencies as well.

Examples:
  plugdex install essentialsx
  plugdex install worldedit@7.3.0
  plugdex install luckperms --no-deps`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

var installNoDeps bool

func init() {
	installCmd.Flags().BoolVar(&installNoDeps, "no-deps", false, "skip installing required dependencies")

	rootCmd.AddCommand(installCmd)
}

// printNotifier writes progress notifications to the command output.
type printNotifier struct {
	out io.Writer
}

func (n *printNotifier) Notify(notification ports.Notification) {
	prefix := ""
	switch notification.Severity {
	case ports.SeverityWarning:
		prefix = "warning: "
	case ports.SeverityError:
		prefix = "error: "
	}
	fmt.Fprintf(n.out, "%s%s\n", prefix, notification.Message)
}

func (n *printNotifier) InventoryChanged() {}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger()

	slug, wantVersion := splitSlugVersion(args[0])

	targetDir, err := cfg.ResolveTargetDir()
	if err != nil {
		return fmt.Errorf("resolving plugin directory: %w", err)
	}

	client := registry.NewClient(registry.ClientConfig{
		BaseURL:   cfg.Registry.BaseURL,
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.Registry.UserAgent,
	})

	notifier := &printNotifier{out: cmd.OutOrStdout()}
	installer := install.NewInstaller(install.InstallerConfig{
		TargetDir: targetDir,
		UserAgent: cfg.Registry.UserAgent,
		Workers:   cfg.Install.Workers,
	}, notifier, logger)
	defer installer.Close()

	ctx := context.Background()

	project, err := client.GetProject(ctx, slug)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", slug, err)
	}

	versions, err := client.GetVersions(ctx, project.Slug, cfg.Loaders)
	if err != nil {
		return fmt.Errorf("fetching versions of %q: %w", project.Slug, err)
	}

	candidates := compat.Filter(versions, cfg.Loaders)
	if len(candidates) == 0 {
		return fmt.Errorf("no release of %q is compatible with loaders %s",
			project.Slug, strings.Join(cfg.Loaders, ", "))
	}

	chosen, err := pickCandidate(candidates, wantVersion)
	if err != nil {
		return err
	}

	if err := installer.Install(ctx, chosen.File.URL, chosen.File.Filename); err != nil {
		return fmt.Errorf("installing %s: %w", chosen.File.Filename, err)
	}

	if installNoDeps {
		return nil
	}

	tracker := inventory.NewTracker(targetDir)
	resolver := install.NewResolver(client, tracker, installer, notifier, logger)
	results := resolver.ResolveAndInstall(ctx, chosen.Version, cfg.Loaders)
	for _, result := range results {
		if result.Outcome == install.OutcomeUnresolved {
			fmt.Fprintf(cmd.OutOrStdout(), "dependency %s could not be installed\n", result.ProjectID)
		}
	}
	return nil
}

// splitSlugVersion splits "slug@1.2.0" into its slug and version parts.
func splitSlugVersion(arg string) (slug, version string) {
	slug, version, _ = strings.Cut(arg, "@")
	return slug, version
}

// pickCandidate selects the requested version number, or the newest
// release when none was requested.
func pickCandidate(candidates []compat.Candidate, wantVersion string) (compat.Candidate, error) {
	if wantVersion == "" {
		return candidates[0], nil
	}
	for _, c := range candidates {
		if c.Version.VersionNumber == wantVersion || c.Version.Name == wantVersion {
			return c, nil
		}
	}
	return compat.Candidate{}, fmt.Errorf("version %q not found among compatible releases", wantVersion)
}
