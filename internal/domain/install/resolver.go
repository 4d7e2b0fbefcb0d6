package install

import (
	"context"

	"github.com/plugdex/plugdex/internal/domain/compat"
	"github.com/plugdex/plugdex/internal/domain/registry"
	"github.com/plugdex/plugdex/internal/ports"
)

// Catalog is the slice of the registry client the resolver needs.
type Catalog interface {
	GetProject(ctx context.Context, idOrSlug string) (*registry.Project, error)
	GetVersions(ctx context.Context, idOrSlug string, loaders []string) ([]registry.Version, error)
}

// InstalledIndex reports whether an artifact matching any of the given
// terms is already present in the target directory.
type InstalledIndex interface {
	ContainsMatch(terms ...string) (bool, error)
}

// ArtifactInstaller installs a single artifact.
type ArtifactInstaller interface {
	Install(ctx context.Context, url, filename string) error
}

// DependencyOutcome classifies what happened to one declared dependency.
type DependencyOutcome string

const (
	// OutcomeInstalled means a compatible version was fetched and installed.
	OutcomeInstalled DependencyOutcome = "installed"
	// OutcomeAlreadyInstalled means a matching artifact was already on disk.
	OutcomeAlreadyInstalled DependencyOutcome = "already-installed"
	// OutcomeUnresolved means the project or a compatible version was
	// missing, or the install failed.
	OutcomeUnresolved DependencyOutcome = "unresolved"
)

// DependencyResult records the outcome for one required dependency.
type DependencyResult struct {
	ProjectID string
	Title     string
	Outcome   DependencyOutcome
	Filename  string
}

// Resolver installs the missing required dependencies of a chosen version.
//
// Resolution is one level deep by construction: a single loop over the
// direct dependency list, never a recursive walk. Dependencies of
// dependencies are not fetched.
type Resolver struct {
	catalog   Catalog
	installed InstalledIndex
	installer ArtifactInstaller
	notifier  ports.Notifier
	logger    ports.Logger
}

// NewResolver creates a dependency resolver.
func NewResolver(catalog Catalog, installed InstalledIndex, installer ArtifactInstaller, notifier ports.Notifier, logger ports.Logger) *Resolver {
	return &Resolver{
		catalog:   catalog,
		installed: installed,
		installer: installer,
		notifier:  notifier,
		logger:    logger,
	}
}

// ResolveAndInstall walks the version's required dependencies in declared
// order and installs one compatible version of each that is not already
// present. Each dependency is handled independently: a failure produces a
// warning and resolution continues with the next one.
func (r *Resolver) ResolveAndInstall(ctx context.Context, version registry.Version, allowedLoaders []string) []DependencyResult {
	var results []DependencyResult
	for _, dep := range version.RequiredDependencies() {
		results = append(results, r.resolveOne(ctx, dep, allowedLoaders))
	}
	return results
}

func (r *Resolver) resolveOne(ctx context.Context, dep registry.Dependency, allowedLoaders []string) DependencyResult {
	result := DependencyResult{ProjectID: dep.ProjectID, Outcome: OutcomeUnresolved}

	project, err := r.catalog.GetProject(ctx, dep.ProjectID)
	if err != nil {
		r.logger.Warn("dependency project not found", "project", dep.ProjectID, "err", err)
		r.notifier.Notify(ports.Warnf("Could not resolve dependency %s", dep.ProjectID))
		return result
	}
	result.Title = project.Title

	// Approximate identity: an artifact filename containing the slug or
	// title counts as installed. Filenames are free-form, so this can
	// miss or over-match; that is accepted behavior.
	found, err := r.installed.ContainsMatch(project.Slug, project.Title)
	if err != nil {
		r.logger.Warn("could not scan installed artifacts", "err", err)
	}
	if found {
		r.notifier.Notify(ports.Infof("Dependency %s already installed, skipping", project.Title))
		result.Outcome = OutcomeAlreadyInstalled
		return result
	}

	versions, err := r.catalog.GetVersions(ctx, project.Slug, allowedLoaders)
	if err != nil {
		r.logger.Warn("failed to fetch dependency versions", "project", project.Slug, "err", err)
	}

	candidates := compat.Filter(versions, allowedLoaders)
	if len(candidates) == 0 {
		r.notifier.Notify(ports.Warnf("No compatible version of dependency %s found", project.Title))
		return result
	}

	// Newest first: the first candidate is the latest compatible version.
	file := candidates[0].File
	if err := r.installer.Install(ctx, file.URL, file.Filename); err != nil {
		// Installer already notified; the overall install continues.
		return result
	}

	result.Outcome = OutcomeInstalled
	result.Filename = file.Filename
	return result
}
