// Package inventory tracks installed plugin artifacts in the target
// directory. The filesystem is the source of truth: listings are always
// recomputed from disk, never cached, so external changes to the directory
// are picked up on the next scan.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Tracker errors.
var (
	// ErrNotFound indicates the named artifact is not in the directory.
	ErrNotFound = errors.New("artifact not found")
)

// ArtifactExt is the file extension identifying installable artifacts.
const ArtifactExt = ".jar"

// Artifact is one installed file, derived entirely from the directory
// listing.
type Artifact struct {
	Name string
	Size int64
}

// Tracker scans and mutates the target directory.
type Tracker struct {
	dir string
}

// NewTracker creates a tracker for the given target directory.
func NewTracker(dir string) *Tracker {
	return &Tracker{dir: dir}
}

// Dir returns the target directory.
func (t *Tracker) Dir() string {
	return t.dir
}

// List returns the installed artifacts in directory-iteration order.
// Callers needing a stable order must sort explicitly.
func (t *Tracker) List() ([]Artifact, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read target directory: %w", err)
	}

	var artifacts []Artifact
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ArtifactExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, Artifact{Name: entry.Name(), Size: info.Size()})
	}
	return artifacts, nil
}

// Delete removes the named artifact. Returns ErrNotFound when no such
// file exists or when the name is not an artifact the tracker lists;
// the directory is left unchanged in either case.
func (t *Tracker) Delete(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ArtifactExt) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	path := filepath.Join(t.dir, filepath.Base(name))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", name, err)
	}
	return nil
}

// ContainsMatch reports whether any installed artifact's filename contains
// one of the given terms, compared case-insensitively. This is an
// approximate identity check: filenames are free-form, so false positives
// and negatives are possible and accepted.
func (t *Tracker) ContainsMatch(terms ...string) (bool, error) {
	artifacts, err := t.List()
	if err != nil {
		return false, err
	}
	for _, a := range artifacts {
		name := strings.ToLower(a.Name)
		for _, term := range terms {
			if term == "" {
				continue
			}
			if strings.Contains(name, strings.ToLower(term)) {
				return true, nil
			}
		}
	}
	return false, nil
}
