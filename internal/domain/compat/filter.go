// Package compat selects which registry versions are usable for a set of
// enabled platform loaders.
package compat

import "github.com/plugdex/plugdex/internal/domain/registry"

// Candidate pairs a usable version with its primary installable file.
type Candidate struct {
	Version registry.Version
	File    registry.File
}

// Filter returns the versions compatible with the allowed loaders, each
// paired with its primary file, preserving input order. A version is kept
// when it has at least one file and its loader set intersects allowed.
// An empty allowed set means no loader restriction: every version with a
// file is kept. This mirrors the search facet, which omits the loader
// group entirely when no loader is enabled.
//
// Filter never mutates its input; the result is a derived view.
func Filter(versions []registry.Version, allowed []string) []Candidate {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, loader := range allowed {
		allowedSet[loader] = struct{}{}
	}

	var candidates []Candidate
	for _, v := range versions {
		if len(allowedSet) > 0 && !intersects(v.Loaders, allowedSet) {
			continue
		}
		file, ok := v.PrimaryFile()
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{Version: v, File: file})
	}
	return candidates
}

func intersects(loaders []string, allowed map[string]struct{}) bool {
	for _, loader := range loaders {
		if _, ok := allowed[loader]; ok {
			return true
		}
	}
	return false
}
