// Package registry provides a read-only client for the Modrinth plugin
// registry and the entities it returns.
package registry

import "encoding/json"

// DependencyKind classifies a declared dependency relationship.
type DependencyKind string

const (
	// DependencyRequired means the depending version will not function
	// without the referenced project installed.
	DependencyRequired DependencyKind = "required"
	// DependencyOptional means the referenced project is recommended.
	DependencyOptional DependencyKind = "optional"
	// DependencyIncompatible means the two projects must not be combined.
	DependencyIncompatible DependencyKind = "incompatible"
	// DependencyEmbedded means the referenced project ships inside the file.
	DependencyEmbedded DependencyKind = "embedded"
)

// ProjectSummary is a single search hit.
type ProjectSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Downloads   int    `json:"downloads"`
}

// Project is the full record for one registry project. Immutable once
// fetched; the engine refetches per selection and never merges across
// fetches.
type Project struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Body        string `json:"body"`
}

// LongText returns the best available long-form description.
func (p Project) LongText() string {
	if p.Body != "" {
		return p.Body
	}
	if p.Description != "" {
		return p.Description
	}
	return "No description available."
}

// File is one downloadable artifact of a version. The registry-assigned
// filename doubles as the on-disk artifact identity.
type File struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
}

// Dependency references another project a version depends on.
type Dependency struct {
	ProjectID string         `json:"project_id"`
	VersionID string         `json:"version_id"`
	Kind      DependencyKind `json:"dependency_type"`
}

// Version is one released version of a project. The registry returns
// versions newest first; callers rely on that ordering to mean "latest
// compatible first".
type Version struct {
	ID            string       `json:"id"`
	ProjectID     string       `json:"project_id"`
	Name          string       `json:"name"`
	VersionNumber string       `json:"version_number"`
	Loaders       []string     `json:"loaders"`
	Dependencies  []Dependency `json:"dependencies"`
	Files         []File       `json:"files"`
}

// DisplayName returns the version's display name, falling back to the
// version number when the name is absent.
func (v Version) DisplayName() string {
	if v.Name != "" {
		return v.Name
	}
	return v.VersionNumber
}

// PrimaryFile returns the version's canonical installable artifact: the
// file flagged primary, or the first file when none is flagged.
func (v Version) PrimaryFile() (File, bool) {
	for _, f := range v.Files {
		if f.Primary {
			return f, true
		}
	}
	if len(v.Files) > 0 {
		return v.Files[0], true
	}
	return File{}, false
}

// RequiredDependencies returns the version's required dependencies in
// declared order.
func (v Version) RequiredDependencies() []Dependency {
	var deps []Dependency
	for _, d := range v.Dependencies {
		if d.Kind == DependencyRequired {
			deps = append(deps, d)
		}
	}
	return deps
}

// searchResponse mirrors the registry's search envelope.
type searchResponse struct {
	Hits []ProjectSummary `json:"hits"`
}

// parseSearch decodes a search response, dropping hits without a slug.
// The slug is the row key downstream; an entry without one is unusable.
func parseSearch(data []byte) ([]ProjectSummary, error) {
	var resp searchResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	hits := resp.Hits[:0:0]
	for _, h := range resp.Hits {
		if h.Slug == "" {
			continue
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// parseVersions decodes a version list, dropping malformed entries rather
// than failing the whole response.
func parseVersions(data []byte) ([]Version, error) {
	var versions []Version
	if err := json.Unmarshal(data, &versions); err != nil {
		return nil, err
	}
	valid := versions[:0:0]
	for _, v := range versions {
		if v.ID == "" {
			continue
		}
		v.Files = validFiles(v.Files)
		valid = append(valid, v)
	}
	return valid, nil
}

// validFiles drops file entries missing a URL or filename.
func validFiles(files []File) []File {
	valid := files[:0:0]
	for _, f := range files {
		if f.URL == "" || f.Filename == "" {
			continue
		}
		valid = append(valid, f)
	}
	return valid
}
