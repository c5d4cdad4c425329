package manifest

import (
	"context"
	"strings"
	"time"
)

// Manifest carries the metadata describing a generated client library. It is
// the data templates render against and the record post-processors consult
// when normalising generated sources. Every field is optional; loaders merge
// whatever their sources provide and leave the rest empty.
type Manifest struct {
	// Name is the distribution name of the library (for node trees the
	// package.json name, e.g. "@acme/speech").
	Name string `json:"name" yaml:"name"`

	// Version is the current library version, without a leading "v".
	Version string `json:"version" yaml:"version"`

	// Kind names the library flavour the tree holds ("node", "go", ...).
	Kind string `json:"kind" yaml:"kind"`

	// Description is a one-line summary used by README templates.
	Description string `json:"description" yaml:"description"`

	// Repository is the canonical repository URL (https form, no .git suffix).
	Repository string `json:"repository" yaml:"repository"`

	// DefaultBranch is the branch CI templates target. Empty means "main".
	DefaultBranch string `json:"defaultBranch" yaml:"default_branch"`

	// ReleaseLevel is the launch stage badge: "stable", "preview".
	ReleaseLevel string `json:"releaseLevel" yaml:"release_level"`

	// APIID identifies the API surface the library was generated from.
	APIID string `json:"apiId" yaml:"api_id"`

	// DocsURL points at the published reference documentation.
	DocsURL string `json:"docsUrl" yaml:"docs_url"`

	// Year is the copyright year stamped into license headers. Zero means
	// "use the current year".
	Year int `json:"year" yaml:"year"`
}

// Loader resolves a Manifest from a working tree. Implementations decide
// which files to consult; the pipeline treats the result as opaque metadata.
type Loader interface {
	Load(ctx context.Context, dir string) (Manifest, error)
}

// LoaderFunc adapts a plain function into a Loader.
type LoaderFunc func(ctx context.Context, dir string) (Manifest, error)

// Load implements Loader.
func (fn LoaderFunc) Load(ctx context.Context, dir string) (Manifest, error) {
	return fn(ctx, dir)
}

// Static returns a Loader that always yields the supplied manifest. Useful in
// tests and for callers that resolve metadata themselves.
func Static(m Manifest) Loader {
	return LoaderFunc(func(context.Context, string) (Manifest, error) {
		return m, nil
	})
}

// Merge overlays other onto m: non-empty fields in other win. The receiver is
// not mutated.
func (m Manifest) Merge(other Manifest) Manifest {
	out := m
	if other.Name != "" {
		out.Name = other.Name
	}
	if other.Version != "" {
		out.Version = other.Version
	}
	if other.Kind != "" {
		out.Kind = other.Kind
	}
	if other.Description != "" {
		out.Description = other.Description
	}
	if other.Repository != "" {
		out.Repository = other.Repository
	}
	if other.DefaultBranch != "" {
		out.DefaultBranch = other.DefaultBranch
	}
	if other.ReleaseLevel != "" {
		out.ReleaseLevel = other.ReleaseLevel
	}
	if other.APIID != "" {
		out.APIID = other.APIID
	}
	if other.DocsURL != "" {
		out.DocsURL = other.DocsURL
	}
	if other.Year != 0 {
		out.Year = other.Year
	}
	return out
}

// IsZero reports whether no field carries a value.
func (m Manifest) IsZero() bool {
	return m == Manifest{}
}

// Branch returns the default branch, falling back to "main".
func (m Manifest) Branch() string {
	if branch := strings.TrimSpace(m.DefaultBranch); branch != "" {
		return branch
	}
	return "main"
}

// CopyrightYear returns the configured year or the current one when unset.
func (m Manifest) CopyrightYear() int {
	if m.Year != 0 {
		return m.Year
	}
	return time.Now().Year()
}

// TemplateData flattens the manifest into the map shape the template engine
// consumes. Keys are stable; templates rely on them by name.
func (m Manifest) TemplateData() map[string]any {
	return map[string]any{
		"name":           m.Name,
		"version":        m.Version,
		"kind":           m.Kind,
		"description":    m.Description,
		"repository":     m.Repository,
		"default_branch": m.Branch(),
		"release_level":  m.ReleaseLevel,
		"api_id":         m.APIID,
		"docs_url":       m.DocsURL,
		"year":           m.CopyrightYear(),
	}
}
