// Package scaffold stages common project templates (license, CI config,
// lint configuration) onto a generated client-library working tree and runs
// hermetic post-processing over the generated sources. The root package
// re-exports the pipeline surface so most callers need a single import.
package scaffold

import (
	"context"

	internalapimeta "github.com/goliatone/go-scaffold/internal/apimeta"
	internalmanifest "github.com/goliatone/go-scaffold/internal/manifest"
	"github.com/goliatone/go-scaffold/pkg/apimeta"
	"github.com/goliatone/go-scaffold/pkg/bundles"
	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/pipeline"
	"github.com/goliatone/go-scaffold/pkg/templates"
)

// Request describes one scaffolding run; alias exported via the root package
// for convenience.
type Request = pipeline.Request

// Report summarises what a run did.
type Report = pipeline.Report

// Manifest carries the metadata describing a generated client library.
type Manifest = manifest.Manifest

// NewPipeline exposes the pipeline constructor from the top-level module.
func NewPipeline(options ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// Run stages the common templates onto the working tree and post-processes
// the generated sources. It is the simplest entry point: defaults for every
// collaborator, manifest enrichment from any API document found in the tree.
func Run(ctx context.Context, req Request, options ...pipeline.Option) (Report, error) {
	loader, err := apimeta.NewLoader(internalmanifest.New(), internalapimeta.New())
	if err != nil {
		return Report{}, err
	}
	opts := append([]pipeline.Option{pipeline.WithManifestLoader(loader)}, options...)
	p := pipeline.New(opts...)
	return p.Run(ctx, req)
}

// CommonTemplates returns the registry of built-in template bundles so
// callers can reuse or extend them without importing the bundle packages
// directly.
func CommonTemplates() (*templates.Registry, error) {
	return bundles.Common()
}

// NodeLibrary renders the common node-library file set for the supplied
// manifest.
func NodeLibrary(ctx context.Context, m Manifest) (templates.Set, error) {
	return bundles.NodeLibrary(ctx, m)
}

// GoLibrary renders the common Go-library file set for the supplied
// manifest.
func GoLibrary(ctx context.Context, m Manifest) (templates.Set, error) {
	return bundles.GoLibrary(ctx, m)
}
