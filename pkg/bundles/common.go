// Package bundles wires the built-in template bundles into a provider the
// pipeline can consume out of the box.
package bundles

import (
	"context"
	"fmt"

	"github.com/goliatone/go-scaffold/pkg/bundles/golang"
	"github.com/goliatone/go-scaffold/pkg/bundles/node"
	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/templates"
)

// Common returns a registry holding every built-in bundle. Callers can
// register additional bundles on the returned registry.
func Common() (*templates.Registry, error) {
	registry := templates.NewRegistry()

	nodeBundle, err := node.New()
	if err != nil {
		return nil, fmt.Errorf("bundles: node bundle: %w", err)
	}
	if err := registry.Register(nodeBundle); err != nil {
		return nil, err
	}

	goBundle, err := golang.New()
	if err != nil {
		return nil, fmt.Errorf("bundles: go bundle: %w", err)
	}
	if err := registry.Register(goBundle); err != nil {
		return nil, err
	}

	return registry, nil
}

// MustCommon panics when the built-in bundles cannot be constructed. The
// bundles are embedded, so a failure indicates a broken build.
func MustCommon() *templates.Registry {
	registry, err := Common()
	if err != nil {
		panic(err)
	}
	return registry
}

// NodeLibrary renders the common node-library file set for the supplied
// manifest. It is the convenience entry point for callers that do not need a
// registry.
func NodeLibrary(ctx context.Context, m manifest.Manifest) (templates.Set, error) {
	registry, err := Common()
	if err != nil {
		return templates.Set{}, err
	}
	return registry.Render(ctx, node.Kind, m.TemplateData())
}

// GoLibrary renders the common Go-library file set for the supplied manifest.
func GoLibrary(ctx context.Context, m manifest.Manifest) (templates.Set, error) {
	registry, err := Common()
	if err != nil {
		return templates.Set{}, err
	}
	return registry.Render(ctx, golang.Kind, m.TemplateData())
}
