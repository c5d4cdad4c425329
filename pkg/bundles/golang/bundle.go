// Package golang holds the common template bundle applied to generated
// Go client libraries.
package golang

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-scaffold/pkg/templates"
)

// Kind is the library kind this bundle serves.
const Kind = "go"

//go:embed all:assets
var embeddedAssets embed.FS

// AssetsFS exposes the raw bundle contents.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		// Should never happen, but fall back to raw FS so assets remain usable.
		return embeddedAssets
	}
	return sub
}

// New constructs the Go library bundle.
func New() (templates.Bundle, error) {
	return templates.NewFSBundle(Kind, AssetsFS())
}

// Must panics when the bundle cannot be constructed.
func Must() templates.Bundle {
	bundle, err := New()
	if err != nil {
		panic(err)
	}
	return bundle
}
