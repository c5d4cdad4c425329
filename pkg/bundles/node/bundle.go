// Package node holds the common template bundle applied to generated
// node-style client libraries: license, CI workflow, lint and test tool
// configuration, and the community health files every library carries.
package node

import (
	"embed"
	"io/fs"

	"github.com/goliatone/go-scaffold/pkg/templates"
)

// Kind is the library kind this bundle serves.
const Kind = "node"

//go:embed all:assets
var embeddedAssets embed.FS

// AssetsFS exposes the raw bundle contents for callers that want to inspect
// or extend the file set without rendering it.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		// Should never happen, but fall back to raw FS so assets remain usable.
		return embeddedAssets
	}
	return sub
}

// New constructs the node library bundle.
func New() (templates.Bundle, error) {
	return templates.NewFSBundle(Kind, AssetsFS())
}

// Must panics when the bundle cannot be constructed. Useful for init-time
// registry wiring.
func Must() templates.Bundle {
	bundle, err := New()
	if err != nil {
		panic(err)
	}
	return bundle
}
