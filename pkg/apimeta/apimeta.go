// Package apimeta extracts display metadata from an API definition document
// already present in a working tree (OpenAPI YAML or JSON). The metadata
// fills manifest fields README templates render; the package never generates
// code from the document.
package apimeta

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goliatone/go-scaffold/pkg/manifest"
)

// Meta is the display metadata extracted from an API document.
type Meta struct {
	Title          string
	Version        string
	Description    string
	DocsURL        string
	OperationCount int
}

// IsZero reports whether nothing was extracted.
func (m Meta) IsZero() bool {
	return m == Meta{}
}

// Document wraps a raw API definition payload and where it came from.
type Document struct {
	path string
	raw  []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(path string, raw []byte) (Document, error) {
	if path == "" {
		return Document{}, errors.New("apimeta: document path is required")
	}
	if len(raw) == 0 {
		return Document{}, errors.New("apimeta: raw document is empty")
	}
	return Document{path: path, raw: append([]byte(nil), raw...)}, nil
}

// Path returns the document's origin path.
func (d Document) Path() string {
	return d.path
}

// Raw returns a defensive copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Parser extracts Meta from a Document.
type Parser interface {
	Meta(ctx context.Context, doc Document) (Meta, error)
}

// wellKnownPaths are the places generators leave the API definition,
// relative to the tree root, probed in order.
var wellKnownPaths = []string{
	"openapi.yaml",
	"openapi.yml",
	"openapi.json",
	"api/openapi.yaml",
	"api/openapi.json",
}

// Discover probes the well-known document locations under dir. The boolean
// is false when no document exists; that is not an error.
func Discover(dir string) (Document, bool, error) {
	for _, rel := range wellKnownPaths {
		raw, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Document{}, false, fmt.Errorf("apimeta: read %s: %w", rel, err)
		}
		doc, err := NewDocument(rel, raw)
		if err != nil {
			return Document{}, false, err
		}
		return doc, true, nil
	}
	return Document{}, false, nil
}

// Enrich fills empty display fields of the manifest from the extracted
// metadata. Populated manifest fields always win.
func Enrich(m manifest.Manifest, meta Meta) manifest.Manifest {
	if m.Description == "" && meta.Description != "" {
		m.Description = meta.Description
	}
	if m.Description == "" && meta.Title != "" {
		m.Description = meta.Title
	}
	if m.DocsURL == "" && meta.DocsURL != "" {
		m.DocsURL = meta.DocsURL
	}
	if m.APIID == "" && meta.Title != "" {
		m.APIID = meta.Title
	}
	return m
}

// Loader decorates a manifest.Loader with API-document enrichment.
type Loader struct {
	inner  manifest.Loader
	parser Parser
}

// Ensure the decorator satisfies the loader contract.
var _ manifest.Loader = (*Loader)(nil)

// NewLoader wraps inner so manifests come back enriched whenever the tree
// holds an API definition document.
func NewLoader(inner manifest.Loader, parser Parser) (*Loader, error) {
	if inner == nil {
		return nil, errors.New("apimeta: inner loader is required")
	}
	if parser == nil {
		return nil, errors.New("apimeta: parser is required")
	}
	return &Loader{inner: inner, parser: parser}, nil
}

// Load implements manifest.Loader.
func (l *Loader) Load(ctx context.Context, dir string) (manifest.Manifest, error) {
	m, err := l.inner.Load(ctx, dir)
	if err != nil {
		return manifest.Manifest{}, err
	}

	doc, ok, err := Discover(dir)
	if err != nil {
		return manifest.Manifest{}, err
	}
	if !ok {
		return m, nil
	}

	meta, err := l.parser.Meta(ctx, doc)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("apimeta: parse %s: %w", doc.Path(), err)
	}
	return Enrich(m, meta), nil
}
