// Package apimeta implements the OpenAPI metadata parser using kin-openapi.
package apimeta

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	pkgapimeta "github.com/goliatone/go-scaffold/pkg/apimeta"
)

// Parser extracts display metadata from OpenAPI 3 documents.
type Parser struct{}

// Ensure the implementation satisfies the public interface.
var _ pkgapimeta.Parser = (*Parser)(nil)

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

// Meta parses the document and extracts the info block plus an operation
// count. External references are never resolved; the pass stays hermetic.
func (p *Parser) Meta(ctx context.Context, doc pkgapimeta.Document) (pkgapimeta.Meta, error) {
	if err := ctx.Err(); err != nil {
		return pkgapimeta.Meta{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return pkgapimeta.Meta{}, errors.New("apimeta parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: false,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return pkgapimeta.Meta{}, fmt.Errorf("apimeta parser: load document: %w", err)
	}

	meta := pkgapimeta.Meta{
		OperationCount: countOperations(spec),
	}
	if spec.Info != nil {
		meta.Title = spec.Info.Title
		meta.Version = spec.Info.Version
		meta.Description = spec.Info.Description
	}
	if spec.ExternalDocs != nil {
		meta.DocsURL = spec.ExternalDocs.URL
	}
	return meta, nil
}

func countOperations(spec *openapi3.T) int {
	if spec == nil || spec.Paths == nil {
		return 0
	}
	count := 0
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil {
				count++
			}
		}
	}
	return count
}
