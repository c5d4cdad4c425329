package apimeta_test

import (
	"context"
	"testing"

	internalapimeta "github.com/goliatone/go-scaffold/internal/apimeta"
	pkgapimeta "github.com/goliatone/go-scaffold/pkg/apimeta"
)

const petstoreYAML = `openapi: 3.0.0
info:
  title: Petstore API
  version: 1.2.0
  description: A sample API for pets.
externalDocs:
  url: https://docs.example.com/petstore
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        '200':
          description: ok
    post:
      operationId: createPet
      responses:
        '201':
          description: created
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: ok
`

func TestMeta_ExtractsInfoBlock(t *testing.T) {
	doc, err := pkgapimeta.NewDocument("openapi.yaml", []byte(petstoreYAML))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	meta, err := internalapimeta.New().Meta(context.Background(), doc)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}

	if meta.Title != "Petstore API" {
		t.Fatalf("title mismatch: %q", meta.Title)
	}
	if meta.Version != "1.2.0" {
		t.Fatalf("version mismatch: %q", meta.Version)
	}
	if meta.Description != "A sample API for pets." {
		t.Fatalf("description mismatch: %q", meta.Description)
	}
	if meta.DocsURL != "https://docs.example.com/petstore" {
		t.Fatalf("docs url mismatch: %q", meta.DocsURL)
	}
	if meta.OperationCount != 3 {
		t.Fatalf("operation count mismatch: %d", meta.OperationCount)
	}
}

func TestMeta_MalformedDocument(t *testing.T) {
	doc, err := pkgapimeta.NewDocument("openapi.yaml", []byte(":\n  - not openapi"))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	if _, err := internalapimeta.New().Meta(context.Background(), doc); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestMeta_CancelledContext(t *testing.T) {
	doc, err := pkgapimeta.NewDocument("openapi.yaml", []byte(petstoreYAML))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := internalapimeta.New().Meta(ctx, doc); err == nil {
		t.Fatalf("expected context error")
	}
}
