package templates_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-scaffold/pkg/templates"
)

type stubBundle struct {
	kind string
	set  templates.Set
	err  error
}

func (b stubBundle) Kind() string { return b.kind }

func (b stubBundle) Render(context.Context, map[string]any) (templates.Set, error) {
	if b.err != nil {
		return templates.Set{}, b.err
	}
	return b.set, nil
}

func TestRegistry_RegisterAndRender(t *testing.T) {
	registry := templates.NewRegistry()
	set := templates.MustNewSet(templates.MustNewFile("LICENSE", nil, 0o644))

	if err := registry.Register(stubBundle{kind: "node", set: set}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !registry.Has("node") {
		t.Fatalf("expected node bundle registered")
	}

	got, err := registry.Render(context.Background(), "node", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("rendered set mismatch: %v", got.Paths())
	}
}

func TestRegistry_DuplicateKind(t *testing.T) {
	registry := templates.NewRegistry()
	if err := registry.Register(stubBundle{kind: "node"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubBundle{kind: "node"}); err == nil {
		t.Fatalf("expected duplicate kind rejection")
	}
}

func TestRegistry_UnknownKind(t *testing.T) {
	registry := templates.NewRegistry()
	if _, err := registry.Render(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestRegistry_KindsSorted(t *testing.T) {
	registry := templates.NewRegistry()
	registry.MustRegister(stubBundle{kind: "node"})
	registry.MustRegister(stubBundle{kind: "go"})

	kinds := registry.Kinds()
	if len(kinds) != 2 || kinds[0] != "go" || kinds[1] != "node" {
		t.Fatalf("kinds not sorted: %v", kinds)
	}
}

func TestRegistry_RejectsNilAndUnnamed(t *testing.T) {
	registry := templates.NewRegistry()
	if err := registry.Register(nil); err == nil {
		t.Fatalf("expected nil bundle rejection")
	}
	if err := registry.Register(stubBundle{kind: ""}); err == nil {
		t.Fatalf("expected unnamed bundle rejection")
	}
}
