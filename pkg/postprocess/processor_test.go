package postprocess_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/postprocess"
	"github.com/goliatone/go-scaffold/pkg/testsupport"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

func noop(context.Context, *workdir.Tree, manifest.Manifest) error { return nil }

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := postprocess.NewRegistry()
	if err := registry.Register(postprocess.NewProcessorFunc("node", noop, "node")); err != nil {
		t.Fatalf("register: %v", err)
	}

	p, err := registry.Get("node")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.Name() != "node" {
		t.Fatalf("name mismatch: %s", p.Name())
	}

	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected error for unknown processor")
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	registry := postprocess.NewRegistry()
	registry.MustRegister(postprocess.NewProcessorFunc("node", noop))
	if err := registry.Register(postprocess.NewProcessorFunc("node", noop)); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
}

func TestRegistry_ForKind(t *testing.T) {
	registry := postprocess.NewRegistry()
	registry.MustRegister(postprocess.NewProcessorFunc("node-only", noop, "node"))
	registry.MustRegister(postprocess.NewProcessorFunc("go-only", noop, "go"))
	registry.MustRegister(postprocess.NewProcessorFunc("any", noop))

	got := registry.ForKind("node")
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name())
	}

	want := []string{"any", "node-only"}
	if diff := testsupport.CompareGolden(want, names); diff != "" {
		t.Fatalf("kind filter mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Select(t *testing.T) {
	registry := postprocess.NewRegistry()
	registry.MustRegister(postprocess.NewProcessorFunc("headers", noop))
	registry.MustRegister(postprocess.NewProcessorFunc("node", noop, "node"))

	selected, err := registry.Select("node", " headers ")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	names := make([]string, 0, len(selected))
	for _, p := range selected {
		names = append(names, p.Name())
	}
	want := []string{"node", "headers"}
	if diff := testsupport.CompareGolden(want, names); diff != "" {
		t.Fatalf("selection order mismatch (-want +got):\n%s", diff)
	}

	if _, err := registry.Select("node", "missing"); err == nil {
		t.Fatalf("expected error for unknown processor name")
	}
}

func TestServesKind(t *testing.T) {
	anyKind := postprocess.NewProcessorFunc("any", noop)
	nodeOnly := postprocess.NewProcessorFunc("node", noop, "node")

	if !postprocess.ServesKind(anyKind, "go") {
		t.Fatalf("empty kinds must serve everything")
	}
	if postprocess.ServesKind(nodeOnly, "go") {
		t.Fatalf("node processor must not serve go")
	}
	if !postprocess.ServesKind(nodeOnly, "node") {
		t.Fatalf("node processor must serve node")
	}
}

func TestChain_OrderAndFailFast(t *testing.T) {
	tree := testsupport.TempTree(t, nil)
	var calls []string

	first := postprocess.NewProcessorFunc("first", func(context.Context, *workdir.Tree, manifest.Manifest) error {
		calls = append(calls, "first")
		return nil
	})
	boom := errors.New("boom")
	second := postprocess.NewProcessorFunc("second", func(context.Context, *workdir.Tree, manifest.Manifest) error {
		calls = append(calls, "second")
		return boom
	})
	third := postprocess.NewProcessorFunc("third", func(context.Context, *workdir.Tree, manifest.Manifest) error {
		calls = append(calls, "third")
		return nil
	})

	err := postprocess.Chain(testsupport.Context(), tree, manifest.Manifest{}, first, second, third)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
	if diff := testsupport.CompareGolden([]string{"first", "second"}, calls); diff != "" {
		t.Fatalf("chain order mismatch (-want +got):\n%s", diff)
	}
}

func TestProcessorFunc_NilFunction(t *testing.T) {
	p := postprocess.ProcessorFunc{}
	tree := testsupport.TempTree(t, nil)
	if err := p.Process(testsupport.Context(), tree, manifest.Manifest{}); err == nil {
		t.Fatalf("expected error for processor without function")
	}
}
