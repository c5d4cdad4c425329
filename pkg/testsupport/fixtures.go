// Package testsupport holds the shared fixture helpers: temp-tree builders,
// golden file plumbing gated on UPDATE_GOLDENS, and go-cmp diff shorthands.
package testsupport

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scaffold/pkg/workdir"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// TempTree creates a temp directory populated with the supplied files and
// returns a Tree rooted at it. Keys are slash-separated relative paths.
func TempTree(t *testing.T, files map[string]string) *workdir.Tree {
	t.Helper()

	root := t.TempDir()
	for rel, body := range files {
		target := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			t.Fatalf("mkdir fixture dir: %v", err)
		}
		if err := os.WriteFile(target, []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", rel, err)
		}
	}

	tree, err := workdir.NewTree(root)
	if err != nil {
		t.Fatalf("new tree: %v", err)
	}
	return tree
}

// ReadTreeFile reads a file from a tree, failing the test on error.
func ReadTreeFile(t *testing.T, tree *workdir.Tree, rel string) string {
	t.Helper()

	data, err := tree.ReadFile(rel)
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}
