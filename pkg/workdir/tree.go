// Package workdir models the working tree the scaffolding pipeline writes
// into. A Tree is a rooted directory handle whose resolution guards against
// writes escaping the root; the Applier copies rendered template sets onto it.
package workdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrOutsideTree is returned when a path would resolve outside the tree root.
var ErrOutsideTree = errors.New("workdir: path escapes the tree root")

// Tree is a handle on the working-tree root directory.
type Tree struct {
	root string
}

// NewTree validates dir and returns a Tree rooted at it. The directory must
// exist.
func NewTree(dir string) (*Tree, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, errors.New("workdir: tree root is required")
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return nil, fmt.Errorf("workdir: resolve root %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workdir: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workdir: root %q is not a directory", dir)
	}
	return &Tree{root: abs}, nil
}

// CurrentTree returns a Tree rooted at the ambient working directory.
func CurrentTree() (*Tree, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("workdir: resolve working directory: %w", err)
	}
	return NewTree(dir)
}

// Root returns the absolute root path.
func (t *Tree) Root() string {
	return t.root
}

// Resolve maps a slash-separated relative path onto the host filesystem,
// rejecting absolute paths and traversal outside the root.
func (t *Tree) Resolve(rel string) (string, error) {
	trimmed := strings.TrimSpace(rel)
	if trimmed == "" {
		return "", errors.New("workdir: path is required")
	}
	if path.IsAbs(trimmed) || filepath.IsAbs(trimmed) {
		return "", fmt.Errorf("workdir: path %q: %w", rel, ErrOutsideTree)
	}
	cleaned := path.Clean(trimmed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("workdir: path %q: %w", rel, ErrOutsideTree)
	}
	return filepath.Join(t.root, filepath.FromSlash(cleaned)), nil
}

// ReadFile reads a file relative to the tree root.
func (t *Tree) ReadFile(rel string) ([]byte, error) {
	target, err := t.Resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, fmt.Errorf("workdir: read %s: %w", rel, err)
	}
	return data, nil
}

// WriteFile writes a file relative to the tree root, creating parent
// directories as needed.
func (t *Tree) WriteFile(rel string, body []byte, mode fs.FileMode) error {
	target, err := t.Resolve(rel)
	if err != nil {
		return err
	}
	if mode == 0 {
		mode = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("workdir: create parent for %s: %w", rel, err)
	}
	if err := os.WriteFile(target, body, mode); err != nil {
		return fmt.Errorf("workdir: write %s: %w", rel, err)
	}
	return nil
}

// Exists reports whether a path exists relative to the tree root.
func (t *Tree) Exists(rel string) bool {
	target, err := t.Resolve(rel)
	if err != nil {
		return false
	}
	_, err = os.Stat(target)
	return err == nil
}

// Walk visits every regular file under the root, handing the callback the
// slash-separated relative path.
func (t *Tree) Walk(fn func(rel string, info fs.FileInfo) error) error {
	return filepath.Walk(t.root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(t.root, p)
		if err != nil {
			return fmt.Errorf("workdir: relativise %s: %w", p, err)
		}
		return fn(filepath.ToSlash(rel), info)
	})
}
