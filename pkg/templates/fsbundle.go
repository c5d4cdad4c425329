package templates

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-scaffold/internal/render"
)

const templateExt = ".tpl"

// FSBundle serves a bundle kind from a filesystem, typically an embed.FS.
// Files ending in ".tpl" are rendered through the template engine with the
// supplied data and written without the extension; everything else is copied
// verbatim.
type FSBundle struct {
	kind   string
	fsys   fs.FS
	engine *render.Engine
	modes  map[string]fs.FileMode
}

// Ensure the bundle satisfies the Bundle contract.
var _ Bundle = (*FSBundle)(nil)

// FSBundleOption customises an FSBundle.
type FSBundleOption func(*FSBundle)

// WithFileMode overrides the mode a bundle file is written with. The path is
// the destination path (without the ".tpl" extension).
func WithFileMode(path string, mode fs.FileMode) FSBundleOption {
	return func(b *FSBundle) {
		if b.modes == nil {
			b.modes = make(map[string]fs.FileMode)
		}
		b.modes[path] = mode
	}
}

// NewFSBundle constructs a bundle for kind backed by fsys.
func NewFSBundle(kind string, fsys fs.FS, options ...FSBundleOption) (*FSBundle, error) {
	if strings.TrimSpace(kind) == "" {
		return nil, fmt.Errorf("templates: bundle kind is required")
	}
	if fsys == nil {
		return nil, fmt.Errorf("templates: bundle %q needs a filesystem", kind)
	}

	engine, err := render.New(render.WithFS(fsys))
	if err != nil {
		return nil, fmt.Errorf("templates: bundle %q engine: %w", kind, err)
	}

	bundle := &FSBundle{
		kind:   kind,
		fsys:   fsys,
		engine: engine,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(bundle)
	}
	return bundle, nil
}

// MustNewFSBundle panics when construction fails. Useful for init-time wiring.
func MustNewFSBundle(kind string, fsys fs.FS, options ...FSBundleOption) *FSBundle {
	bundle, err := NewFSBundle(kind, fsys, options...)
	if err != nil {
		panic(err)
	}
	return bundle
}

// Kind returns the library kind this bundle serves.
func (b *FSBundle) Kind() string {
	return b.kind
}

// Render walks the bundle filesystem and produces the copyable file set.
func (b *FSBundle) Render(ctx context.Context, data map[string]any) (Set, error) {
	var files []File

	err := fs.WalkDir(b.fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := fs.ReadFile(b.fsys, path)
		if err != nil {
			return fmt.Errorf("templates: read bundle file %s: %w", path, err)
		}

		dest := path
		body := raw
		if strings.HasSuffix(path, templateExt) {
			dest = strings.TrimSuffix(path, templateExt)
			rendered, err := b.engine.Render(path, data)
			if err != nil {
				return err
			}
			body = []byte(rendered)
		}

		file, err := NewFile(dest, body, b.modeFor(dest))
		if err != nil {
			return err
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return Set{}, err
	}

	return NewSet(files...)
}

func (b *FSBundle) modeFor(path string) fs.FileMode {
	if mode, ok := b.modes[path]; ok {
		return mode
	}
	return 0o644
}
