// Package postprocess defines the hook contract the pipeline invokes after
// templates land: a Processor normalises already-generated sources in place.
// Processors are hermetic — everything they need they discover from the tree
// and the manifest, with no network access and no subprocesses.
package postprocess

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

// Processor normalises generated sources inside a working tree.
type Processor interface {
	// Name identifies the processor in logs and registries.
	Name() string

	// Kinds lists the library kinds the processor serves. Empty means every
	// kind.
	Kinds() []string

	// Process runs the normalisation pass in place.
	Process(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error
}

// ProcessorFunc adapts a plain function into a Processor bound to a name.
type ProcessorFunc struct {
	name  string
	kinds []string
	fn    func(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error
}

// NewProcessorFunc wraps fn as a Processor.
func NewProcessorFunc(name string, fn func(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error, kinds ...string) ProcessorFunc {
	return ProcessorFunc{name: name, kinds: kinds, fn: fn}
}

// Name implements Processor.
func (p ProcessorFunc) Name() string { return p.name }

// Kinds implements Processor.
func (p ProcessorFunc) Kinds() []string { return append([]string(nil), p.kinds...) }

// Process implements Processor.
func (p ProcessorFunc) Process(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error {
	if p.fn == nil {
		return fmt.Errorf("postprocess: processor %q has no function", p.name)
	}
	return p.fn(ctx, tree, m)
}

// ServesKind reports whether the processor applies to the library kind.
func ServesKind(p Processor, kind string) bool {
	kinds := p.Kinds()
	if len(kinds) == 0 {
		return true
	}
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Registry stores processors by name, providing discovery and duplication
// safeguards.
type Registry struct {
	mu         sync.RWMutex
	processors map[string]Processor
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		processors: make(map[string]Processor),
	}
}

// Register adds a processor by its Name(). Duplicate names return an error.
func (r *Registry) Register(p Processor) error {
	if p == nil {
		return fmt.Errorf("postprocess: processor is required")
	}
	name := p.Name()
	if name == "" {
		return fmt.Errorf("postprocess: processor name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.processors[name]; exists {
		return fmt.Errorf("postprocess: processor %q already registered", name)
	}

	r.processors[name] = p
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(p Processor) {
	if err := r.Register(p); err != nil {
		panic(err)
	}
}

// Get retrieves a processor by name.
func (r *Registry) Get(name string) (Processor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.processors[name]
	if !ok {
		return nil, fmt.Errorf("postprocess: processor %q not found", name)
	}
	return p, nil
}

// List returns a sorted list of processor names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.processors))
	for name := range r.processors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves processors by name, preserving the supplied order. An
// unknown name fails the whole lookup. It backs explicit processor lists from
// configuration and command flags.
func (r *Registry) Select(names ...string) ([]Processor, error) {
	out := make([]Processor, 0, len(names))
	for _, name := range names {
		p, err := r.Get(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ForKind returns the processors serving the supplied kind, in sorted name
// order.
func (r *Registry) ForKind(kind string) []Processor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.processors))
	for name := range r.processors {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Processor, 0, len(names))
	for _, name := range names {
		p := r.processors[name]
		if ServesKind(p, kind) {
			out = append(out, p)
		}
	}
	return out
}

// Chain runs the processors in order, stopping at the first failure.
func Chain(ctx context.Context, tree *workdir.Tree, m manifest.Manifest, processors ...Processor) error {
	for _, p := range processors {
		if p == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.Process(ctx, tree, m); err != nil {
			return fmt.Errorf("postprocess: processor %q: %w", p.Name(), err)
		}
	}
	return nil
}
