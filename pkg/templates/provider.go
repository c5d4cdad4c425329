package templates

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Provider renders the template bundle for a library kind into a copyable Set.
// The data map parameterises templated files; providers ignore keys they do
// not understand.
type Provider interface {
	// Render produces the file set for the named kind.
	Render(ctx context.Context, kind string, data map[string]any) (Set, error)

	// Kinds lists the bundle kinds the provider can render, sorted.
	Kinds() []string
}

// Bundle produces the file set for a single library kind.
type Bundle interface {
	Kind() string
	Render(ctx context.Context, data map[string]any) (Set, error)
}

// Registry stores bundles by kind, providing discovery and duplication
// safeguards. It satisfies Provider so it can be handed to the pipeline
// directly.
type Registry struct {
	mu      sync.RWMutex
	bundles map[string]Bundle
}

// Ensure the registry satisfies the provider contract.
var _ Provider = (*Registry)(nil)

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{
		bundles: make(map[string]Bundle),
	}
}

// Register adds a bundle by its Kind(). Duplicate kinds return an error.
func (r *Registry) Register(bundle Bundle) error {
	if bundle == nil {
		return fmt.Errorf("templates: bundle is required")
	}
	kind := bundle.Kind()
	if kind == "" {
		return fmt.Errorf("templates: bundle kind is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bundles[kind]; exists {
		return fmt.Errorf("templates: bundle %q already registered", kind)
	}

	r.bundles[kind] = bundle
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(bundle Bundle) {
	if err := r.Register(bundle); err != nil {
		panic(err)
	}
}

// Get retrieves a bundle by kind.
func (r *Registry) Get(kind string) (Bundle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bundle, ok := r.bundles[kind]
	if !ok {
		return nil, fmt.Errorf("templates: bundle %q not found", kind)
	}
	return bundle, nil
}

// Has reports whether a bundle is registered for the kind.
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.bundles[kind]
	return ok
}

// Kinds returns a sorted list of registered bundle kinds.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.bundles))
	for kind := range r.bundles {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Render resolves the bundle for kind and renders it.
func (r *Registry) Render(ctx context.Context, kind string, data map[string]any) (Set, error) {
	if err := ctx.Err(); err != nil {
		return Set{}, err
	}
	bundle, err := r.Get(kind)
	if err != nil {
		return Set{}, err
	}
	set, err := bundle.Render(ctx, data)
	if err != nil {
		return Set{}, fmt.Errorf("templates: render bundle %q: %w", kind, err)
	}
	return set, nil
}
