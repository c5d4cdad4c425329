// Package node implements the hermetic post-processing pass for generated
// node-style client libraries. The pass is deterministic and fully in place:
// no network, no subprocesses, no state outside the working tree and the
// manifest it is handed.
package node

import (
	"context"
	"fmt"

	"github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/postprocess"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

// Name identifies the processor in registries and logs.
const Name = "node"

// Kind is the library kind the processor serves.
const Kind = "node"

// step is one independently testable normalisation unit.
type step interface {
	name() string
	run(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error
}

// Processor bundles the normalisation steps behind the postprocess contract.
type Processor struct {
	steps []step
}

// Ensure the processor satisfies the postprocess contract.
var _ postprocess.Processor = (*Processor)(nil)

// New constructs the node processor with the default step chain.
func New() *Processor {
	return &Processor{
		steps: []step{
			packageJSONStep{},
			headersStep{},
			lineEndingsStep{},
			readmeStep{},
		},
	}
}

// Name implements postprocess.Processor.
func (p *Processor) Name() string { return Name }

// Kinds implements postprocess.Processor.
func (p *Processor) Kinds() []string { return []string{Kind} }

// Process runs every step in order, failing fast on the first error.
func (p *Processor) Process(ctx context.Context, tree *workdir.Tree, m manifest.Manifest) error {
	for _, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.run(ctx, tree, m); err != nil {
			return fmt.Errorf("node: step %s: %w", s.name(), err)
		}
	}
	return nil
}

// Steps lists the step names in execution order.
func (p *Processor) Steps() []string {
	names := make([]string, 0, len(p.steps))
	for _, s := range p.steps {
		names = append(names, s.name())
	}
	return names
}
