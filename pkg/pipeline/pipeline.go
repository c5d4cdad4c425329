// Package pipeline sequences the scaffolding run: resolve the library
// manifest, render the common template bundle, copy it onto the working
// tree, then invoke the post-processing hooks. The steps run strictly in
// order and fail fast; no data flows back between them.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-scaffold/internal/manifest"
	"github.com/goliatone/go-scaffold/pkg/bundles"
	pkgmanifest "github.com/goliatone/go-scaffold/pkg/manifest"
	"github.com/goliatone/go-scaffold/pkg/pipeline/config"
	"github.com/goliatone/go-scaffold/pkg/postprocess"
	nodeprocessor "github.com/goliatone/go-scaffold/pkg/processors/node"
	"github.com/goliatone/go-scaffold/pkg/templates"
	"github.com/goliatone/go-scaffold/pkg/workdir"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithLogger injects the logger the pipeline emits debug traces on. The
// default is a nop logger; there is no ambient global logging state.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProvider injects a custom template provider.
func WithProvider(provider templates.Provider) Option {
	return func(p *Pipeline) {
		p.provider = provider
	}
}

// WithApplier injects a custom file-set applier.
func WithApplier(applier workdir.Applier) Option {
	return func(p *Pipeline) {
		p.applier = applier
	}
}

// WithManifestLoader injects a custom metadata loader.
func WithManifestLoader(loader pkgmanifest.Loader) Option {
	return func(p *Pipeline) {
		p.loader = loader
	}
}

// WithProcessors pins the post-processors to run, replacing kind-based
// discovery from the registry.
func WithProcessors(processors ...postprocess.Processor) Option {
	return func(p *Pipeline) {
		if len(processors) == 0 {
			return
		}
		p.processors = append(p.processors, processors...)
	}
}

// WithRegistry injects a post-processor registry for kind-based discovery.
func WithRegistry(registry *postprocess.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithExcludes adds glob patterns the applier must leave untouched.
func WithExcludes(globs ...string) Option {
	return func(p *Pipeline) {
		p.excludes = append(p.excludes, globs...)
	}
}

// WithMerge registers a merge function for a destination path so curated
// regions of an existing file survive re-staging.
func WithMerge(path string, fn workdir.MergeFunc) Option {
	return func(p *Pipeline) {
		if path == "" || fn == nil {
			return
		}
		if p.merges == nil {
			p.merges = make(map[string]workdir.MergeFunc)
		}
		p.merges[path] = fn
	}
}

// Pipeline coordinates the template staging and post-processing run. It
// applies sensible defaults (built-in bundles, copier applier, node
// processor) while remaining open to dependency injection for advanced
// callers.
type Pipeline struct {
	logger          *zap.Logger
	provider        templates.Provider
	applier         workdir.Applier
	loader          pkgmanifest.Loader
	registry        *postprocess.Registry
	processors      []postprocess.Processor
	excludes        []string
	merges          map[string]workdir.MergeFunc
	initialiseErr   error
	defaultsApplied bool
}

// New constructs a Pipeline applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.applyDefaults()
	return p
}

// Request describes one scaffolding run.
type Request struct {
	// Dir is the working-tree root. Empty means the ambient working
	// directory.
	Dir string

	// Kind selects the template bundle. Empty falls back to the manifest
	// kind, then to the configuration default.
	Kind string

	// DryRun computes the report without writing files or running
	// post-processors.
	DryRun bool
}

// Report summarises what a run did. It exists for logging and CLI display;
// the steps themselves never consume it.
type Report struct {
	Dir        string
	Kind       string
	Applied    []workdir.Outcome
	Processors []string
	DryRun     bool
	Duration   time.Duration
}

// Written counts files the applier created or overwrote.
func (r Report) Written() int {
	count := 0
	for _, outcome := range r.Applied {
		if outcome.Action == workdir.ActionWritten || outcome.Action == workdir.ActionMerged {
			count++
		}
	}
	return count
}

// Run executes manifest load → template render → apply → post-process and
// returns the report. Any step error aborts the run; the post-processors
// never fire when the applier fails.
func (p *Pipeline) Run(ctx context.Context, req Request) (Report, error) {
	if ctx == nil {
		return Report{}, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	if err := p.initialiseErr; err != nil {
		return Report{}, err
	}
	if !p.defaultsApplied {
		p.applyDefaults()
		if err := p.initialiseErr; err != nil {
			return Report{}, err
		}
	}

	started := time.Now()

	tree, err := p.resolveTree(req)
	if err != nil {
		return Report{}, err
	}

	m, err := p.loader.Load(ctx, tree.Root())
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: load manifest: %w", err)
	}

	kind := p.resolveKind(req, m)
	p.logger.Debug("resolved run parameters",
		zap.String("dir", tree.Root()),
		zap.String("kind", kind),
		zap.Bool("dry_run", req.DryRun),
	)

	set, err := p.provider.Render(ctx, kind, m.TemplateData())
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: render templates: %w", err)
	}
	p.logger.Debug("rendered template bundle",
		zap.String("kind", kind),
		zap.Int("files", set.Len()),
	)

	excludes, err := workdir.NewExcludeMatcher(p.excludes...)
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: excludes: %w", err)
	}

	outcomes, err := p.applier.Apply(ctx, tree, set, workdir.Options{
		Excludes: excludes,
		Merges:   p.merges,
		DryRun:   req.DryRun,
	})
	if err != nil {
		return Report{}, fmt.Errorf("pipeline: apply templates: %w", err)
	}
	p.logger.Debug("applied template bundle",
		zap.Int("files", len(outcomes)),
	)

	report := Report{
		Dir:     tree.Root(),
		Kind:    kind,
		Applied: outcomes,
		DryRun:  req.DryRun,
	}

	processors := p.processorsFor(kind)
	for _, processor := range processors {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if req.DryRun {
			p.logger.Debug("skipping post-processor (dry run)",
				zap.String("processor", processor.Name()),
			)
			report.Processors = append(report.Processors, processor.Name())
			continue
		}
		if err := processor.Process(ctx, tree, m); err != nil {
			return report, fmt.Errorf("pipeline: post-process %q: %w", processor.Name(), err)
		}
		p.logger.Debug("post-processor finished",
			zap.String("processor", processor.Name()),
		)
		report.Processors = append(report.Processors, processor.Name())
	}

	report.Duration = time.Since(started)
	return report, nil
}

func (p *Pipeline) resolveTree(req Request) (*workdir.Tree, error) {
	if req.Dir == "" {
		tree, err := workdir.CurrentTree()
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
		return tree, nil
	}
	tree, err := workdir.NewTree(req.Dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return tree, nil
}

func (p *Pipeline) resolveKind(req Request, m pkgmanifest.Manifest) string {
	if req.Kind != "" {
		return req.Kind
	}
	if m.Kind != "" {
		return m.Kind
	}
	return config.DefaultKind
}

func (p *Pipeline) processorsFor(kind string) []postprocess.Processor {
	if len(p.processors) > 0 {
		out := make([]postprocess.Processor, 0, len(p.processors))
		for _, processor := range p.processors {
			if processor == nil {
				continue
			}
			if postprocess.ServesKind(processor, kind) {
				out = append(out, processor)
			}
		}
		return out
	}
	if p.registry == nil {
		return nil
	}
	return p.registry.ForKind(kind)
}

func (p *Pipeline) applyDefaults() {
	if p.defaultsApplied {
		return
	}

	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.provider == nil {
		registry, err := bundles.Common()
		if err != nil {
			p.initialiseErr = fmt.Errorf("pipeline: default bundles: %w", err)
		} else {
			p.provider = registry
		}
	}
	if p.applier == nil {
		p.applier = workdir.NewCopier()
	}
	if p.loader == nil {
		p.loader = manifest.New()
	}
	if len(p.processors) == 0 && p.registry == nil {
		registry := postprocess.NewRegistry()
		registry.MustRegister(nodeprocessor.New())
		p.registry = registry
	}

	p.defaultsApplied = true
}
