package workdir

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-scaffold/pkg/templates"
)

// Action describes what the applier did with a single file.
type Action string

const (
	// ActionWritten means the file was created or overwritten.
	ActionWritten Action = "written"
	// ActionMerged means an existing file was combined with the incoming one
	// through a merge function before writing.
	ActionMerged Action = "merged"
	// ActionExcluded means the file matched an exclude pattern and was left
	// untouched.
	ActionExcluded Action = "excluded"
	// ActionUnchanged means the file already held the incoming contents.
	ActionUnchanged Action = "unchanged"
)

// Outcome records the applier's decision for one file.
type Outcome struct {
	Path   string
	Action Action
}

// MergeFunc combines an existing file with the incoming template body. It is
// how curated regions of a staged file survive re-staging. A merge whose
// result matches the existing bytes is reported as ActionUnchanged.
type MergeFunc func(existing, incoming []byte) ([]byte, error)

// Options tunes a single Apply call.
type Options struct {
	// Excludes suppresses writes for matching paths.
	Excludes *ExcludeMatcher

	// Merges maps destination paths to merge functions. A merge function only
	// runs when the destination already exists.
	Merges map[string]MergeFunc

	// DryRun computes outcomes without touching the filesystem.
	DryRun bool
}

// Applier copies a rendered template set onto a working tree.
type Applier interface {
	Apply(ctx context.Context, tree *Tree, set templates.Set, opts Options) ([]Outcome, error)
}

// Copier is the default Applier: it writes every file in the set onto the
// tree, overwriting existing content, honouring excludes and merges.
type Copier struct{}

// Ensure Copier satisfies the Applier contract.
var _ Applier = (*Copier)(nil)

// NewCopier constructs the default applier.
func NewCopier() *Copier {
	return &Copier{}
}

// Apply copies the set onto the tree. Outcomes come back in the set's sorted
// path order; the first failing file aborts the run.
func (c *Copier) Apply(ctx context.Context, tree *Tree, set templates.Set, opts Options) ([]Outcome, error) {
	if tree == nil {
		return nil, errors.New("workdir: tree is required")
	}

	outcomes := make([]Outcome, 0, set.Len())
	for _, file := range set.Files() {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		rel := file.Path()
		if opts.Excludes.Match(rel) {
			outcomes = append(outcomes, Outcome{Path: rel, Action: ActionExcluded})
			continue
		}

		outcome, err := c.applyFile(tree, file, opts)
		if err != nil {
			return outcomes, fmt.Errorf("workdir: apply %s: %w", rel, err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (c *Copier) applyFile(tree *Tree, file templates.File, opts Options) (Outcome, error) {
	rel := file.Path()
	body := file.Body()

	if tree.Exists(rel) {
		existing, err := tree.ReadFile(rel)
		if err != nil {
			return Outcome{}, err
		}

		if merge, ok := opts.Merges[rel]; ok && merge != nil {
			merged, err := merge(existing, body)
			if err != nil {
				return Outcome{}, fmt.Errorf("merge: %w", err)
			}
			if bytes.Equal(existing, merged) {
				return Outcome{Path: rel, Action: ActionUnchanged}, nil
			}
			if !opts.DryRun {
				if err := tree.WriteFile(rel, merged, file.Mode()); err != nil {
					return Outcome{}, err
				}
			}
			return Outcome{Path: rel, Action: ActionMerged}, nil
		}

		if bytes.Equal(existing, body) {
			return Outcome{Path: rel, Action: ActionUnchanged}, nil
		}
	}

	if !opts.DryRun {
		if err := tree.WriteFile(rel, body, file.Mode()); err != nil {
			return Outcome{}, err
		}
	}
	return Outcome{Path: rel, Action: ActionWritten}, nil
}
