// Package reconcile writes formatted content back into the index and the
// working tree, or reports it as a diff.
package reconcile

import (
	"bytes"
	"context"
	"fmt"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/git"
	"github.com/bebsworthy/stagefmt/internal/patch"
)

// Outcome is what happened to one file
type Outcome int

const (
	// OutcomeUnchanged means the formatter produced identical bytes
	OutcomeUnchanged Outcome = iota
	// OutcomeReported means the diff was printed and nothing was written
	OutcomeReported
	// OutcomeApplied means the index and working tree were rewritten
	OutcomeApplied
	// OutcomeSkipped means the user declined the change
	OutcomeSkipped
)

// String returns a short name for the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeReported:
		return "reported"
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Index stores objects and updates index entries
type Index interface {
	HashObject(ctx context.Context, content []byte) (string, error)
	UpdateIndex(ctx context.Context, mode, oid, path string) error
}

// Patcher applies a diff to the working tree
type Patcher interface {
	Apply(ctx context.Context, d patch.FileDiff) error
}

// Reporter receives diffs in dry-run mode
type Reporter interface {
	Print(d patch.FileDiff) error
}

// Confirmer asks whether a change should be written
type Confirmer interface {
	Confirm(d patch.FileDiff) (bool, error)
}

// Reconciler applies or reports one file at a time
type Reconciler struct {
	index     Index
	patcher   Patcher
	reporter  Reporter
	confirmer Confirmer
	dryRun    bool
}

// Option configures a Reconciler
type Option func(*Reconciler)

// WithDryRun makes the Reconciler print diffs instead of writing
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) { r.dryRun = dryRun }
}

// WithConfirmer asks c before each write. A nil Confirmer writes without asking.
func WithConfirmer(c Confirmer) Option {
	return func(r *Reconciler) { r.confirmer = c }
}

// New creates a Reconciler
func New(index Index, patcher Patcher, reporter Reporter, opts ...Option) *Reconciler {
	r := &Reconciler{index: index, patcher: patcher, reporter: reporter}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile brings entry's staged content in line with formatted. The index
// entry keeps its original mode.
func (r *Reconciler) Reconcile(ctx context.Context, entry git.ChangeSetEntry, original, formatted []byte) (Outcome, error) {
	if bytes.Equal(original, formatted) {
		debug.Log("%s is already formatted", entry.Path)
		return OutcomeUnchanged, nil
	}

	d := patch.Unified(entry.Path, original, formatted)

	if r.dryRun {
		if err := r.reporter.Print(d); err != nil {
			return OutcomeReported, fmt.Errorf("write diff for %s: %w", entry.Path, err)
		}
		return OutcomeReported, nil
	}

	if r.confirmer != nil {
		ok, err := r.confirmer.Confirm(d)
		if err != nil {
			return OutcomeSkipped, fmt.Errorf("confirm %s: %w", entry.Path, err)
		}
		if !ok {
			debug.Log("%s declined", entry.Path)
			return OutcomeSkipped, nil
		}
	}

	oid, err := r.index.HashObject(ctx, formatted)
	if err != nil {
		return OutcomeApplied, err
	}
	if err := r.index.UpdateIndex(ctx, entry.Mode, oid, entry.Path); err != nil {
		return OutcomeApplied, err
	}
	debug.Log("Staged %s as %s (mode %s)", entry.Path, oid, entry.Mode)

	if err := r.patcher.Apply(ctx, d); err != nil {
		return OutcomeApplied, err
	}

	return OutcomeApplied, nil
}
