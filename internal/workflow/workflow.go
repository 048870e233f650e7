// Package workflow runs the staged-file formatting pipeline end to end.
package workflow

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
	"github.com/bebsworthy/stagefmt/internal/filter"
	"github.com/bebsworthy/stagefmt/internal/formatter"
	"github.com/bebsworthy/stagefmt/internal/git"
	"github.com/bebsworthy/stagefmt/internal/locator"
	"github.com/bebsworthy/stagefmt/internal/patch"
	"github.com/bebsworthy/stagefmt/internal/reconcile"
	"github.com/bebsworthy/stagefmt/pkg/config"
)

// Options wires a Workflow to its environment
type Options struct {
	Config *config.Config
	// SearchPath lists the directories searched for the formatter
	SearchPath []string
	// Dir is any directory inside the repository
	Dir    string
	Runner executor.Runner
	// Stdout receives diffs and the apply hint in dry-run mode
	Stdout io.Writer
	// Program is how the user invoked stagefmt, used in the apply hint
	Program string
	// Colored enables ANSI colour in printed diffs
	Colored bool
	// Confirmer is asked before each write when set
	Confirmer reconcile.Confirmer
}

// Summary counts what happened to the staged files
type Summary struct {
	Staged    int
	Eligible  int
	Unchanged int
	Changed   int
	Skipped   int
}

// Workflow formats the files staged in one repository
type Workflow struct {
	opts Options
}

// New creates a Workflow. The configuration must already be valid.
func New(opts Options) *Workflow {
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Program == "" {
		opts.Program = "stagefmt"
	}
	return &Workflow{opts: opts}
}

// DryRunHint is printed after all diffs in dry-run mode
func DryRunHint(program string) string {
	return fmt.Sprintf("\n\nTo apply this patch, run: %s -n | patch -p 1\n", program)
}

// Run locates the formatter, reads the staged change set and reconciles each
// eligible file in order. The first error stops the run; files reconciled
// before it stay reconciled.
func (w *Workflow) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	cfg := w.opts.Config
	summary := &Summary{}

	// The formatter is located before git is touched at all
	candidate, err := w.locate(ctx)
	if err != nil {
		return summary, err
	}

	client := git.NewClient(w.opts.Runner, w.opts.Dir)
	root, err := client.Root(ctx)
	if err != nil {
		return summary, err
	}

	debug.LogSection("Change Set")
	changes, err := client.StagedChanges(ctx)
	if err != nil {
		return summary, err
	}
	summary.Staged = len(changes)

	matcher, err := filter.NewMatcher(cfg.Patterns)
	if err != nil {
		return summary, err
	}
	eligible := matcher.Filter(changes)
	summary.Eligible = len(eligible)

	invoker := formatter.NewInvoker(candidate.Path, cfg.Formatter.Args, w.opts.Runner, root, cfg.Formatter.Timeout)
	printer := patch.NewPrinter(w.opts.Stdout, w.opts.Colored)
	reconciler := reconcile.New(
		client,
		patch.NewApplier(w.opts.Runner, root, cfg.PatchStrip),
		printer,
		reconcile.WithDryRun(cfg.DryRun),
		reconcile.WithConfirmer(w.opts.Confirmer),
	)

	debug.LogSection("Formatting")
	for _, entry := range eligible {
		outcome, err := w.process(ctx, client, invoker, reconciler, entry)
		if err != nil {
			return summary, err
		}
		debug.Log("%s: %s", entry.Path, outcome)

		switch outcome {
		case reconcile.OutcomeUnchanged:
			summary.Unchanged++
		case reconcile.OutcomeReported, reconcile.OutcomeApplied:
			summary.Changed++
		case reconcile.OutcomeSkipped:
			summary.Skipped++
		}
	}

	if cfg.DryRun {
		if err := printer.PrintString(DryRunHint(w.opts.Program)); err != nil {
			return summary, fmt.Errorf("write hint: %w", err)
		}
	}

	debug.LogTiming("run", time.Since(start))
	debug.Log("staged=%d eligible=%d unchanged=%d changed=%d skipped=%d",
		summary.Staged, summary.Eligible, summary.Unchanged, summary.Changed, summary.Skipped)

	return summary, nil
}

func (w *Workflow) locate(ctx context.Context) (locator.Candidate, error) {
	cfg := w.opts.Config

	pattern, err := cfg.Formatter.CompilePattern()
	if err != nil {
		return locator.Candidate{}, fmt.Errorf("invalid executable pattern: %w", err)
	}

	loc := locator.New(w.opts.SearchPath, pattern, cfg.Formatter.MinMajorVersion, w.opts.Runner)
	if cfg.Formatter.Path != "" {
		return loc.Check(ctx, cfg.Formatter.Path)
	}
	return loc.Find(ctx)
}

func (w *Workflow) process(ctx context.Context, client *git.Client, invoker *formatter.Invoker, reconciler *reconcile.Reconciler, entry git.ChangeSetEntry) (reconcile.Outcome, error) {
	original, err := client.ShowStaged(ctx, entry.Path)
	if err != nil {
		return reconcile.OutcomeUnchanged, err
	}

	formatted, err := invoker.Format(ctx, entry.Path, original)
	if err != nil {
		return reconcile.OutcomeUnchanged, err
	}

	return reconciler.Reconcile(ctx, entry, original, formatted)
}
