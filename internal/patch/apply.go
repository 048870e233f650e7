package patch

import (
	"context"
	"fmt"
	"strings"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
)

// Applier applies diffs to the working tree with the patch utility
type Applier struct {
	runner executor.Runner
	dir    string
	strip  int
}

// NewApplier creates an Applier running patch in dir, removing strip
// leading path components from the names in each diff
func NewApplier(runner executor.Runner, dir string, strip int) *Applier {
	return &Applier{runner: runner, dir: dir, strip: strip}
}

// Apply patches the working tree file named by d. Hunks that do not apply
// fail the call.
func (a *Applier) Apply(ctx context.Context, d FileDiff) error {
	if d.Empty() {
		return nil
	}

	args := []string{fmt.Sprintf("-p%d", a.strip), "-N"}
	out, err := executor.Output(ctx, a.runner, "patch", args, executor.ExecOptions{
		WorkingDir: a.dir,
		InheritEnv: true,
		Stdin:      []byte(d.Text),
	})
	if msg := strings.TrimSpace(string(out)); msg != "" {
		debug.Log("patch: %s", msg)
	}
	if err != nil {
		return fmt.Errorf("apply formatting to working tree file %s: %w", d.Path, err)
	}
	return nil
}
