// Package formatter runs clang-format over staged content.
package formatter

import (
	"context"
	"fmt"
	"time"

	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
)

// Invoker feeds content to one formatter executable
type Invoker struct {
	executable string
	args       []string
	runner     executor.Runner
	dir        string
	timeout    time.Duration
}

// NewInvoker creates an Invoker running executable with args in dir. The
// style file is discovered relative to dir. A zero timeout leaves the
// runner's default in place.
func NewInvoker(executable string, args []string, runner executor.Runner, dir string, timeout time.Duration) *Invoker {
	return &Invoker{
		executable: executable,
		args:       append([]string(nil), args...),
		runner:     runner,
		dir:        dir,
		timeout:    timeout,
	}
}

// Executable returns the path of the formatter in use
func (i *Invoker) Executable() string {
	return i.executable
}

// Format returns the formatter's output for content. The input buffer is
// not modified. path is only used in messages.
func (i *Invoker) Format(ctx context.Context, path string, content []byte) ([]byte, error) {
	debug.Log("Formatting %s (%d bytes)", path, len(content))

	stdin := content
	if stdin == nil {
		stdin = []byte{}
	}

	out, err := executor.Output(ctx, i.runner, i.executable, i.args, executor.ExecOptions{
		WorkingDir: i.dir,
		InheritEnv: true,
		Timeout:    i.timeout,
		Stdin:      stdin,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", path, err)
	}

	return out, nil
}
