package testutil

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/bebsworthy/stagefmt/internal/executor"
)

// Call records one command handed to a FakeRunner.
type Call struct {
	Command string
	Args    []string
	Options executor.ExecOptions
}

// String renders the call as a command line.
func (c Call) String() string {
	if len(c.Args) == 0 {
		return c.Command
	}
	return c.Command + " " + strings.Join(c.Args, " ")
}

type scripted struct {
	command string
	prefix  []string
	result  *ResultBuilder
}

// FakeRunner is an executor.Runner that answers from registered responses.
// Unregistered commands fail the way a missing binary does.
type FakeRunner struct {
	mu        sync.Mutex
	responses []scripted
	calls     []Call
}

var _ executor.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On registers a response for command when its arguments start with
// argPrefix. The first matching registration wins.
func (f *FakeRunner) On(command string, argPrefix ...string) *ResultBuilder {
	f.mu.Lock()
	defer f.mu.Unlock()

	b := NewResultBuilder()
	f.responses = append(f.responses, scripted{command: command, prefix: argPrefix, result: b})
	return b
}

// Execute implements executor.Runner.
func (f *FakeRunner) Execute(ctx context.Context, command string, args []string, options executor.ExecOptions) (*executor.ExecResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, Call{Command: command, Args: slices.Clone(args), Options: options})

	if err := ctx.Err(); err != nil {
		return &executor.ExecResult{ExitCode: -1, Error: err}, nil
	}

	for _, r := range f.responses {
		if r.command != command || len(args) < len(r.prefix) {
			continue
		}
		if slices.Equal(args[:len(r.prefix)], r.prefix) {
			result := r.result.Build()
			return &result, nil
		}
	}

	return &executor.ExecResult{
		ExitCode: -1,
		Error:    fmt.Errorf("exec: %q: executable file not found in $PATH", command),
	}, nil
}

// Calls returns every recorded call in order.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallsTo returns the recorded calls whose command equals command.
func (f *FakeRunner) CallsTo(command string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.calls {
		if c.Command == command {
			out = append(out, c)
		}
	}
	return out
}
