// Package executor provides command execution functionality for stagefmt.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/bebsworthy/stagefmt/internal/debug"
)

// Runner executes a single external command. Every git, formatter and patch
// invocation goes through a Runner so the workflow can be exercised with fakes.
type Runner interface {
	Execute(ctx context.Context, command string, args []string, options ExecOptions) (*ExecResult, error)
}

// ExecOptions defines options for command execution
type ExecOptions struct {
	// Working directory for the command
	WorkingDir string
	// Environment variables (in KEY=VALUE format)
	Environment []string
	// Timeout for command execution. Zero falls back to the executor default.
	Timeout time.Duration
	// Whether to inherit parent process environment
	InheritEnv bool
	// Data written to the command's standard input
	Stdin []byte
}

// ExecResult contains the result of command execution
type ExecResult struct {
	// Standard output from the command, byte for byte
	Stdout []byte
	// Standard error from the command
	Stderr string
	// Exit code of the command
	ExitCode int
	// Whether the command timed out
	TimedOut bool
	// Error if command failed to start
	Error error
}

// Err converts a result into an error: a start failure, a timeout or a
// non-zero exit all become an *ExecError. A clean exit returns nil.
func (r *ExecResult) Err(command string, args []string) error {
	switch {
	case r.Error != nil:
		return ClassifyError(r.Error, command, args)
	case r.TimedOut:
		return &ExecError{Type: ErrorTypeTimeout, Command: command, Args: args, Err: context.DeadlineExceeded, Stderr: r.Stderr}
	case r.ExitCode != 0:
		return &ExecError{
			Type:     ErrorTypeExitStatus,
			Command:  command,
			Args:     args,
			ExitCode: r.ExitCode,
			Stderr:   r.Stderr,
		}
	}
	return nil
}

// CommandExecutor executes external commands
type CommandExecutor struct {
	// Default timeout for commands if not specified. Zero means no timeout.
	defaultTimeout time.Duration
}

// NewCommandExecutor creates a new command executor. A non-positive default
// timeout lets commands run until they exit.
func NewCommandExecutor(defaultTimeout time.Duration) *CommandExecutor {
	if defaultTimeout < 0 {
		defaultTimeout = 0
	}
	return &CommandExecutor{
		defaultTimeout: defaultTimeout,
	}
}

// Execute runs a command with the given options
func (e *CommandExecutor) Execute(ctx context.Context, command string, args []string, options ExecOptions) (*ExecResult, error) {
	// Validate command
	if command == "" {
		return nil, fmt.Errorf("command cannot be empty")
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command, args...)

	// Set working directory
	if options.WorkingDir != "" {
		absPath, err := filepath.Abs(options.WorkingDir)
		if err != nil {
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		// Check if directory exists
		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("invalid working directory: %s does not exist", absPath)
			}
			return nil, fmt.Errorf("invalid working directory: %w", err)
		}
		cmd.Dir = absPath
	}

	// Set environment
	env := e.prepareEnvironment(options)
	if len(env) > 0 {
		cmd.Env = env
	}

	if options.Stdin != nil {
		cmd.Stdin = bytes.NewReader(options.Stdin)
	}

	// Capture output
	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	debug.LogCommand(command, args, cmd.Dir)
	start := time.Now()

	err := cmd.Start()
	if err != nil {
		execErr := ClassifyError(err, command, args)
		return &ExecResult{
			ExitCode: -1,
			Error:    execErr,
		}, nil
	}

	waitErr := cmd.Wait()
	debug.LogTiming(command, time.Since(start))

	// CommandContext has already killed the process if ctx is done
	timedOut := false
	switch ctx.Err() {
	case context.DeadlineExceeded:
		timedOut = true
	case context.Canceled:
		return &ExecResult{
			Stdout:   stdoutBuf.Bytes(),
			Stderr:   stderrBuf.String(),
			ExitCode: -1,
			Error:    context.Canceled,
		}, nil
	}

	exitCode := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			// Command failed to run properly
			return &ExecResult{
				Stdout:   stdoutBuf.Bytes(),
				Stderr:   stderrBuf.String(),
				ExitCode: -1,
				TimedOut: timedOut,
				Error:    waitErr,
			}, nil
		}
	}

	if exitCode != 0 {
		debug.Log("%s exited with status %d", command, exitCode)
	}

	return &ExecResult{
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   stderrBuf.String(),
		ExitCode: exitCode,
		TimedOut: timedOut,
	}, nil
}

// Output runs a command and returns its standard output, converting any
// failure (start error, timeout, non-zero exit) into an error.
func Output(ctx context.Context, runner Runner, command string, args []string, options ExecOptions) ([]byte, error) {
	result, err := runner.Execute(ctx, command, args, options)
	if err != nil {
		return nil, err
	}
	if err := result.Err(command, args); err != nil {
		return nil, err
	}
	return result.Stdout, nil
}

// prepareEnvironment prepares the environment variables for the command
func (e *CommandExecutor) prepareEnvironment(options ExecOptions) []string {
	var env []string

	if options.InheritEnv {
		env = os.Environ()
	}

	envMap := make(map[string]string)
	order := make([]string, 0, len(env)+len(options.Environment))
	add := func(entry string) {
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			return
		}
		if _, seen := envMap[parts[0]]; !seen {
			order = append(order, parts[0])
		}
		envMap[parts[0]] = parts[1]
	}
	for _, entry := range env {
		add(entry)
	}
	for _, entry := range options.Environment {
		add(entry)
	}

	env = make([]string, 0, len(order))
	for _, k := range order {
		env = append(env, k+"="+envMap[k])
	}

	return env
}
