package testutil

import (
	"errors"

	"github.com/bebsworthy/stagefmt/internal/executor"
)

// ResultBuilder provides a fluent interface for building scripted command results.
type ResultBuilder struct {
	result executor.ExecResult
}

// NewResultBuilder creates a new ResultBuilder with default values.
func NewResultBuilder() *ResultBuilder {
	return &ResultBuilder{
		result: executor.ExecResult{
			ExitCode: 0,
			TimedOut: false,
		},
	}
}

// WithStdout sets the stdout output.
func (b *ResultBuilder) WithStdout(stdout string) *ResultBuilder {
	b.result.Stdout = []byte(stdout)
	return b
}

// WithStderr sets the stderr output.
func (b *ResultBuilder) WithStderr(stderr string) *ResultBuilder {
	b.result.Stderr = stderr
	return b
}

// WithError sets a start error for the result.
func (b *ResultBuilder) WithError(err error) *ResultBuilder {
	b.result.Error = err
	b.result.ExitCode = -1
	return b
}

// WithErrorMessage creates a start error with the given message.
func (b *ResultBuilder) WithErrorMessage(message string) *ResultBuilder {
	return b.WithError(errors.New(message))
}

// TimedOut marks the result as having timed out.
func (b *ResultBuilder) TimedOut() *ResultBuilder {
	b.result.TimedOut = true
	b.result.ExitCode = -1
	return b
}

// Success creates a successful result with optional stdout.
func (b *ResultBuilder) Success(stdout ...string) *ResultBuilder {
	b.result.ExitCode = 0
	b.result.TimedOut = false
	b.result.Error = nil
	if len(stdout) > 0 {
		b.result.Stdout = []byte(stdout[0])
	}
	return b
}

// Failure creates a failed result with exit code 1.
func (b *ResultBuilder) Failure(stderr ...string) *ResultBuilder {
	return b.FailureWithCode(1, stderr...)
}

// FailureWithCode creates a failed result with a specific exit code.
func (b *ResultBuilder) FailureWithCode(exitCode int, stderr ...string) *ResultBuilder {
	b.result.ExitCode = exitCode
	b.result.TimedOut = false
	if len(stderr) > 0 {
		b.result.Stderr = stderr[0]
	}
	return b
}

// Build returns a copy of the constructed ExecResult.
func (b *ResultBuilder) Build() executor.ExecResult {
	result := b.result
	result.Stdout = append([]byte(nil), b.result.Stdout...)
	return result
}
