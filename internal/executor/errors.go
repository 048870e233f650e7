package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Error types for command execution
var (
	// ErrCommandNotFound indicates the command was not found in PATH
	ErrCommandNotFound = errors.New("command not found")

	// ErrPermissionDenied indicates the command cannot be executed due to permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTimeout indicates the command timed out
	ErrTimeout = errors.New("command timed out")

	// ErrInvalidWorkingDirectory indicates the working directory is invalid
	ErrInvalidWorkingDirectory = errors.New("invalid working directory")

	// ErrExitStatus indicates the command ran and exited non-zero
	ErrExitStatus = errors.New("non-zero exit status")
)

// ErrorType represents the type of execution error
type ErrorType int

const (
	// ErrorTypeUnknown indicates an unknown error
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeCommandNotFound indicates the command was not found
	ErrorTypeCommandNotFound
	// ErrorTypePermissionDenied indicates permission was denied
	ErrorTypePermissionDenied
	// ErrorTypeTimeout indicates the command timed out
	ErrorTypeTimeout
	// ErrorTypeWorkingDirectory indicates working directory error
	ErrorTypeWorkingDirectory
	// ErrorTypeExecution indicates general execution error
	ErrorTypeExecution
	// ErrorTypeExitStatus indicates the command exited with a non-zero status
	ErrorTypeExitStatus
)

// ExecError represents a detailed execution error
type ExecError struct {
	Type     ErrorType
	Command  string
	Args     []string
	Err      error
	Details  string
	ExitCode int
	// Stderr holds whatever the command wrote to standard error
	Stderr string
}

// Error implements the error interface
func (e *ExecError) Error() string {
	cmd := e.Command
	if len(e.Args) > 0 {
		cmd = fmt.Sprintf("%s %s", e.Command, strings.Join(e.Args, " "))
	}

	switch e.Type {
	case ErrorTypeCommandNotFound:
		return fmt.Sprintf("command not found: %s", e.Command)
	case ErrorTypePermissionDenied:
		return fmt.Sprintf("permission denied: %s", cmd)
	case ErrorTypeTimeout:
		return fmt.Sprintf("command timed out: %s", cmd)
	case ErrorTypeWorkingDirectory:
		return fmt.Sprintf("working directory error: %s", e.Details)
	case ErrorTypeExitStatus:
		msg := fmt.Sprintf("%s exited with status %d", cmd, e.ExitCode)
		if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
			msg += ": " + stderr
		}
		return msg
	case ErrorTypeExecution:
		return fmt.Sprintf("execution error for %s: %v", cmd, e.Err)
	default:
		return fmt.Sprintf("unknown error for %s: %v", cmd, e.Err)
	}
}

// Unwrap returns the underlying error
func (e *ExecError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ExecError) Is(target error) bool {
	switch target {
	case ErrCommandNotFound:
		return e.Type == ErrorTypeCommandNotFound
	case ErrPermissionDenied:
		return e.Type == ErrorTypePermissionDenied
	case ErrTimeout:
		return e.Type == ErrorTypeTimeout
	case ErrInvalidWorkingDirectory:
		return e.Type == ErrorTypeWorkingDirectory
	case ErrExitStatus:
		return e.Type == ErrorTypeExitStatus
	}
	return false
}

// ClassifyError analyzes an error and returns a typed ExecError
func ClassifyError(err error, command string, args []string) *ExecError {
	if err == nil {
		return nil
	}

	var existing *ExecError
	if errors.As(err, &existing) {
		return existing
	}

	execErr := &ExecError{
		Type:    ErrorTypeUnknown,
		Command: command,
		Args:    args,
		Err:     err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		execErr.Type = ErrorTypeTimeout
		return execErr
	}

	if errors.Is(err, context.Canceled) {
		execErr.Type = ErrorTypeExecution
		return execErr
	}

	// exec.Error means the binary could not be started at all
	if errType := classifyExecError(err); errType != ErrorTypeUnknown {
		execErr.Type = errType
		return execErr
	}

	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		execErr.Type = ErrorTypeExitStatus
		execErr.ExitCode = exitError.ExitCode()
		execErr.Stderr = string(exitError.Stderr)
		return execErr
	}

	execErr.Type = classifyByErrorMessage(err.Error())
	if execErr.Type == ErrorTypeWorkingDirectory {
		execErr.Details = err.Error()
	}

	return execErr
}

// classifyExecError classifies exec.Error types
func classifyExecError(err error) ErrorType {
	var execError *exec.Error
	if !errors.As(err, &execError) {
		// Starting an explicit path fails with "fork/exec <path>: ..." instead
		if errStr := strings.ToLower(err.Error()); strings.HasPrefix(errStr, "fork/exec") {
			return classifyByErrorMessage(errStr)
		}
		return ErrorTypeUnknown
	}

	errStr := strings.ToLower(execError.Error())

	if strings.Contains(errStr, "executable file not found") ||
		strings.Contains(errStr, "command not found") ||
		strings.Contains(errStr, "no such file or directory") {
		return ErrorTypeCommandNotFound
	}

	if strings.Contains(errStr, "permission denied") ||
		strings.Contains(errStr, "operation not permitted") {
		return ErrorTypePermissionDenied
	}

	return ErrorTypeUnknown
}

// classifyByErrorMessage classifies errors by their message content
func classifyByErrorMessage(errorMessage string) ErrorType {
	errStr := strings.ToLower(errorMessage)

	switch {
	case strings.Contains(errStr, "permission denied"):
		return ErrorTypePermissionDenied
	case strings.Contains(errStr, "not found") || strings.Contains(errStr, "no such file or directory"):
		return ErrorTypeCommandNotFound
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(errStr, "working directory") || strings.Contains(errStr, "chdir"):
		return ErrorTypeWorkingDirectory
	default:
		return ErrorTypeExecution
	}
}
