// Package reporter turns run errors into the diagnostic printed on stderr.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bebsworthy/stagefmt/internal/executor"
	"github.com/bebsworthy/stagefmt/internal/locator"
)

// ErrorReporter formats errors for the terminal
type ErrorReporter struct {
	// program prefixes every diagnostic
	program string
}

// NewErrorReporter creates a new error reporter
func NewErrorReporter(program string) *ErrorReporter {
	if program == "" {
		program = "stagefmt"
	}
	return &ErrorReporter{program: program}
}

// ReportResult contains the final report output
type ReportResult struct {
	// Exit code (0 for success, 1 for any failure)
	ExitCode int
	// Standard error output
	Stderr string
}

// Report converts err into a diagnostic and exit code
func (r *ErrorReporter) Report(err error) *ReportResult {
	if err == nil {
		return &ReportResult{ExitCode: 0}
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("%s: %v\n", r.program, err))

	if fix := r.fix(err); fix != "" {
		msg.WriteString(fmt.Sprintf("Fix: %s\n", fix))
	}

	return &ReportResult{
		ExitCode: 1,
		Stderr:   msg.String(),
	}
}

// fix suggests what the user can do about err
func (r *ErrorReporter) fix(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return ""
	case errors.Is(err, locator.ErrNotFound):
		return "install clang-format and make sure it is on PATH, or set STAGEFMT_CLANG_FORMAT"
	case errors.Is(err, locator.ErrTooOld):
		return "point --clang-format or STAGEFMT_CLANG_FORMAT at a newer clang-format"
	}

	var execErr *executor.ExecError
	if !errors.As(err, &execErr) {
		return ""
	}

	switch execErr.Type {
	case executor.ErrorTypeCommandNotFound:
		return fmt.Sprintf("ensure %s is installed and accessible", execErr.Command)
	case executor.ErrorTypePermissionDenied:
		return "check file permissions and user privileges"
	case executor.ErrorTypeTimeout:
		return "raise --timeout or STAGEFMT_TIMEOUT"
	case executor.ErrorTypeWorkingDirectory:
		return "ensure the working directory exists and is accessible"
	case executor.ErrorTypeExitStatus:
		return r.exitStatusFix(execErr)
	}
	return ""
}

func (r *ErrorReporter) exitStatusFix(execErr *executor.ExecError) string {
	name := filepath.Base(execErr.Command)
	switch {
	case name == "patch":
		return "the working tree copy has diverged from the staged content; the index already holds the " +
			"formatted version, so reconcile the working tree by hand"
	case strings.HasPrefix(name, "clang-format"):
		return "fix the reported style problem by hand, stage the file and run again"
	}
	return fmt.Sprintf("run with --debug to trace every command (%s -n --debug)", r.program)
}
