// Package debug provides debug logging functionality for stagefmt.
package debug

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Logger provides debug logging capabilities
type Logger struct {
	enabled bool
	writer  io.Writer
	start   time.Time
}

// Global debug logger instance
var globalLogger = &Logger{
	enabled: false,
	writer:  os.Stderr,
}

// Enable enables debug logging
func Enable() {
	globalLogger.enabled = true
	globalLogger.start = time.Now()
}

// Disable turns debug logging back off
func Disable() {
	globalLogger.enabled = false
}

// IsEnabled returns whether debug logging is enabled
func IsEnabled() bool {
	return globalLogger.enabled
}

// SetWriter sets the output writer for debug logs
func SetWriter(w io.Writer) {
	globalLogger.writer = w
}

// Log writes a debug message if debugging is enabled
func Log(format string, args ...interface{}) {
	if !globalLogger.enabled {
		return
	}

	elapsed := time.Since(globalLogger.start)
	prefix := fmt.Sprintf("[DEBUG %s] ", formatDuration(elapsed))
	message := fmt.Sprintf(format, args...)

	if !strings.HasSuffix(message, "\n") {
		message += "\n"
	}

	_, _ = fmt.Fprint(globalLogger.writer, prefix+message)
}

// LogSection writes a section header for better organization
func LogSection(title string) {
	if !globalLogger.enabled {
		return
	}

	Log("=== %s ===", title)
}

// LogCommand logs a subprocess about to be started
func LogCommand(command string, args []string, workingDir string) {
	if !globalLogger.enabled {
		return
	}

	if len(args) > 0 {
		Log("exec: %s %s", command, strings.Join(args, " "))
	} else {
		Log("exec: %s", command)
	}
	if workingDir != "" {
		Log("  in: %s", workingDir)
	}
}

// LogTiming logs timing information
func LogTiming(operation string, duration time.Duration) {
	if !globalLogger.enabled {
		return
	}

	Log("Timing: %s took %s", operation, formatDuration(duration))
}

// LogProbe logs the outcome of probing a formatter candidate
func LogProbe(path string, major int, err error) {
	if !globalLogger.enabled {
		return
	}

	if err != nil {
		Log("Candidate %s skipped: %v", path, err)
		return
	}
	Log("Candidate %s reports major version %d", path, major)
}

// LogMatch logs whether a staged path passed the file filter
func LogMatch(path string, matched bool) {
	if !globalLogger.enabled {
		return
	}

	status := "skipped"
	if matched {
		status = "eligible"
	}

	Log("File: %q - %s", truncate(path, 80), status)
}

// LogError logs error details
func LogError(err error, context string) {
	if !globalLogger.enabled {
		return
	}

	Log("Error in %s: %v", context, err)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
