// Package main is the entry point for the stagefmt CLI tool.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bebsworthy/stagefmt/internal/config"
	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/reporter"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(run(os.Args, config.NewEnvProvider(), os.Stdout, os.Stderr))
}

// run executes the CLI with args (program name first) and returns the exit
// code. SIGINT and SIGTERM cancel the in-flight subprocess.
func run(args []string, env config.EnvProvider, stdout, stderr io.Writer) int {
	program := "stagefmt"
	if len(args) > 0 && args[0] != "" {
		program = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer debug.Disable()

	cmd := newRootCmd(program, env, stdout, stderr)
	cmd.SetArgs(args[min(1, len(args)):])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	report := reporter.NewErrorReporter(filepath.Base(program)).Report(err)
	if report.Stderr != "" {
		_, _ = io.WriteString(stderr, report.Stderr)
	}
	return report.ExitCode
}
