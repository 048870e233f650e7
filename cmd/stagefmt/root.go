package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bebsworthy/stagefmt/internal/config"
	"github.com/bebsworthy/stagefmt/internal/debug"
	"github.com/bebsworthy/stagefmt/internal/executor"
	"github.com/bebsworthy/stagefmt/internal/workflow"
	pkgconfig "github.com/bebsworthy/stagefmt/pkg/config"
)

// rootFlags holds the values bound to the root command's flags
type rootFlags struct {
	dryRun      bool
	debug       bool
	interactive bool
	color       colorFlag
	clangFormat string
	minVersion  int
	timeout     time.Duration
}

// newRootCmd creates and returns the root command
func newRootCmd(program string, env config.EnvProvider, stdout, stderr io.Writer) *cobra.Command {
	flags := &rootFlags{color: colorFlag(pkgconfig.ColorAuto)}

	cmd := &cobra.Command{
		Use:   "stagefmt",
		Short: "clang-format the files staged for commit",
		Long: `stagefmt runs clang-format over the content staged in the git index, not the
working tree, and writes the result back: the index entry is replaced with the
formatted blob (file mode unchanged) and the same change is patched into the
working tree file.

Only staged files matching src/**/*.h, src/**/*.c or src/**/*.cpp are
considered. The first clang-format on PATH reporting major version 14 or newer
is used.

ENVIRONMENT:
  STAGEFMT_CLANG_FORMAT   use this clang-format instead of searching PATH
  STAGEFMT_MIN_VERSION    minimum clang-format major version (default 14)
  STAGEFMT_TIMEOUT        bound each subprocess, e.g. 30s (default: none)

Flags take precedence over the environment.`,
		Example: `  # Show what would change
  stagefmt -n

  # Save the diff and apply it later
  stagefmt -n > fmt.patch

  # Rewrite the index and working tree
  stagefmt

  # Confirm each file, tracing every command
  stagefmt -i --debug`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.debug {
				debug.SetWriter(stderr)
				debug.Enable()
			}

			loader := config.NewLoader(env)
			cfg, err := loader.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, flags, cfg)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}

			opts := workflow.Options{
				Config:     cfg,
				SearchPath: loader.SearchPath(),
				Dir:        dir,
				Runner:     executor.NewCommandExecutor(cfg.Formatter.Timeout),
				Stdout:     stdout,
				Program:    program,
				Colored:    useColor(cfg.Color, stdout, env),
			}

			if cfg.Interactive {
				confirmer, err := newTerminalConfirmer(useColor(cfg.Color, os.Stderr, env))
				if err != nil {
					return err
				}
				opts.Confirmer = confirmer
			}

			_, err = workflow.New(opts).Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().BoolVarP(&flags.dryRun, "dry_run", "n", false, "Don't update the files, just print the diffs")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "i", false, "Confirm each file before rewriting it")
	cmd.Flags().Var(&flags.color, "color", "Colourise diffs: auto, always or never")
	cmd.Flags().StringVar(&flags.clangFormat, "clang-format", "", "Path to the clang-format executable (skips the PATH search)")
	cmd.Flags().IntVar(&flags.minVersion, "min-version", pkgconfig.DefaultMinMajorVersion, "Minimum clang-format major version")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Timeout for each subprocess (0 means none)")

	// Disable the default completion command
	cmd.CompletionOptions.DisableDefaultCmd = true

	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, flags *rootFlags, cfg *pkgconfig.Config) {
	cfg.DryRun = flags.dryRun
	cfg.Interactive = flags.interactive
	cfg.Debug = flags.debug
	cfg.Color = pkgconfig.ColorMode(flags.color)

	if cmd.Flags().Changed("clang-format") {
		cfg.Formatter.Path = flags.clangFormat
	}
	if cmd.Flags().Changed("min-version") {
		cfg.Formatter.MinMajorVersion = flags.minVersion
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Formatter.Timeout = flags.timeout
	}
}

// useColor decides whether output written to w gets ANSI colour
func useColor(mode pkgconfig.ColorMode, w io.Writer, env config.EnvProvider) bool {
	switch mode {
	case pkgconfig.ColorAlways:
		return true
	case pkgconfig.ColorNever:
		return false
	}

	if env.Get("NO_COLOR") != "" || env.Get("TERM") == "dumb" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // fd fits in int
}
