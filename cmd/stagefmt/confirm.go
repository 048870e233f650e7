package main

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/term"

	"github.com/bebsworthy/stagefmt/internal/patch"
	"github.com/bebsworthy/stagefmt/internal/reconcile"
)

var _ reconcile.Confirmer = (*terminalConfirmer)(nil)

// terminalConfirmer shows each diff on stderr and asks before it is written
type terminalConfirmer struct {
	printer *patch.Printer
}

func newTerminalConfirmer(colored bool) (*terminalConfirmer, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) { //nolint:gosec // fd fits in int
		return nil, fmt.Errorf("interactive mode needs a terminal on stdin")
	}
	return &terminalConfirmer{printer: patch.NewPrinter(os.Stderr, colored)}, nil
}

// Confirm prints d and asks whether to apply it
func (c *terminalConfirmer) Confirm(d patch.FileDiff) (bool, error) {
	if err := c.printer.Print(d); err != nil {
		return false, err
	}

	apply := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Apply formatting to %s?", d.Path),
		Default: true,
	}
	if err := survey.AskOne(prompt, &apply, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr)); err != nil {
		return false, err
	}

	return apply, nil
}
