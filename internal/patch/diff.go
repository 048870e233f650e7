// Package patch renders unified diffs between staged and formatted content
// and applies them to the working tree.
package patch

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// ContextLines is the number of unchanged lines kept around each change
	ContextLines = 3

	// OldPrefix labels the staged side of a diff
	OldPrefix = "old/"
	// NewPrefix labels the formatted side of a diff
	NewPrefix = "new/"

	noNewlineMarker = "\\ No newline at end of file\n"
)

// FileDiff is the unified diff for one file
type FileDiff struct {
	Path string
	Text string
}

// Empty reports whether the diff has no hunks
func (d FileDiff) Empty() bool {
	return d.Text == ""
}

// Unified returns the diff turning original into formatted. Content is
// compared line by line as text; line endings are kept as part of each line.
func Unified(path string, original, formatted []byte) FileDiff {
	a := splitLines(string(original))
	b := splitLines(string(formatted))

	groups := difflib.NewMatcher(a, b).GetGroupedOpCodes(ContextLines)
	if len(groups) == 0 {
		return FileDiff{Path: path}
	}

	var sb strings.Builder
	sb.WriteString("--- " + label(OldPrefix, path) + "\n")
	sb.WriteString("+++ " + label(NewPrefix, path) + "\n")

	for _, group := range groups {
		first, last := group[0], group[len(group)-1]
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n",
			formatRange(first.I1, last.I2),
			formatRange(first.J1, last.J2))

		for _, op := range group {
			if op.Tag == 'e' {
				writeLines(&sb, ' ', a[op.I1:op.I2])
				continue
			}
			if op.Tag == 'r' || op.Tag == 'd' {
				writeLines(&sb, '-', a[op.I1:op.I2])
			}
			if op.Tag == 'r' || op.Tag == 'i' {
				writeLines(&sb, '+', b[op.J1:op.J2])
			}
		}
	}

	return FileDiff{Path: path, Text: sb.String()}
}

// label names one side of the diff. A trailing tab ends names containing
// spaces so patch does not read past them.
func label(prefix, path string) string {
	if strings.ContainsRune(path, ' ') {
		return prefix + path + "\t"
	}
	return prefix + path
}

// formatRange renders a hunk range: a single line is just its number and
// an empty range points at the line before it.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func writeLines(sb *strings.Builder, tag byte, lines []string) {
	for _, line := range lines {
		sb.WriteByte(tag)
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteString("\n" + noNewlineMarker)
		}
	}
}

// splitLines splits s after every newline. A final line without a newline
// is kept as is.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
