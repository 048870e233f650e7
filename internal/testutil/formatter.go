package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// FormatViolation marks input the fake formatter refuses to format.
const FormatViolation = "FORMAT_ERROR"

// fakeClangFormatScript mimics clang-format closely enough for the workflow:
// it answers --version, reads stdin and writes the result to stdout. A line
// ending in ") {" is split so the brace sits on its own line.
const fakeClangFormatScript = `#!/bin/sh
if [ "$1" = "--version" ]; then
	echo "%s"
	exit 0
fi
if [ -n "$FAKE_CLANG_FORMAT_LOG" ]; then
	echo "$*" >> "$FAKE_CLANG_FORMAT_LOG"
fi
exec awk '
/` + FormatViolation + `/ { print "<stdin>:" NR ":1: error: code should be clang-formatted [-Wclang-format-violations]" > "/dev/stderr"; failed = 1 }
{ if (match($0, /\) *\{$/)) { print substr($0, 1, RSTART); print "{" } else print }
END { if (failed) exit 1 }
'
`

// FakeClangFormatScript returns the fake formatter reporting major.
func FakeClangFormatScript(major int) string {
	return fmt.Sprintf(fakeClangFormatScript, VersionLine(major))
}

// FakeClangFormat writes an executable named name into dir that reports the
// given major version and formats like the script above.
func FakeClangFormat(t testing.TB, dir, name string, major int) string {
	t.Helper()
	return FakeExecutable(t, dir, name, FakeClangFormatScript(major))
}

// VersionLine returns a --version banner in the format clang-format prints.
func VersionLine(major int) string {
	return fmt.Sprintf("Ubuntu clang-format version %d.0.7-0ubuntu0.22.04.3", major)
}

// FakeExecutable writes script to dir/name with the execute bit set.
func FakeExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil { //nolint:gosec // G306: script needs to be executable
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}
