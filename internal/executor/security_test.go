package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Staged paths reach git and patch as plain arguments, so shell
// metacharacters in them must never be interpreted.
func TestExecute_ArgumentsAreNotShellInterpreted(t *testing.T) {
	executor := NewCommandExecutor(10 * time.Second)

	args := []string{
		"src/a b.c",
		"src/$(touch pwned).c",
		"src/`touch pwned`.c",
		"src/x;touch pwned.c",
		"src/x|cat.c",
		"src/x > out.c",
	}

	dir := t.TempDir()
	result, err := executor.Execute(context.Background(), "printf", append([]string{"%s\\n"}, args...), ExecOptions{
		WorkingDir: dir,
		InheritEnv: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", result.ExitCode, result.Stderr)
	}

	want := ""
	for _, a := range args {
		want += a + "\n"
	}
	if string(result.Stdout) != want {
		t.Errorf("arguments were altered:\nwant %q\ngot  %q", want, result.Stdout)
	}

	for _, name := range []string{"pwned", "out.c"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			t.Errorf("%s was created: an argument was run through a shell", name)
		}
	}
}

func TestExecute_StdinIsBinarySafe(t *testing.T) {
	executor := NewCommandExecutor(10 * time.Second)

	input := []byte("a\x00b\r\nc\xff\n")
	result, err := executor.Execute(context.Background(), "cat", nil, ExecOptions{Stdin: input})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result.Stdout) != string(input) {
		t.Errorf("expected %q, got %q", input, result.Stdout)
	}
}
