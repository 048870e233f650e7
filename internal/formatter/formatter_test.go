package formatter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebsworthy/stagefmt/internal/executor"
	"github.com/bebsworthy/stagefmt/internal/testutil"
)

var clangArgs = []string{"-Werror", "--style=file"}

func TestFormat_PassesContentOnStdin(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.On("/usr/bin/clang-format-15", "-Werror", "--style=file").Success("int main(void)\n{\n}\n")

	inv := NewInvoker("/usr/bin/clang-format-15", clangArgs, runner, "/repo", 5*time.Second)
	input := []byte("int main(void) {\n}\n")

	out, err := inv.Format(context.Background(), "src/main.c", input)
	require.NoError(t, err)
	assert.Equal(t, "int main(void)\n{\n}\n", string(out))
	assert.Equal(t, "int main(void) {\n}\n", string(input), "input buffer must not change")

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, input, calls[0].Options.Stdin)
	assert.Equal(t, "/repo", calls[0].Options.WorkingDir)
	assert.Equal(t, 5*time.Second, calls[0].Options.Timeout)
}

func TestFormat_EmptyContent(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.On("clang-format").Success("")

	out, err := NewInvoker("clang-format", clangArgs, runner, "", 0).Format(context.Background(), "src/empty.h", nil)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.NotNil(t, runner.Calls()[0].Options.Stdin)
}

func TestFormat_Failure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.On("clang-format").Failure("<stdin>:3:1: error: code should be clang-formatted [-Wclang-format-violations]")

	_, err := NewInvoker("clang-format", clangArgs, runner, "", 0).Format(context.Background(), "src/bad.c", []byte("x"))
	require.Error(t, err)

	var execErr *executor.ExecError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, 1, execErr.ExitCode)
	assert.Contains(t, err.Error(), "format src/bad.c")
	assert.Contains(t, err.Error(), "clang-format-violations")
}

func TestFormat_RealExecutable(t *testing.T) {
	testutil.RequireCommand(t, "awk")

	exe := testutil.FakeClangFormat(t, t.TempDir(), "clang-format", 15)
	inv := NewInvoker(exe, clangArgs, executor.NewCommandExecutor(0), t.TempDir(), 0)

	out, err := inv.Format(testutil.TestContext(t), "src/main.c", []byte("int main(void) {\n\treturn 0;\n}\n"))
	require.NoError(t, err)
	assert.Equal(t, "int main(void)\n{\n\treturn 0;\n}\n", string(out))

	_, err = inv.Format(testutil.TestContext(t), "src/bad.c", []byte("int "+testutil.FormatViolation+";\n"))
	assert.ErrorIs(t, err, executor.ErrExitStatus)
}
