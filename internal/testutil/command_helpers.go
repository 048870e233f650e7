package testutil

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

// RequireCommand skips the test if the command is not available.
func RequireCommand(t testing.TB, command string) {
	t.Helper()

	_, err := exec.LookPath(command)
	if err != nil {
		t.Skipf("Command %q not found in PATH", command)
	}
}

// TestContext returns a context that is cancelled when the test ends or
// after 30 seconds, whichever comes first.
func TestContext(t testing.TB) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
