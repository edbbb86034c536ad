package terminal

import (
	"os"
	"path/filepath"
	"testing"
)

// fakeEnv returns a LookupEnvFunc backed by vars, so tests never see the
// real process environment.
func fakeEnv(vars map[string]string) LookupEnvFunc {
	return func(key string) (string, bool) {
		value, ok := vars[key]
		return value, ok
	}
}

// nonTerminal returns a regular file to stand in for redirected output.
func nonTerminal(t *testing.T) *os.File {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("failed to create output file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

// fakeTerminal reports a fixed interactive state.
type fakeTerminal struct{}

func (fakeTerminal) Fd() uintptr { return ^uintptr(0) }
