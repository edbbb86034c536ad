// Package environment derives the effective process environment, working
// directory, hooks and timeout for suite-scoped and case-scoped commands.
package environment

import (
	"bytes"
	"fmt"
	"log/slog"
	"maps"
	"os"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/joho/godotenv"
)

// BaseEnvironment is the environment every command inherits before suite and
// case variables are applied. It is an explicit snapshot taken once per run
// so that resolution never reads the process environment implicitly.
type BaseEnvironment struct {
	vars map[string]string
}

// FromProcess snapshots the environment of the invoking process.
func FromProcess() *BaseEnvironment {
	return FromPairs(os.Environ())
}

// FromPairs builds a BaseEnvironment from KEY=VALUE strings. Malformed
// entries are skipped; later duplicates win.
func FromPairs(pairs []string) *BaseEnvironment {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := common.ParseKeyValue(pair)
		if !ok {
			continue
		}
		vars[key] = value
	}
	return &BaseEnvironment{vars: vars}
}

// LoadEnvFile reads a dotenv file and overlays its variables on the base
// environment. Variables from the file override inherited ones.
func (b *BaseEnvironment) LoadEnvFile(fs common.FileSystem, path string) error {
	content, err := fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read environment file %s: %w", path, err)
	}

	fileEnv, err := godotenv.Parse(bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to parse environment file %s: %w", path, err)
	}

	maps.Copy(b.vars, fileEnv)
	slog.Debug("Loaded environment file", "path", path, "variables", len(fileEnv))
	return nil
}

// Lookup returns the value of one base variable.
func (b *BaseEnvironment) Lookup(name string) (string, bool) {
	v, ok := b.vars[name]
	return v, ok
}

// Len returns the number of base variables.
func (b *BaseEnvironment) Len() int {
	return len(b.vars)
}

// Map returns a copy of the base variables.
func (b *BaseEnvironment) Map() map[string]string {
	return maps.Clone(b.vars)
}
