package environment

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// ErrWorkingDirNotFound is returned when a declared working directory does
// not exist or is not a directory.
var ErrWorkingDirNotFound = errors.New("working directory does not exist")

// Effective is the fully resolved execution context of one scope.
// It is derived on demand and never stored on the suite tree.
type Effective struct {
	// Env is the complete process environment
	Env map[string]string

	// WorkingDir is an absolute directory, or empty to inherit the runner's
	WorkingDir string

	// Setup and Teardown are the hook command lines of this scope only
	Setup    []string
	Teardown []string

	// Timeout is the resolved case timeout (zero: unlimited)
	Timeout time.Duration

	// TimeoutLevel names the level that provided Timeout
	TimeoutLevel string
}

// Environ returns Env as sorted KEY=VALUE strings.
func (e *Effective) Environ() []string {
	keys := make([]string, 0, len(e.Env))
	for k := range e.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+e.Env[k])
	}
	return env
}

// Resolver combines the base environment with suite and case scopes.
type Resolver struct {
	base           *BaseEnvironment
	fs             common.FileSystem
	defaultTimeout time.Duration
}

// Option configures a Resolver
type Option func(*Resolver)

// WithFileSystem sets the file system used to check working directories
func WithFileSystem(fs common.FileSystem) Option {
	return func(r *Resolver) {
		r.fs = fs
	}
}

// WithDefaultTimeout sets the timeout used when neither case nor suite declares one
func WithDefaultTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		r.defaultTimeout = d
	}
}

// NewResolver creates a Resolver over base.
func NewResolver(base *BaseEnvironment, opts ...Option) *Resolver {
	if base == nil {
		base = FromPairs(nil)
	}
	r := &Resolver{
		base: base,
		fs:   common.NewDefaultFileSystem(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveSuite resolves the context of suite-level setup and teardown
// commands: base variables overlaid with suite variables, and the suite
// working directory. Hooks run under the suite timeout.
func (r *Resolver) ResolveSuite(suite *runnertypes.Suite) (*Effective, error) {
	env := r.base.Map()
	maps.Copy(env, suite.Environment.VariableMap())

	dir, err := r.workingDir(suiteWorkingDir(suite))
	if err != nil {
		return nil, err
	}

	timeout, ctx := common.ResolveTimeoutWithContext(nil, suite.Timeout, r.defaultTimeout, "", suite.Description)

	eff := &Effective{
		Env:          env,
		WorkingDir:   dir,
		Timeout:      timeout,
		TimeoutLevel: ctx.Level,
	}
	if suite.Environment != nil {
		eff.Setup = slices.Clone(suite.Environment.Setup)
		eff.Teardown = slices.Clone(suite.Environment.Teardown)
	}
	return eff, nil
}

// ResolveCase resolves the context of one case. Case variables override
// suite variables, which override the base environment. The case working
// directory wins over the suite's. Setup and Teardown hold the case hooks.
func (r *Resolver) ResolveCase(suite *runnertypes.Suite, c *runnertypes.Case) (*Effective, error) {
	env := r.base.Map()
	maps.Copy(env, suite.Environment.VariableMap())
	maps.Copy(env, c.Environment.VariableMap())

	declared := suiteWorkingDir(suite)
	if c.Environment != nil && c.Environment.WorkingDir != "" {
		declared = c.Environment.WorkingDir
	}
	dir, err := r.workingDir(declared)
	if err != nil {
		return nil, err
	}

	timeout, ctx := common.ResolveTimeoutWithContext(c.Timeout, suite.Timeout, r.defaultTimeout, c.Description, suite.Description)
	slog.Debug("Resolved case timeout",
		"case", ctx.CaseName,
		"suite", ctx.SuiteName,
		"timeout", timeout,
		"level", ctx.Level)

	eff := &Effective{
		Env:          env,
		WorkingDir:   dir,
		Timeout:      timeout,
		TimeoutLevel: ctx.Level,
	}
	if c.Environment != nil {
		eff.Setup = slices.Clone(c.Environment.Setup)
		eff.Teardown = slices.Clone(c.Environment.Teardown)
	}
	return eff, nil
}

func suiteWorkingDir(suite *runnertypes.Suite) string {
	if suite.Environment == nil {
		return ""
	}
	return suite.Environment.WorkingDir
}

// workingDir makes a declared directory absolute against the runner's
// working directory and checks that it exists.
func (r *Resolver) workingDir(declared string) (string, error) {
	if declared == "" {
		return "", nil
	}

	dir := declared
	if !filepath.IsAbs(dir) {
		wd, err := r.fs.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		dir = filepath.Join(wd, dir)
	}

	isDir, err := r.fs.IsDir(dir)
	if err != nil || !isDir {
		return "", fmt.Errorf("%w: %s", ErrWorkingDirNotFound, declared)
	}
	return dir, nil
}
