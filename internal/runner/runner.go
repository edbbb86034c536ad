// Package runner drives test suites: it runs hooks and cases strictly in
// document order, contains every failure to the unit it belongs to, and
// produces the result tree consumed by reporters.
package runner

import (
	"context"
	"log/slog"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/aggregate"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/environment"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// DefaultTeardownGrace bounds teardown commands that run after the run
// was interrupted.
const DefaultTeardownGrace = 5 * time.Second

// Runner executes loaded suites
type Runner struct {
	executor                 executor.CommandExecutor
	resolver                 *environment.Resolver
	runID                    string
	teardownGrace            time.Duration
	unlimitedWarningInterval time.Duration
	traceCases               bool
}

// Option is a function type for configuring Runner instances
type Option func(*runnerOptions)

// runnerOptions holds all configuration options for creating a Runner
type runnerOptions struct {
	executor                 executor.CommandExecutor
	resolver                 *environment.Resolver
	runID                    string
	teardownGrace            time.Duration
	unlimitedWarningInterval time.Duration
	traceCases               bool
}

// WithExecutor sets a custom command executor
func WithExecutor(exec executor.CommandExecutor) Option {
	return func(opts *runnerOptions) {
		opts.executor = exec
	}
}

// WithResolver sets the environment resolver. The default resolves against
// a snapshot of the process environment with no default timeout.
func WithResolver(resolver *environment.Resolver) Option {
	return func(opts *runnerOptions) {
		opts.resolver = resolver
	}
}

// WithRunID sets a custom run ID for tracking execution
func WithRunID(runID string) Option {
	return func(opts *runnerOptions) {
		opts.runID = runID
	}
}

// WithTeardownGrace overrides DefaultTeardownGrace
func WithTeardownGrace(d time.Duration) Option {
	return func(opts *runnerOptions) {
		opts.teardownGrace = d
	}
}

// WithUnlimitedWarningInterval overrides DefaultUnlimitedWarningInterval.
// Zero disables the warnings.
func WithUnlimitedWarningInterval(d time.Duration) Option {
	return func(opts *runnerOptions) {
		opts.unlimitedWarningInterval = d
	}
}

// WithCaseTrace logs every case at info level as it starts instead of debug.
func WithCaseTrace(enabled bool) Option {
	return func(opts *runnerOptions) {
		opts.traceCases = enabled
	}
}

// NewRunner creates a new suite runner with optional customizations
func NewRunner(options ...Option) (*Runner, error) {
	opts := &runnerOptions{
		teardownGrace:            DefaultTeardownGrace,
		unlimitedWarningInterval: DefaultUnlimitedWarningInterval,
	}
	for _, option := range options {
		option(opts)
	}

	if opts.runID == "" {
		return nil, ErrRunIDRequired
	}
	if opts.executor == nil {
		opts.executor = executor.NewDefaultExecutor()
	}
	if opts.resolver == nil {
		opts.resolver = environment.NewResolver(environment.FromProcess())
	}

	return &Runner{
		executor:                 opts.executor,
		resolver:                 opts.resolver,
		runID:                    opts.runID,
		teardownGrace:            opts.teardownGrace,
		unlimitedWarningInterval: opts.unlimitedWarningInterval,
		traceCases:               opts.traceCases,
	}, nil
}

// RunID returns the identifier of this run
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes every suite in order and assembles the run result. Suites
// listed in loadErrs were rejected by the loader and are reported but not run.
// Cancelling ctx kills the running command; remaining cases are recorded as
// interrupted and suite teardown still runs within the grace period.
func (r *Runner) Run(ctx context.Context, suites []*runnertypes.Suite, loadErrs []*runnertypes.SuiteLoadError) *runnertypes.RunResult {
	startTime := time.Now()
	run := &runnertypes.RunResult{
		RunID:      r.runID,
		LoadErrors: loadErrs,
	}

	for _, suite := range suites {
		if ctx.Err() != nil {
			run.Suites = append(run.Suites, interruptedSuite(suite, ctx.Err()))
			continue
		}
		run.Suites = append(run.Suites, r.RunSuite(ctx, suite))
	}

	run.Interrupted = ctx.Err() != nil
	run.Duration = time.Since(startTime)

	var passed, notPassed int
	for _, sr := range run.Suites {
		counts := sr.Counts()
		passed += counts.Passed
		notPassed += counts.NotPassed()
	}
	slog.Info("Run finished",
		common.LogFieldRunID, r.runID,
		"suites", len(run.Suites),
		"load_errors", len(loadErrs),
		"passed", passed,
		"not_passed", notPassed,
		"interrupted", run.Interrupted,
		common.LogFieldExitCode, aggregate.ExitCode(run),
		common.LogFieldDuration, run.Duration.Milliseconds())
	return run
}

// interruptedSuite records a suite that was never started.
func interruptedSuite(suite *runnertypes.Suite, cause error) *runnertypes.SuiteResult {
	sr := &runnertypes.SuiteResult{Suite: suite}
	for _, c := range suite.Cases {
		sr.Cases = append(sr.Cases, aggregate.Interrupted(c, cause))
	}
	return sr
}
