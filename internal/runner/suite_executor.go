package runner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/aggregate"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/environment"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// RunSuite executes one suite: suite setup, every case in document order,
// then suite teardown. Suite teardown is attempted whenever setup started,
// including after a setup failure or an interruption.
func (r *Runner) RunSuite(ctx context.Context, suite *runnertypes.Suite) *runnertypes.SuiteResult {
	startTime := time.Now()
	sr := &runnertypes.SuiteResult{Suite: suite}
	defer func() {
		sr.Duration = time.Since(startTime)
	}()

	slog.Info("Executing suite",
		common.LogFieldSuite, suite.Description,
		"path", suite.Path,
		"cases", len(suite.Cases),
		common.LogFieldRunID, r.runID)

	eff, err := r.resolver.ResolveSuite(suite)
	if err != nil {
		slog.Error("Suite configuration could not be resolved",
			"suite", suite.Description,
			"error", err)
		sr.SetupFailed = true
		sr.SetupError = err
		for _, c := range suite.Cases {
			sr.Cases = append(sr.Cases, aggregate.ConfigurationFailed(c, err))
		}
		return sr
	}

	if err := r.runHooks(ctx, scopeSuiteSetup, eff.Setup, eff); err != nil {
		slog.Error("Suite setup failed",
			"suite", suite.Description,
			"error", err)
		sr.SetupFailed = true
		sr.SetupError = err
		for _, c := range suite.Cases {
			if ctx.Err() != nil {
				sr.Cases = append(sr.Cases, aggregate.Interrupted(c, ctx.Err()))
				continue
			}
			sr.Cases = append(sr.Cases, aggregate.SetupFailedCase(c, err))
		}
		r.runSuiteTeardown(ctx, sr, eff)
		return sr
	}

	for _, c := range suite.Cases {
		if ctx.Err() != nil {
			sr.Cases = append(sr.Cases, aggregate.Interrupted(c, ctx.Err()))
			continue
		}
		sr.Cases = append(sr.Cases, r.runCase(ctx, sr, c))
	}

	r.runSuiteTeardown(ctx, sr, eff)

	counts := sr.Counts()
	slog.Info("Suite finished",
		common.LogFieldSuite, suite.Description,
		common.LogFieldOutcome, sr.Outcome(),
		"passed", counts.Passed,
		"failed", counts.Failed,
		"errors", counts.Errors)
	return sr
}

func (r *Runner) runSuiteTeardown(ctx context.Context, sr *runnertypes.SuiteResult, eff *environment.Effective) {
	tctx, cancel := r.teardownContext(ctx)
	defer cancel()

	if err := r.runHooks(tctx, scopeSuiteTeardown, eff.Teardown, eff); err != nil {
		slog.Warn("Suite teardown failed",
			"suite", sr.Description(),
			"error", err)
		sr.TeardownFailed = true
		sr.TeardownError = errors.Join(sr.TeardownError, err)
	}
}

// teardownContext returns ctx unchanged while the run is live. Once ctx is
// cancelled, teardown gets a detached context bounded by the grace period.
func (r *Runner) teardownContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx.Err() == nil {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(context.WithoutCancel(ctx), r.teardownGrace)
}

// runCase executes one case inside its suite and always returns a result.
func (r *Runner) runCase(ctx context.Context, sr *runnertypes.SuiteResult, c *runnertypes.Case) *runnertypes.CaseResult {
	eff, err := r.resolver.ResolveCase(sr.Suite, c)
	if err != nil {
		slog.Warn("Case configuration could not be resolved",
			"case", c.Description,
			"error", err)
		return aggregate.ConfigurationFailed(c, err)
	}

	cr := r.executeCase(ctx, c, eff)
	cr.Timeout = eff.Timeout

	tctx, cancel := r.teardownContext(ctx)
	defer cancel()
	if err := r.runHooks(tctx, scopeCaseTeardown, eff.Teardown, eff); err != nil {
		slog.Warn("Case teardown failed",
			"case", c.Description,
			"error", err)
		cr.TeardownError = err
		sr.TeardownFailed = true
		sr.TeardownError = errors.Join(sr.TeardownError, err)
	}

	slog.Debug("Case finished",
		common.LogFieldSuite, sr.Description(),
		"result", cr)
	return cr
}

func (r *Runner) executeCase(ctx context.Context, c *runnertypes.Case, eff *environment.Effective) *runnertypes.CaseResult {
	if err := r.runHooks(ctx, scopeCaseSetup, eff.Setup, eff); err != nil {
		slog.Warn("Case setup failed",
			"case", c.Description,
			"error", err)
		if ctx.Err() != nil {
			return aggregate.Interrupted(c, ctx.Err())
		}
		return aggregate.CaseSetupFailed(c, err)
	}

	cmd := executor.Command{
		Path:    c.Command,
		Args:    c.Args,
		Stdin:   c.Stdin,
		Dir:     eff.WorkingDir,
		Env:     eff.Environ(),
		Timeout: eff.Timeout,
	}

	traceLevel := slog.LevelDebug
	if r.traceCases {
		traceLevel = slog.LevelInfo
	}
	slog.Log(ctx, traceLevel, "Executing case",
		"case", c.Description,
		"command", executor.FormatCommandForLog(cmd.Path, cmd.Args),
		"dir", cmd.Dir,
		"timeout", cmd.Timeout,
		"timeout_level", eff.TimeoutLevel)

	if common.IsUnlimitedTimeout(eff.Timeout) {
		stop := monitorUnlimitedExecution(ctx, c.Description, r.unlimitedWarningInterval)
		defer stop()
	}

	res, err := r.executor.Execute(ctx, cmd)
	switch {
	case err == nil:
		return aggregate.EvaluateCase(c, res)
	case errors.Is(err, executor.ErrTimeout):
		if res == nil {
			res = &executor.Result{ExitCode: executor.ExitCodeUnknown, TimedOut: true}
		}
		res.TimedOut = true
		slog.Warn("Case timed out",
			"case", c.Description,
			"timeout", eff.Timeout)
		return aggregate.EvaluateCase(c, res)
	case errors.Is(err, executor.ErrInterrupted):
		return aggregate.Interrupted(c, err)
	default:
		slog.Warn("Case command could not be executed",
			"case", c.Description,
			"error", err)
		return aggregate.LaunchFailed(c, res, err)
	}
}

// runHooks runs setup or teardown command lines in order and stops at the
// first one that fails. Hooks inherit the scope's environment, working
// directory and timeout.
func (r *Runner) runHooks(ctx context.Context, scope string, lines []string, eff *environment.Effective) error {
	for _, line := range lines {
		argv, err := common.SplitCommandLine(line)
		if err != nil {
			return &HookError{Scope: scope, Command: line, ExitCode: executor.ExitCodeUnknown, Err: err}
		}

		slog.Debug("Running hook", "scope", scope, "command", line)
		res, err := r.executor.Execute(ctx, executor.Command{
			Path:    argv[0],
			Args:    argv[1:],
			Dir:     eff.WorkingDir,
			Env:     eff.Environ(),
			Timeout: eff.Timeout,
		})
		if err != nil {
			hookErr := &HookError{Scope: scope, Command: line, ExitCode: executor.ExitCodeUnknown, Err: err}
			if res != nil {
				hookErr.ExitCode = res.ExitCode
				hookErr.Stderr = res.Stderr
			}
			return hookErr
		}
		if res.Stdout != "" || res.Stderr != "" {
			slog.Debug("Hook output", "scope", scope, "command", line,
				"stdout", res.Stdout, "stderr", res.Stderr)
		}
		if res.ExitCode != 0 {
			return &HookError{Scope: scope, Command: line, ExitCode: res.ExitCode, Stderr: res.Stderr}
		}
	}
	return nil
}
