// Package aggregate turns raw execution results into case, suite and run
// verdicts and maps the run verdict onto a process exit code.
package aggregate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/environment"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/matcher"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/normalize"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Process exit codes of a run
const (
	// ExitPassed means every suite passed
	ExitPassed = 0
	// ExitFailed means at least one case failed or errored, or the run was interrupted
	ExitFailed = 1
	// ExitConfiguration means at least one suite could not be loaded
	ExitConfiguration = 2
)

// EvaluateCase compares an execution result with the case's expectations.
//
// Every declared expectation is evaluated independently, so a failing case
// reports all of its mismatches. A timed-out command fails without mismatch
// records. An expectation that cannot be evaluated (for example a malformed
// pattern) makes the case an error.
func EvaluateCase(c *runnertypes.Case, res *executor.Result) *runnertypes.CaseResult {
	cr := &runnertypes.CaseResult{
		Case:     c,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
		ExitCode: res.ExitCode,
		Duration: res.Duration,
		TimedOut: res.TimedOut,
	}

	if res.TimedOut {
		cr.Outcome = runnertypes.OutcomeFail
		cr.Message = runnertypes.MessageTimedOut
		cr.Err = executor.ErrTimeout
		return cr
	}

	var evalErrs []error
	if m, err := evaluateStream(runnertypes.StreamStdout, c.Expect.Stdout, res.Stdout); err != nil {
		evalErrs = append(evalErrs, err)
	} else if m != nil {
		cr.Mismatches = append(cr.Mismatches, *m)
	}
	if m, err := evaluateStream(runnertypes.StreamStderr, c.Expect.Stderr, res.Stderr); err != nil {
		evalErrs = append(evalErrs, err)
	} else if m != nil {
		cr.Mismatches = append(cr.Mismatches, *m)
	}
	if c.Expect.ExitCode != nil && !matcher.MatchesExitCode(*c.Expect.ExitCode, res.ExitCode) {
		cr.Mismatches = append(cr.Mismatches, runnertypes.Mismatch{
			Field:    runnertypes.StreamExitCode,
			Expected: strconv.Itoa(*c.Expect.ExitCode),
			Actual:   strconv.Itoa(res.ExitCode),
		})
	}

	switch {
	case len(evalErrs) > 0:
		cr.Outcome = runnertypes.OutcomeError
		cr.Message = runnertypes.MessageMatcherFailed
		cr.Err = errors.Join(evalErrs...)
	case len(cr.Mismatches) > 0:
		cr.Outcome = runnertypes.OutcomeFail
		cr.Message = runnertypes.MessageMismatch
	default:
		cr.Outcome = runnertypes.OutcomePass
	}
	return cr
}

func evaluateStream(field runnertypes.Stream, exp *runnertypes.StreamExpectation, raw string) (*runnertypes.Mismatch, error) {
	if exp == nil {
		return nil, nil
	}

	actual := normalize.Normalize(raw, exp.Normalize)
	ok, err := matcher.Matches(exp.Mode, exp.Expected, actual)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	if ok {
		return nil, nil
	}

	m := &runnertypes.Mismatch{
		Field:    field,
		Mode:     exp.Mode,
		Expected: exp.Expected,
		Actual:   actual,
	}
	if exp.Mode == runnertypes.MatchExact || exp.Mode == "" {
		m.Diff = matcher.Diff(exp.Expected, actual)
	}
	return m, nil
}

func errorCase(c *runnertypes.Case, message string, err error) *runnertypes.CaseResult {
	return &runnertypes.CaseResult{
		Case:     c,
		Outcome:  runnertypes.OutcomeError,
		Message:  message,
		Err:      err,
		ExitCode: executor.ExitCodeUnknown,
	}
}

// SetupFailedCase is the result of a case that never ran because its suite
// setup failed.
func SetupFailedCase(c *runnertypes.Case, err error) *runnertypes.CaseResult {
	return errorCase(c, runnertypes.MessageSuiteSetupFailed, err)
}

// CaseSetupFailed is the result of a case whose own setup command failed.
func CaseSetupFailed(c *runnertypes.Case, err error) *runnertypes.CaseResult {
	return errorCase(c, runnertypes.MessageCaseSetupFailed, err)
}

// LaunchFailed is the result of a case whose command could not be started.
// A partial result is used for any output captured before the failure.
func LaunchFailed(c *runnertypes.Case, res *executor.Result, err error) *runnertypes.CaseResult {
	message := runnertypes.MessageLaunchFailed
	if errors.Is(err, environment.ErrWorkingDirNotFound) || errors.Is(err, executor.ErrDirNotExists) {
		message = runnertypes.MessageWorkingDirMissing
	}
	cr := errorCase(c, message, err)
	if res != nil {
		cr.Stdout = res.Stdout
		cr.Stderr = res.Stderr
		cr.ExitCode = res.ExitCode
		cr.Duration = res.Duration
	}
	return cr
}

// Interrupted is the result of a case cut short or skipped by cancellation.
func Interrupted(c *runnertypes.Case, err error) *runnertypes.CaseResult {
	if err == nil {
		err = executor.ErrInterrupted
	}
	return errorCase(c, runnertypes.MessageInterrupted, err)
}

// ConfigurationFailed is the result of a case whose configuration could not
// be resolved before execution.
func ConfigurationFailed(c *runnertypes.Case, err error) *runnertypes.CaseResult {
	message := err.Error()
	if errors.Is(err, environment.ErrWorkingDirNotFound) {
		message = runnertypes.MessageWorkingDirMissing
	}
	return errorCase(c, message, err)
}

// SuiteOutcome is pass iff setup succeeded and every case passed. Teardown
// failures are reported separately and never change the outcome.
func SuiteOutcome(sr *runnertypes.SuiteResult) runnertypes.Outcome {
	return sr.Outcome()
}

// Verdict is the conjunction of every suite outcome. A run with load errors
// or an interruption never passes.
func Verdict(run *runnertypes.RunResult) bool {
	if len(run.LoadErrors) > 0 || run.Interrupted {
		return false
	}
	for _, sr := range run.Suites {
		if SuiteOutcome(sr) != runnertypes.OutcomePass {
			return false
		}
	}
	return true
}

// ExitCode maps a run onto the process exit status.
func ExitCode(run *runnertypes.RunResult) int {
	if len(run.LoadErrors) > 0 {
		return ExitConfiguration
	}
	if !Verdict(run) {
		return ExitFailed
	}
	return ExitPassed
}
