package runnertypes

import (
	"log/slog"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
)

// Outcome is the tri-state verdict of a case or suite.
type Outcome string

const (
	// OutcomePass means every declared expectation matched
	OutcomePass Outcome = "pass"
	// OutcomeFail means the command completed (or timed out) and an expectation did not hold
	OutcomeFail Outcome = "fail"
	// OutcomeError means the case could not be evaluated: setup failed, launch failed, or the run was interrupted
	OutcomeError Outcome = "error"
)

// Diagnostic messages attached to case results.
const (
	MessageTimedOut          = "Test command timed out"
	MessageLaunchFailed      = "Command execution failed"
	MessageSuiteSetupFailed  = "Suite setup failed"
	MessageCaseSetupFailed   = "Test case setup command failed"
	MessageWorkingDirMissing = "Working directory does not exist"
	MessageInterrupted       = "Test run interrupted"
	MessageMismatch          = "Expectation mismatch"
	MessageMatcherFailed     = "Expectation could not be evaluated"
)

// Mismatch records one expectation that did not hold.
type Mismatch struct {
	// Field is the facet that was compared
	Field Stream

	// Mode is the comparison strategy (empty for exit codes)
	Mode MatchMode

	// Expected is the declared value
	Expected string

	// Actual is the observed value after normalization
	Actual string

	// Diff is a human readable rendering of the difference (may be empty)
	Diff string
}

// CaseResult is the outcome of one case. It is never mutated after it has
// been handed to the caller of the aggregator.
type CaseResult struct {
	Case    *Case
	Outcome Outcome

	// Message is a short diagnostic for non-passing outcomes
	Message string

	// Err is the underlying cause for error outcomes and timeouts
	Err error

	// Mismatches lists every expectation that did not hold, in stdout, stderr, exit_code order
	Mismatches []Mismatch

	// Raw captured output for diagnostics
	Stdout   string
	Stderr   string
	ExitCode int

	// TimedOut is set when the command exceeded its resolved timeout
	TimedOut bool
	Timeout  time.Duration

	Duration time.Duration

	// TeardownError is set when a case-scoped teardown command failed.
	// It never changes Outcome.
	TeardownError error
}

// Passed reports whether the case outcome is pass.
func (r *CaseResult) Passed() bool {
	return r.Outcome == OutcomePass
}

// LogValue implements slog.LogValuer. Captured output is left out; it can be
// large and is already part of the report.
func (r *CaseResult) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String(common.LogFieldOutcome, string(r.Outcome)),
		slog.Int(common.LogFieldExitCode, r.ExitCode),
		slog.Int64(common.LogFieldDuration, r.Duration.Milliseconds()),
	}
	if r.Case != nil {
		attrs = append([]slog.Attr{slog.String(common.LogFieldCase, r.Case.Description)}, attrs...)
	}
	if r.Message != "" {
		attrs = append(attrs, slog.String(common.LogFieldMessage, r.Message))
	}
	if r.TimedOut {
		attrs = append(attrs, slog.Bool(common.LogFieldTimedOut, true))
	}
	if len(r.Mismatches) > 0 {
		fields := make([]string, 0, len(r.Mismatches))
		for _, m := range r.Mismatches {
			fields = append(fields, string(m.Field))
		}
		attrs = append(attrs, slog.Any(common.LogFieldMismatches, fields))
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String(common.LogFieldError, r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

// SuiteResult is the outcome of one suite.
type SuiteResult struct {
	Suite *Suite
	Cases []*CaseResult

	// SetupFailed is set when a suite-level setup command failed; no case was executed
	SetupFailed bool
	SetupError  error

	// TeardownFailed is set when any suite or case teardown command failed.
	// It is reported but never flips the suite outcome.
	TeardownFailed bool
	TeardownError  error

	Duration time.Duration
}

// CaseCounts tallies case outcomes within a suite.
type CaseCounts struct {
	Total  int
	Passed int
	Failed int
	Errors int
}

// NotPassed returns the number of cases that did not pass.
func (c CaseCounts) NotPassed() int {
	return c.Failed + c.Errors
}

// Counts tallies the case outcomes of the suite.
func (r *SuiteResult) Counts() CaseCounts {
	c := CaseCounts{Total: len(r.Cases)}
	for _, cr := range r.Cases {
		switch cr.Outcome {
		case OutcomePass:
			c.Passed++
		case OutcomeFail:
			c.Failed++
		default:
			c.Errors++
		}
	}
	return c
}

// Outcome is pass iff setup succeeded and every case passed, fail otherwise.
// A setup failure is reported through SetupFailed.
func (r *SuiteResult) Outcome() Outcome {
	if r.SetupFailed {
		return OutcomeFail
	}
	for _, cr := range r.Cases {
		if cr.Outcome != OutcomePass {
			return OutcomeFail
		}
	}
	return OutcomePass
}

// Passed reports whether the suite outcome is pass.
func (r *SuiteResult) Passed() bool {
	return r.Outcome() == OutcomePass
}

// Description returns the suite description for reporting.
func (r *SuiteResult) Description() string {
	if r.Suite == nil {
		return ""
	}
	return r.Suite.Description
}

// RunResult is the result tree of one invocation: suites in the order given.
type RunResult struct {
	RunID string

	// Suites holds the results of every suite that was loaded, in input order
	Suites []*SuiteResult

	// LoadErrors holds suites that could not be loaded and were not run
	LoadErrors []*SuiteLoadError

	// Interrupted is set when the run was cancelled before it completed
	Interrupted bool

	Duration time.Duration
}
