package aggregate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/environment"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func stdoutCase(mode runnertypes.MatchMode, expected string, keywords ...runnertypes.NormalizeKeyword) *runnertypes.Case {
	return &runnertypes.Case{
		Description: "case",
		Command:     "cmd",
		Expect: runnertypes.Expectations{
			Stdout: &runnertypes.StreamExpectation{Mode: mode, Expected: expected, Normalize: keywords},
		},
	}
}

func TestEvaluateCase_Pass(t *testing.T) {
	tests := []struct {
		name string
		c    *runnertypes.Case
		res  *executor.Result
	}{
		{
			name: "exact stdout",
			c:    stdoutCase(runnertypes.MatchExact, "pong\n"),
			res:  &executor.Result{Stdout: "pong\n"},
		},
		{
			name: "contains after ansi and whitespace normalization",
			c:    stdoutCase(runnertypes.MatchContains, "CRITICAL error", runnertypes.NormalizeANSI, runnertypes.NormalizeWhitespace),
			res:  &executor.Result{Stdout: "\x1b[31mCRITICAL\x1b[0m\n   error occurred", ExitCode: 5},
		},
		{
			name: "regex",
			c:    stdoutCase(runnertypes.MatchRegex, `^v\d+\.\d+`),
			res:  &executor.Result{Stdout: "v1.2.3\n"},
		},
		{
			name: "exit code only",
			c:    &runnertypes.Case{Expect: runnertypes.Expectations{ExitCode: intPtr(5)}},
			res:  &executor.Result{ExitCode: 5, Stdout: "ignored"},
		},
		{
			name: "all three",
			c: &runnertypes.Case{Expect: runnertypes.Expectations{
				Stdout:   &runnertypes.StreamExpectation{Mode: runnertypes.MatchExact, Expected: "out"},
				Stderr:   &runnertypes.StreamExpectation{Mode: runnertypes.MatchContains, Expected: "warn"},
				ExitCode: intPtr(0),
			}},
			res: &executor.Result{Stdout: "out", Stderr: "a warning", ExitCode: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := EvaluateCase(tt.c, tt.res)
			assert.Equal(t, runnertypes.OutcomePass, cr.Outcome)
			assert.True(t, cr.Passed())
			assert.Empty(t, cr.Mismatches)
			assert.Empty(t, cr.Message)
			assert.Same(t, tt.c, cr.Case)
		})
	}
}

func TestEvaluateCase_ReportsEveryMismatch(t *testing.T) {
	c := &runnertypes.Case{Expect: runnertypes.Expectations{
		Stdout:   &runnertypes.StreamExpectation{Mode: runnertypes.MatchExact, Expected: "pong"},
		Stderr:   &runnertypes.StreamExpectation{Mode: runnertypes.MatchContains, Expected: "fatal"},
		ExitCode: intPtr(0),
	}}
	res := &executor.Result{Stdout: "pong\n", Stderr: "", ExitCode: 3}

	cr := EvaluateCase(c, res)
	assert.Equal(t, runnertypes.OutcomeFail, cr.Outcome)
	assert.Equal(t, runnertypes.MessageMismatch, cr.Message)
	require.Len(t, cr.Mismatches, 3)

	assert.Equal(t, runnertypes.StreamStdout, cr.Mismatches[0].Field)
	assert.Equal(t, "pong\n", cr.Mismatches[0].Actual)
	assert.NotEmpty(t, cr.Mismatches[0].Diff)

	assert.Equal(t, runnertypes.StreamStderr, cr.Mismatches[1].Field)
	assert.Empty(t, cr.Mismatches[1].Diff)

	assert.Equal(t, runnertypes.StreamExitCode, cr.Mismatches[2].Field)
	assert.Equal(t, "0", cr.Mismatches[2].Expected)
	assert.Equal(t, "3", cr.Mismatches[2].Actual)
}

func TestEvaluateCase_ExpectedTextIsNotNormalized(t *testing.T) {
	c := stdoutCase(runnertypes.MatchExact, "  hello  ", runnertypes.NormalizeWhitespace)
	cr := EvaluateCase(c, &executor.Result{Stdout: "hello"})

	assert.Equal(t, runnertypes.OutcomeFail, cr.Outcome)
	require.Len(t, cr.Mismatches, 1)
	assert.Equal(t, "hello", cr.Mismatches[0].Actual)
}

func TestEvaluateCase_Timeout(t *testing.T) {
	c := &runnertypes.Case{Expect: runnertypes.Expectations{ExitCode: intPtr(0)}}
	res := &executor.Result{Stdout: "partial", ExitCode: -1, TimedOut: true}

	cr := EvaluateCase(c, res)
	assert.Equal(t, runnertypes.OutcomeFail, cr.Outcome)
	assert.Equal(t, runnertypes.MessageTimedOut, cr.Message)
	assert.True(t, cr.TimedOut)
	assert.Empty(t, cr.Mismatches)
	assert.Equal(t, "partial", cr.Stdout)
	assert.ErrorIs(t, cr.Err, executor.ErrTimeout)
}

func TestEvaluateCase_MatcherError(t *testing.T) {
	c := &runnertypes.Case{Expect: runnertypes.Expectations{
		Stdout:   &runnertypes.StreamExpectation{Mode: runnertypes.MatchRegex, Expected: "("},
		ExitCode: intPtr(1),
	}}

	cr := EvaluateCase(c, &executor.Result{Stdout: "x", ExitCode: 0})
	assert.Equal(t, runnertypes.OutcomeError, cr.Outcome)
	assert.Equal(t, runnertypes.MessageMatcherFailed, cr.Message)
	assert.ErrorIs(t, cr.Err, runnertypes.ErrInvalidRegex)
}

func TestErrorConstructors(t *testing.T) {
	c := &runnertypes.Case{Description: "c"}
	cause := errors.New("boom")

	tests := []struct {
		name     string
		cr       *runnertypes.CaseResult
		expected string
	}{
		{name: "suite setup", cr: SetupFailedCase(c, cause), expected: runnertypes.MessageSuiteSetupFailed},
		{name: "case setup", cr: CaseSetupFailed(c, cause), expected: runnertypes.MessageCaseSetupFailed},
		{name: "launch", cr: LaunchFailed(c, nil, cause), expected: runnertypes.MessageLaunchFailed},
		{name: "interrupted", cr: Interrupted(c, cause), expected: runnertypes.MessageInterrupted},
		{name: "configuration", cr: ConfigurationFailed(c, cause), expected: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, runnertypes.OutcomeError, tt.cr.Outcome)
			assert.Equal(t, tt.expected, tt.cr.Message)
			assert.Same(t, c, tt.cr.Case)
			assert.ErrorIs(t, tt.cr.Err, cause)
			assert.Equal(t, executor.ExitCodeUnknown, tt.cr.ExitCode)
		})
	}
}

func TestLaunchFailed_MissingWorkingDirectory(t *testing.T) {
	c := &runnertypes.Case{}
	err := &executor.LaunchError{Command: "ls", Err: fmt.Errorf("dir: %w", executor.ErrDirNotExists)}

	cr := LaunchFailed(c, nil, err)
	assert.Equal(t, runnertypes.MessageWorkingDirMissing, cr.Message)

	cr = ConfigurationFailed(c, fmt.Errorf("%w: /x", environment.ErrWorkingDirNotFound))
	assert.Equal(t, runnertypes.MessageWorkingDirMissing, cr.Message)
}

func TestLaunchFailed_KeepsPartialOutput(t *testing.T) {
	res := &executor.Result{Stdout: "so far", ExitCode: -1}
	cr := LaunchFailed(&runnertypes.Case{}, res, errors.New("wait failed"))
	assert.Equal(t, "so far", cr.Stdout)
}

func TestInterrupted_DefaultCause(t *testing.T) {
	cr := Interrupted(&runnertypes.Case{}, nil)
	assert.ErrorIs(t, cr.Err, executor.ErrInterrupted)
}

func passing() *runnertypes.CaseResult {
	return &runnertypes.CaseResult{Outcome: runnertypes.OutcomePass}
}

func failing() *runnertypes.CaseResult {
	return &runnertypes.CaseResult{Outcome: runnertypes.OutcomeFail}
}

func TestSuiteOutcome(t *testing.T) {
	tests := []struct {
		name     string
		sr       *runnertypes.SuiteResult
		expected runnertypes.Outcome
	}{
		{name: "all pass", sr: &runnertypes.SuiteResult{Cases: []*runnertypes.CaseResult{passing(), passing()}}, expected: runnertypes.OutcomePass},
		{name: "one fails", sr: &runnertypes.SuiteResult{Cases: []*runnertypes.CaseResult{passing(), failing()}}, expected: runnertypes.OutcomeFail},
		{name: "setup failed", sr: &runnertypes.SuiteResult{SetupFailed: true}, expected: runnertypes.OutcomeFail},
		{
			name:     "teardown failure does not flip outcome",
			sr:       &runnertypes.SuiteResult{Cases: []*runnertypes.CaseResult{passing()}, TeardownFailed: true},
			expected: runnertypes.OutcomePass,
		},
		{name: "no cases", sr: &runnertypes.SuiteResult{}, expected: runnertypes.OutcomePass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuiteOutcome(tt.sr))
		})
	}
}

func TestExitCode(t *testing.T) {
	passSuite := &runnertypes.SuiteResult{Cases: []*runnertypes.CaseResult{passing()}}
	failSuite := &runnertypes.SuiteResult{Cases: []*runnertypes.CaseResult{failing()}}
	loadErr := &runnertypes.SuiteLoadError{Path: "bad.xml", Problems: []error{runnertypes.ErrInvalidNormalize}}

	tests := []struct {
		name     string
		run      *runnertypes.RunResult
		expected int
		verdict  bool
	}{
		{name: "all pass", run: &runnertypes.RunResult{Suites: []*runnertypes.SuiteResult{passSuite, passSuite}}, expected: ExitPassed, verdict: true},
		{name: "no suites", run: &runnertypes.RunResult{}, expected: ExitPassed, verdict: true},
		{name: "one suite fails", run: &runnertypes.RunResult{Suites: []*runnertypes.SuiteResult{passSuite, failSuite}}, expected: ExitFailed},
		{name: "interrupted", run: &runnertypes.RunResult{Suites: []*runnertypes.SuiteResult{passSuite}, Interrupted: true}, expected: ExitFailed},
		{
			name:     "load error wins over failure",
			run:      &runnertypes.RunResult{Suites: []*runnertypes.SuiteResult{failSuite}, LoadErrors: []*runnertypes.SuiteLoadError{loadErr}},
			expected: ExitConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCode(tt.run))
			assert.Equal(t, tt.verdict, Verdict(tt.run))
		})
	}
}
