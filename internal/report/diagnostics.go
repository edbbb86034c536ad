package report

import (
	"errors"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// mismatchDiagnostic is one failed expectation as shown in reports.
type mismatchDiagnostic struct {
	Field    string `yaml:"field"`
	Mode     string `yaml:"mode,omitempty"`
	Expected string `yaml:"expected"`
	Actual   string `yaml:"actual"`
	Diff     string `yaml:"diff,omitempty"`
}

// caseDiagnostics collects the facts about a non-passing case.
type caseDiagnostics struct {
	Mismatches []mismatchDiagnostic `yaml:"mismatches,omitempty"`
	ExitCode   *int                 `yaml:"exit_code,omitempty"`
	TimedOut   bool                 `yaml:"timed_out,omitempty"`
	Timeout    string               `yaml:"timeout,omitempty"`
	Error      string               `yaml:"error,omitempty"`
	Teardown   string               `yaml:"teardown_error,omitempty"`
	Stdout     string               `yaml:"stdout,omitempty"`
	Stderr     string               `yaml:"stderr,omitempty"`
	DurationMS int64                `yaml:"duration_ms"`
}

func newCaseDiagnostics(cr *runnertypes.CaseResult, verbose bool) caseDiagnostics {
	d := caseDiagnostics{
		TimedOut:   cr.TimedOut,
		DurationMS: cr.Duration.Milliseconds(),
	}
	for _, m := range cr.Mismatches {
		d.Mismatches = append(d.Mismatches, mismatchDiagnostic{
			Field:    string(m.Field),
			Mode:     string(m.Mode),
			Expected: m.Expected,
			Actual:   m.Actual,
			Diff:     m.Diff,
		})
	}
	if cr.ExitCode != executor.ExitCodeUnknown {
		exitCode := cr.ExitCode
		d.ExitCode = &exitCode
	}
	if cr.TimedOut && cr.Timeout > 0 {
		d.Timeout = cr.Timeout.String()
	}
	if cr.Err != nil && cr.Err.Error() != cr.Message {
		d.Error = cr.Err.Error()
	}
	if cr.TeardownError != nil {
		d.Teardown = cr.TeardownError.Error()
	}
	if verbose {
		d.Stdout = cr.Stdout
		d.Stderr = cr.Stderr
	}
	return d
}

// severity is "fail" for expectation failures and timeouts, and "error" for
// cases that could not be evaluated.
func severity(cr *runnertypes.CaseResult) string {
	if cr.Outcome == runnertypes.OutcomeFail {
		return "fail"
	}
	return "error"
}

// errorType classifies a non-passing case for machine readable reports.
func errorType(cr *runnertypes.CaseResult) string {
	var launchErr *executor.LaunchError
	switch {
	case cr.TimedOut:
		return "Timeout"
	case cr.Outcome == runnertypes.OutcomeFail:
		return "ExpectationMismatch"
	case cr.Message == runnertypes.MessageInterrupted:
		return "Interrupted"
	case cr.Message == runnertypes.MessageSuiteSetupFailed, cr.Message == runnertypes.MessageCaseSetupFailed:
		return "SetupFailure"
	case errors.Is(cr.Err, runnertypes.ErrConfiguration), cr.Message == runnertypes.MessageWorkingDirMissing:
		return "ConfigurationError"
	case errors.As(cr.Err, &launchErr), cr.Message == runnertypes.MessageLaunchFailed:
		return "LaunchError"
	default:
		return "Error"
	}
}
