package runner

import (
	"errors"
	"fmt"
	"strings"
)

// Error definitions
var (
	ErrRunIDRequired = errors.New("runID is required")
	ErrHookFailed    = errors.New("hook command failed")
)

// Hook scopes used in diagnostics
const (
	scopeSuiteSetup    = "suite setup"
	scopeSuiteTeardown = "suite teardown"
	scopeCaseSetup     = "case setup"
	scopeCaseTeardown  = "case teardown"
)

// HookError reports a setup or teardown command that could not be run or
// exited with a non-zero status.
type HookError struct {
	Scope    string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *HookError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s command %q failed: %v", e.Scope, e.Command, e.Err)
	}
	msg := fmt.Sprintf("%s command %q failed with exit code %d", e.Scope, e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *HookError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrHookFailed
}
