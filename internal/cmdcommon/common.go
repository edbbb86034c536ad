// Package cmdcommon provides common functionality for command-line tools.
package cmdcommon

import (
	"errors"
	"fmt"
)

// Build-time variables (set via ldflags)
var (
	Version = "dev"
)

// Process exit codes
const (
	// ExitSuccess means every suite passed
	ExitSuccess = 0
	// ExitFailure means a case failed or errored, or the run was interrupted
	ExitFailure = 1
	// ExitUsage means the invocation itself was wrong: bad flags, unreadable
	// settings or suites that could not be loaded
	ExitUsage = 2
)

// ExitCodeError carries the process exit code a command wants to end with.
type ExitCodeError struct {
	Code int
	Err  error
}

// Error implements the error interface
func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
// A nil error is success; errors without an explicit code are usage errors.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
