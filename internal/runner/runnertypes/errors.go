package runnertypes

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is the root of every configuration error. Configuration
// errors are detected before a command runs and never count as test failures.
var ErrConfiguration = errors.New("configuration error")

// Configuration error categories
var (
	ErrMalformedDocument = fmt.Errorf("%w: document is not well-formed", ErrConfiguration)
	ErrInvalidRoot       = fmt.Errorf("%w: invalid root element", ErrConfiguration)
	ErrUnknownElement    = fmt.Errorf("%w: unknown element", ErrConfiguration)
	ErrUnknownAttribute  = fmt.Errorf("%w: unknown attribute", ErrConfiguration)
	ErrMissingElement    = fmt.Errorf("%w: missing required element", ErrConfiguration)
	ErrDuplicateElement  = fmt.Errorf("%w: duplicate element", ErrConfiguration)
	ErrEmptyValue        = fmt.Errorf("%w: empty value", ErrConfiguration)
	ErrInvalidTimeout    = fmt.Errorf("%w: invalid timeout", ErrConfiguration)
	ErrDuplicateVariable = fmt.Errorf("%w: duplicate variable", ErrConfiguration)
	ErrNoExpectations    = fmt.Errorf("%w: case declares no expectations", ErrConfiguration)
	ErrInvalidMatchMode  = fmt.Errorf("%w: invalid match mode", ErrConfiguration)
	ErrInvalidNormalize  = fmt.Errorf("%w: invalid normalize keyword", ErrConfiguration)
	ErrInvalidRegex      = fmt.Errorf("%w: invalid regular expression", ErrConfiguration)
	ErrInvalidExitCode   = fmt.Errorf("%w: invalid exit code", ErrConfiguration)
)

// ErrSuiteNotFound is returned when a suite file does not exist.
var ErrSuiteNotFound = errors.New("suite file not found")

// SuiteLoadError reports every problem found while loading one suite file.
// The offending suite is never run.
type SuiteLoadError struct {
	Path     string
	Problems []error
}

// Error returns a multi-line description listing each problem.
func (e *SuiteLoadError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("suite %q: %v", e.Path, e.Problems[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "suite %q: %d problems", e.Path, len(e.Problems))
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n  - %v", p)
	}
	return b.String()
}

// Unwrap exposes the individual problems to errors.Is and errors.As.
func (e *SuiteLoadError) Unwrap() []error {
	return e.Problems
}
