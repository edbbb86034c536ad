// Package common provides timeout resolution functionality for the test runner.
package common

import "time"

// Timeout resolution levels
const (
	TimeoutLevelCase    = "case"
	TimeoutLevelSuite   = "suite"
	TimeoutLevelDefault = "default"
)

// TimeoutResolutionContext provides context information for timeout resolution logging and debugging.
type TimeoutResolutionContext struct {
	// CaseName is the description of the case being resolved
	CaseName string

	// SuiteName is the description of the suite containing the case
	SuiteName string

	// Level indicates which level in the hierarchy provided the effective timeout
	// Possible values: "case", "suite", "default"
	Level string
}

// ResolveTimeout resolves the effective timeout from the hierarchy.
// It follows the precedence: case > suite > default.
//
// A nil pointer means "not set at this level". A resolved value of zero means
// unlimited execution.
func ResolveTimeout(caseTimeout, suiteTimeout *time.Duration, defaultTimeout time.Duration) time.Duration {
	resolved, _ := ResolveTimeoutWithContext(caseTimeout, suiteTimeout, defaultTimeout, "", "")
	return resolved
}

// ResolveTimeoutWithContext resolves the effective timeout and returns context information
// about which level provided it.
func ResolveTimeoutWithContext(caseTimeout, suiteTimeout *time.Duration, defaultTimeout time.Duration, caseName, suiteName string) (time.Duration, TimeoutResolutionContext) {
	var resolved time.Duration
	var level string

	switch {
	case caseTimeout != nil:
		resolved = *caseTimeout
		level = TimeoutLevelCase
	case suiteTimeout != nil:
		resolved = *suiteTimeout
		level = TimeoutLevelSuite
	default:
		resolved = defaultTimeout
		level = TimeoutLevelDefault
	}

	return resolved, TimeoutResolutionContext{
		CaseName:  caseName,
		SuiteName: suiteName,
		Level:     level,
	}
}

// IsUnlimitedTimeout returns true if the given timeout represents unlimited execution.
func IsUnlimitedTimeout(timeout time.Duration) bool {
	return timeout <= 0
}
