// Package matcher evaluates stream expectations against captured output.
package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Compile compiles a regex expectation. Patterns are RE2 syntax and may opt
// into multi-line or dot-matches-newline semantics with an inline flag
// prefix such as (?s) or (?m).
func Compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", runnertypes.ErrInvalidRegex, err)
	}
	return re, nil
}

// Matches reports whether actual satisfies expected under mode.
// Regex patterns are searched for anywhere in actual; callers needing a full
// match anchor the pattern with ^ and $.
func Matches(mode runnertypes.MatchMode, expected, actual string) (bool, error) {
	switch mode {
	case runnertypes.MatchExact, "":
		return actual == expected, nil
	case runnertypes.MatchContains:
		return strings.Contains(actual, expected), nil
	case runnertypes.MatchRegex:
		re, err := Compile(expected)
		if err != nil {
			return false, err
		}
		return re.MatchString(actual), nil
	default:
		return false, fmt.Errorf("%w: %q", runnertypes.ErrInvalidMatchMode, mode)
	}
}

// MatchesExitCode reports whether the exit code equals the expectation.
// Exit codes are never normalized and never subject to a match mode.
func MatchesExitCode(expected, actual int) bool {
	return expected == actual
}
