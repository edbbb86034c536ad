// Package runnertypes defines the core data structures used throughout the test runner.
package runnertypes

import (
	"fmt"
	"time"
)

// MatchMode selects how an expected stream value is compared with actual output.
type MatchMode string

const (
	// MatchExact requires character-for-character equality
	MatchExact MatchMode = "exact"
	// MatchContains requires the expected text to occur as a substring
	MatchContains MatchMode = "contains"
	// MatchRegex treats the expected text as an unanchored regular expression
	MatchRegex MatchMode = "regex"
)

// DefaultMatchMode is used when a stream expectation omits the match attribute.
const DefaultMatchMode = MatchExact

// ParseMatchMode converts an attribute value into a MatchMode.
// An empty value yields DefaultMatchMode.
func ParseMatchMode(s string) (MatchMode, error) {
	switch MatchMode(s) {
	case "":
		return DefaultMatchMode, nil
	case MatchExact, MatchContains, MatchRegex:
		return MatchMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMatchMode, s)
	}
}

// NormalizeKeyword names one transform of the output normalization pipeline.
type NormalizeKeyword string

const (
	// NormalizeANSI strips ANSI/VT escape sequences
	NormalizeANSI NormalizeKeyword = "ansi"
	// NormalizeWhitespace trims and collapses whitespace runs into single spaces
	NormalizeWhitespace NormalizeKeyword = "whitespace"
)

// NormalizePipeline lists every recognized keyword in the fixed order the
// pipeline applies them, regardless of the order they were declared in.
var NormalizePipeline = []NormalizeKeyword{NormalizeANSI, NormalizeWhitespace}

// Stream identifies one facet of a command execution an expectation can target.
type Stream string

const (
	// StreamStdout is the captured standard output
	StreamStdout Stream = "stdout"
	// StreamStderr is the captured standard error
	StreamStderr Stream = "stderr"
	// StreamExitCode is the process exit status
	StreamExitCode Stream = "exit_code"
)

// Variable is one declared environment variable.
type Variable struct {
	Name  string
	Value string
}

// Environment is the configuration scope shared by a suite or owned by a single case.
// A suite's Environment and a case's Environment are independent values; how they
// combine is decided by the environment resolver, not by this type.
type Environment struct {
	// Variables in document order. Names are unique within one Environment.
	Variables []Variable

	// WorkingDir is the directory commands run in (empty: inherit)
	WorkingDir string

	// Setup commands run in order before the scope's work
	Setup []string

	// Teardown commands run in order after the scope's work
	Teardown []string
}

// VariableMap returns the declared variables as a name to value map.
func (e *Environment) VariableMap() map[string]string {
	if e == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(e.Variables))
	for _, v := range e.Variables {
		m[v.Name] = v.Value
	}
	return m
}

// StreamExpectation is an assertion about stdout or stderr.
type StreamExpectation struct {
	// Mode is the comparison strategy
	Mode MatchMode

	// Normalize holds the keywords to apply to actual output, in pipeline order
	Normalize []NormalizeKeyword

	// Expected is the expected text (or pattern for MatchRegex), used as written
	Expected string
}

// Expectations groups the assertions declared for one case.
// At least one of the three must be set.
type Expectations struct {
	Stdout   *StreamExpectation
	Stderr   *StreamExpectation
	ExitCode *int
}

// IsEmpty reports whether no expectation was declared.
func (e Expectations) IsEmpty() bool {
	return e.Stdout == nil && e.Stderr == nil && e.ExitCode == nil
}

// Count returns the number of declared expectations.
func (e Expectations) Count() int {
	n := 0
	if e.Stdout != nil {
		n++
	}
	if e.Stderr != nil {
		n++
	}
	if e.ExitCode != nil {
		n++
	}
	return n
}

// Case is one command invocation together with its expectations.
type Case struct {
	// Description is the human readable case name
	Description string

	// Timeout overrides the suite timeout when non-nil
	Timeout *time.Duration

	// Environment is the case scope (nil when the case declares none)
	Environment *Environment

	// Command is the executable path or name, never interpreted by a shell
	Command string

	// Args are passed to the command as a literal argument vector
	Args []string

	// Stdin is written to the command's standard input when non-nil
	Stdin *string

	// Expect holds the declared assertions
	Expect Expectations
}

// Suite is a parsed and validated test suite document.
// It is immutable after construction by the loader.
type Suite struct {
	// Path is the file the suite was loaded from
	Path string

	// Description names the suite (defaults to Path when the document has none)
	Description string

	// Timeout is the default case timeout for this suite when non-nil
	Timeout *time.Duration

	// Environment is the suite scope (nil when the document declares none)
	Environment *Environment

	// Cases in document order
	Cases []*Case
}
