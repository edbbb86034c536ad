package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ErrorType represents different types of pre-execution errors
type ErrorType string

const (
	// ErrorTypeInvalidArguments represents command-line usage errors
	ErrorTypeInvalidArguments ErrorType = "invalid_arguments"
	// ErrorTypeConfigParsing represents settings file failures
	ErrorTypeConfigParsing ErrorType = "config_parsing_failed"
	// ErrorTypeSuiteLoad represents suite documents that could not be loaded
	ErrorTypeSuiteLoad ErrorType = "suite_load_failed"
	// ErrorTypeEnvFile represents environment file failures
	ErrorTypeEnvFile ErrorType = "env_file_failed"
	// ErrorTypeLogFileOpen represents log file opening failures
	ErrorTypeLogFileOpen ErrorType = "log_file_open_failed"
	// ErrorTypeSystemError represents system errors
	ErrorTypeSystemError ErrorType = "system_error"
)

// PreExecutionError represents an error that occurs before any suite runs
type PreExecutionError struct {
	Type      ErrorType
	Message   string
	Component string
	RunID     string
	Err       error
}

// Error implements the error interface
func (e *PreExecutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v (component: %s, run_id: %s)", e.Type, e.Message, e.Err, e.Component, e.RunID)
	}
	return fmt.Sprintf("%s: %s (component: %s, run_id: %s)", e.Type, e.Message, e.Component, e.RunID)
}

// Unwrap implements error wrapping for errors.Unwrap
func (e *PreExecutionError) Unwrap() error {
	return e.Err
}

// HandlePreExecutionError reports err on w and through slog, followed by a
// machine readable summary line carrying exitCode.
func HandlePreExecutionError(w io.Writer, err *PreExecutionError, exitCode int) {
	// Build the output first so concurrent writers cannot interleave it
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", err.Type)
	if err.Component != "" {
		fmt.Fprintf(&b, "  Component: %s\n", err.Component)
	}
	details := err.Message
	if err.Err != nil {
		details = fmt.Sprintf("%s: %v", err.Message, err.Err)
	}
	for i, line := range strings.Split(details, "\n") {
		if i == 0 {
			fmt.Fprintf(&b, "  Details: %s\n", line)
			continue
		}
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if err.RunID != "" {
		fmt.Fprintf(&b, "  Run ID: %s\n", err.RunID)
	}
	fmt.Fprintf(&b, "RUN_SUMMARY run_id=%s exit_code=%d status=pre_execution_error\n", err.RunID, exitCode)
	fmt.Fprint(w, b.String())

	slog.Debug("Pre-execution error occurred",
		"error_type", string(err.Type),
		"error_message", err.Message,
		"component", err.Component,
		"run_id", err.RunID)
}
