// Package common provides shared types and utilities used across the application
package common

// Log field keys shared by the runner's structured log records and the JSON
// run log. Keep these stable: the run log is consumed by scripts.
const (
	LogFieldRunID      = "run_id"
	LogFieldSuite      = "suite"
	LogFieldCase       = "case"
	LogFieldOutcome    = "outcome"
	LogFieldMessage    = "message"
	LogFieldExitCode   = "exit_code"
	LogFieldTimedOut   = "timed_out"
	LogFieldMismatches = "mismatches"
	LogFieldDuration   = "duration_ms"
	LogFieldError      = "error"
)

// LogSchemaVersion is attached to every record of the JSON run log.
const LogSchemaVersion = 1
