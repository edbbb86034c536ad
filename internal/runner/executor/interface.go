package executor

import (
	"context"
	"time"
)

// ExitCodeUnknown is reported when the process never produced an exit status.
const ExitCodeUnknown = -1

// CommandExecutor defines the interface for executing commands
type CommandExecutor interface {
	// Execute runs a command to completion, timeout or cancellation
	Execute(ctx context.Context, cmd Command) (*Result, error)
	// Validate validates a command without executing it
	Validate(cmd Command) error
}

// Command is one fully resolved subprocess invocation.
type Command struct {
	// Path is the executable path or name. Names without a path separator are
	// looked up in the PATH of Env.
	Path string

	// Args are passed as a literal argument vector; no shell is involved
	Args []string

	// Stdin is written to the process when non-nil; otherwise stdin is empty
	Stdin *string

	// Dir is the working directory (empty: the runner's working directory)
	Dir string

	// Env is the complete process environment in KEY=VALUE form
	Env []string

	// Timeout bounds the whole invocation including stdin delivery (<= 0: unlimited)
	Timeout time.Duration
}

// Result contains the result of a command execution
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration

	// TimedOut is set when the process was killed because Timeout expired
	TimedOut bool
}

// FileSystem defines the file system checks the executor needs
type FileSystem interface {
	// IsDir checks if the path is an existing directory
	IsDir(path string) (bool, error)
}
