// Package executor runs test commands as isolated subprocesses. Every process
// is started in its own process group, bounded by a wall-clock timeout, and
// reaped before Execute returns on every path.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
)

// Error definitions
var (
	ErrEmptyCommand = errors.New("command cannot be empty")
	ErrDirNotExists = errors.New("directory does not exist")
	ErrTimeout      = errors.New("command timed out")
	ErrInterrupted  = errors.New("command interrupted")
)

// DefaultWaitDelay bounds how long Execute waits for output pipes to close
// after the process has exited or been killed. Descendants that inherited the
// pipes cannot hold the call open longer than this.
const DefaultWaitDelay = 2 * time.Second

// LaunchError reports a command that could not be started at all.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch %q: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// DefaultExecutor is the default implementation of CommandExecutor
type DefaultExecutor struct {
	FS        FileSystem
	WaitDelay time.Duration
}

// Option configures a DefaultExecutor
type Option func(*DefaultExecutor)

// WithFileSystem sets the file system used for working directory checks
func WithFileSystem(fs FileSystem) Option {
	return func(e *DefaultExecutor) {
		e.FS = fs
	}
}

// WithWaitDelay overrides DefaultWaitDelay
func WithWaitDelay(d time.Duration) Option {
	return func(e *DefaultExecutor) {
		e.WaitDelay = d
	}
}

// NewDefaultExecutor creates a new default command executor
func NewDefaultExecutor(opts ...Option) *DefaultExecutor {
	e := &DefaultExecutor{
		FS:        common.NewDefaultFileSystem(),
		WaitDelay: DefaultWaitDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute implements the CommandExecutor interface.
//
// A non-zero exit status is not an error. The returned error is a
// *LaunchError when the process could not be started, wraps ErrTimeout when
// the timeout expired (the partial Result is still returned), and wraps
// ErrInterrupted when ctx was cancelled while the process was running.
func (e *DefaultExecutor) Execute(ctx context.Context, cmd Command) (*Result, error) {
	if err := e.Validate(cmd); err != nil {
		return nil, &LaunchError{Command: cmd.Path, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	path, err := lookPath(cmd.Path, cmd.Env)
	if err != nil {
		return nil, &LaunchError{Command: cmd.Path, Err: err}
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if cmd.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, cmd.Timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	// #nosec G204 - commands come from the suite under test and are never passed to a shell
	execCmd := exec.CommandContext(runCtx, path, cmd.Args...)
	execCmd.Args[0] = cmd.Path
	execCmd.Dir = cmd.Dir
	execCmd.Env = cmd.Env
	if execCmd.Env == nil {
		execCmd.Env = []string{}
	}
	if cmd.Stdin != nil {
		execCmd.Stdin = strings.NewReader(*cmd.Stdin)
	}

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr
	execCmd.WaitDelay = e.WaitDelay
	setProcessGroup(execCmd)

	start := time.Now()
	if err := execCmd.Start(); err != nil {
		return nil, &LaunchError{Command: cmd.Path, Err: err}
	}
	slog.Debug("Command started", "command", cmd.Path, "pid", execCmd.Process.Pid, "timeout", cmd.Timeout)

	stopWatch := watchProcessGroup(runCtx, execCmd)
	waitErr := execCmd.Wait()
	fired := stopWatch()
	// Background descendants never outlive the call.
	_ = killProcessGroup(execCmd)

	result := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		ExitCode: ExitCodeUnknown,
	}
	if execCmd.ProcessState != nil {
		result.ExitCode = execCmd.ProcessState.ExitCode()
	}

	if fired || waitErr != nil {
		switch {
		case ctx.Err() != nil:
			return result, fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			result.TimedOut = true
			return result, fmt.Errorf("%w after %v", ErrTimeout, cmd.Timeout)
		}
	}
	if waitErr == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return result, nil
	}
	if errors.Is(waitErr, exec.ErrWaitDelay) {
		// The process exited; a descendant kept the output pipes open.
		slog.Debug("Output pipes held open after exit", "command", cmd.Path)
		return result, nil
	}
	return result, fmt.Errorf("command execution failed: %w", waitErr)
}

// watchProcessGroup kills the process group of cmd once runCtx is done. It
// covers the window after the direct child has exited while a descendant
// still holds the output pipes, which exec.Cmd no longer watches. The
// returned func stops the watcher and reports whether it fired before Wait
// returned.
func watchProcessGroup(runCtx context.Context, cmd *exec.Cmd) func() bool {
	var (
		mu       sync.Mutex
		finished bool
		fired    bool
	)
	done := make(chan struct{})

	go func() {
		select {
		case <-runCtx.Done():
			mu.Lock()
			defer mu.Unlock()
			if !finished {
				fired = true
				_ = killProcessGroup(cmd)
			}
		case <-done:
		}
	}()

	return func() bool {
		mu.Lock()
		finished = true
		f := fired
		mu.Unlock()
		close(done)
		return f
	}
}

// Validate implements the CommandExecutor interface
func (e *DefaultExecutor) Validate(cmd Command) error {
	if strings.TrimSpace(cmd.Path) == "" {
		return ErrEmptyCommand
	}

	if cmd.Dir != "" {
		isDir, err := e.FS.IsDir(cmd.Dir)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check directory %s: %w", cmd.Dir, err)
		}
		if !isDir {
			return fmt.Errorf("working directory %q: %w", cmd.Dir, ErrDirNotExists)
		}
	}

	return nil
}
