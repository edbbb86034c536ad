// Package main provides the entry point for clitest. It parses the command
// line, loads the suites given as arguments, runs them and writes a report
// to standard output. The exit status is 0 when every suite passed, 1 when a
// case failed or the run was interrupted and 2 when the invocation or a
// suite document was invalid.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/isseis/go-safe-cmd-tester/internal/cmdcommon"
	"github.com/isseis/go-safe-cmd-tester/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs one invocation and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Generate run ID early for error handling
	return executeApp(ctx, newApp(logging.GenerateRunID(), stdout, stderr), args)
}

func executeApp(ctx context.Context, app *app, args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd := newRootCommand(app)
	cmd.SetArgs(args)
	cmd.SetOut(app.stdout)
	cmd.SetErr(app.stderr)

	defer app.close()

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return cmdcommon.ExitSuccess
	}

	code := cmdcommon.ExitCode(err)
	if preExecErr, ok := asPreExecutionError(err); ok {
		logging.HandlePreExecutionError(app.stderr, preExecErr, code)
	} else if !app.started {
		// Flag and argument errors from cobra itself
		logging.HandlePreExecutionError(app.stderr, &logging.PreExecutionError{
			Type:      logging.ErrorTypeInvalidArguments,
			Message:   err.Error(),
			Component: "cli",
			RunID:     app.runID,
		}, code)
	}
	return code
}
