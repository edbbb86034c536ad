package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/isseis/go-safe-cmd-tester/internal/cmdcommon"
	"github.com/isseis/go-safe-cmd-tester/internal/color"
	"github.com/isseis/go-safe-cmd-tester/internal/common"
	"github.com/isseis/go-safe-cmd-tester/internal/logging"
	"github.com/isseis/go-safe-cmd-tester/internal/report"
	"github.com/isseis/go-safe-cmd-tester/internal/runner"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/aggregate"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/config"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/environment"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/executor"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
	"github.com/isseis/go-safe-cmd-tester/internal/terminal"
)

// options are the effective settings of one invocation after flags,
// the settings file and built-in defaults have been merged.
type options struct {
	verbose   bool
	quiet     bool
	listCases bool
	reporter  string
	timeout   time.Duration
	envFile   string
	logLevel  slog.Level
	logDir    string
	color     runnertypes.ColorMode
}

// app carries the process boundary of one invocation.
type app struct {
	runID  string
	stdout io.Writer
	stderr io.Writer
	fs     common.FileSystem

	lookupEnv terminal.LookupEnvFunc
	baseEnv   func() *environment.BaseEnvironment
	executor  executor.CommandExecutor

	logger *logging.Logger

	// started is set once flags were accepted; later failures report themselves
	started bool
}

func newApp(runID string, stdout, stderr io.Writer) *app {
	return &app{
		runID:     runID,
		stdout:    stdout,
		stderr:    stderr,
		fs:        common.NewDefaultFileSystem(),
		lookupEnv: os.LookupEnv,
		baseEnv:   environment.FromProcess,
	}
}

func (a *app) preExecutionError(errType logging.ErrorType, component, message string, err error) *logging.PreExecutionError {
	return &logging.PreExecutionError{
		Type:      errType,
		Message:   message,
		Component: component,
		RunID:     a.runID,
		Err:       err,
	}
}

// resolveOptions merges flags over the settings file over built-in defaults.
func resolveOptions(cmd *cobra.Command, f *flags, a *app) (*options, error) {
	settings, err := config.LoadSettings(a.fs, f.config)
	if err != nil {
		return nil, a.preExecutionError(logging.ErrorTypeConfigParsing, "config", "Failed to load settings", err)
	}
	changed := cmd.Flags().Changed

	opts := &options{
		verbose:   f.verbose,
		quiet:     f.quiet,
		listCases: f.listCases,
		reporter:  config.DefaultReporter,
		timeout:   config.DefaultTimeout,
		color:     runnertypes.ColorAuto,
		envFile:   settings.EnvFile,
		logDir:    settings.LogDir,
	}

	switch {
	case changed(flagReporter):
		opts.reporter = f.reporter
	case settings.Reporter != "":
		opts.reporter = settings.Reporter
	}
	if !report.IsValidName(opts.reporter) {
		return nil, a.preExecutionError(logging.ErrorTypeInvalidArguments, "cli", "Invalid reporter",
			fmt.Errorf("%w: %q", report.ErrUnknownReporter, opts.reporter))
	}

	switch {
	case changed(flagTimeout):
		if f.timeout < 0 {
			return nil, a.preExecutionError(logging.ErrorTypeInvalidArguments, "cli", "Invalid timeout",
				fmt.Errorf("%w: %s must not be negative", runnertypes.ErrInvalidDuration, f.timeout))
		}
		opts.timeout = f.timeout
	case settings.DefaultTimeout != nil:
		opts.timeout = settings.DefaultTimeout.Std()
	}

	level := runnertypes.DefaultLogLevel
	if f.verbose {
		level = runnertypes.LogLevelInfo
	}
	switch {
	case changed(flagLogLevel):
		if err := level.UnmarshalText([]byte(f.logLevel)); err != nil {
			return nil, a.preExecutionError(logging.ErrorTypeInvalidArguments, "cli", "Invalid log level", err)
		}
	case settings.LogLevel != nil:
		level = *settings.LogLevel
	}
	if opts.logLevel, err = level.ToSlogLevel(); err != nil {
		return nil, a.preExecutionError(logging.ErrorTypeInvalidArguments, "cli", "Invalid log level", err)
	}

	switch {
	case f.color:
		opts.color = runnertypes.ColorAlways
	case f.noColor:
		opts.color = runnertypes.ColorNever
	case settings.Color != nil:
		opts.color = *settings.Color
	}

	if changed(flagEnvFile) {
		opts.envFile = f.envFile
	}
	if changed(flagLogDir) {
		opts.logDir = f.logDir
	}
	return opts, nil
}

// run loads the suites, runs them and writes the report.
func (a *app) run(ctx context.Context, opts *options, paths []string) error {
	logger, err := logging.Setup(logging.Config{
		Level:   opts.logLevel,
		LogDir:  opts.logDir,
		RunID:   a.runID,
		Console: a.stderr,
		Color:   a.capabilities(opts.color, a.stderr).SupportsColor(),
	})
	if err != nil {
		return a.preExecutionError(logging.ErrorTypeLogFileOpen, "logging", "Failed to setup logger", err)
	}
	a.logger = logger

	base := a.baseEnv()
	if opts.envFile != "" {
		if err := base.LoadEnvFile(a.fs, opts.envFile); err != nil {
			return a.preExecutionError(logging.ErrorTypeEnvFile, "environment", "Failed to load environment file", err)
		}
	}

	suites, loadErrs := config.NewLoaderWithFS(a.fs).LoadSuites(paths)
	for _, le := range loadErrs {
		slog.Error("Suite could not be loaded", "path", le.Path, common.LogFieldError, le.Error())
	}

	if opts.listCases {
		if err := report.ListCases(a.stdout, suites); err != nil {
			return &cmdcommon.ExitCodeError{Code: cmdcommon.ExitFailure, Err: fmt.Errorf("failed to list cases: %w", err)}
		}
		if len(loadErrs) > 0 {
			return a.loadFailure(loadErrs)
		}
		return nil
	}

	if len(suites) == 0 {
		return a.loadFailure(loadErrs)
	}

	runnerOpts := []runner.Option{
		runner.WithRunID(a.runID),
		runner.WithCaseTrace(opts.verbose),
		runner.WithResolver(environment.NewResolver(base,
			environment.WithFileSystem(a.fs),
			environment.WithDefaultTimeout(opts.timeout))),
	}
	if a.executor != nil {
		runnerOpts = append(runnerOpts, runner.WithExecutor(a.executor))
	}
	r, err := runner.NewRunner(runnerOpts...)
	if err != nil {
		return a.preExecutionError(logging.ErrorTypeSystemError, "runner", "Failed to create runner", err)
	}

	result := r.Run(ctx, suites, loadErrs)

	rep, err := report.New(opts.reporter, report.Options{
		Quiet:   opts.quiet,
		Verbose: opts.verbose,
		Palette: color.NewPalette(a.capabilities(opts.color, a.stdout).SupportsColor()),
	})
	if err != nil {
		return a.preExecutionError(logging.ErrorTypeInvalidArguments, "cli", "Invalid reporter", err)
	}

	code := aggregate.ExitCode(result)
	if err := rep.Report(a.stdout, result); err != nil {
		slog.Error("Failed to write report", common.LogFieldError, err)
		return &cmdcommon.ExitCodeError{Code: max(code, cmdcommon.ExitFailure), Err: fmt.Errorf("failed to write report: %w", err)}
	}
	if code != cmdcommon.ExitSuccess {
		return &cmdcommon.ExitCodeError{Code: code}
	}
	return nil
}

// loadFailure reports suites that could not be loaded when nothing was run.
func (a *app) loadFailure(loadErrs []*runnertypes.SuiteLoadError) error {
	errs := make([]error, 0, len(loadErrs))
	for _, le := range loadErrs {
		errs = append(errs, le)
	}
	return a.preExecutionError(logging.ErrorTypeSuiteLoad, "config", "Suite could not be loaded", errors.Join(errs...))
}

func (a *app) capabilities(mode runnertypes.ColorMode, w io.Writer) *terminal.Capabilities {
	return terminal.NewCapabilities(terminal.Options{
		Color:     mode,
		Output:    fdWriter(w),
		LookupEnv: a.lookupEnv,
	})
}

func (a *app) close() {
	if a.logger == nil {
		return
	}
	if err := a.logger.Close(); err != nil {
		fmt.Fprintf(a.stderr, "Warning: failed to close run log: %v\n", err)
	}
	a.logger = nil
}

// detachedOutput stands in for writers without a file descriptor; it is
// never a terminal.
type detachedOutput struct{}

func (detachedOutput) Fd() uintptr {
	return ^uintptr(0)
}

func fdWriter(w io.Writer) terminal.FdWriter {
	if f, ok := w.(terminal.FdWriter); ok {
		return f
	}
	return detachedOutput{}
}

func asPreExecutionError(err error) (*logging.PreExecutionError, bool) {
	var preExecErr *logging.PreExecutionError
	ok := errors.As(err, &preExecErr)
	return preExecErr, ok
}
