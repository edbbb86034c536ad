package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
)

// Config holds all configuration for logger setup
type Config struct {
	Level slog.Level

	// LogDir enables the JSON run log when non-empty
	LogDir string

	RunID string

	// Console receives human readable records (default os.Stderr)
	Console io.Writer

	// Color enables styling of console records
	Color bool
}

// Logger is the configured process logger. Close flushes and closes the run
// log, if one was opened.
type Logger struct {
	*slog.Logger

	// RunLogPath is the path of the JSON run log, or empty
	RunLogPath string

	runLog *os.File
}

// Close closes the run log file.
func (l *Logger) Close() error {
	if l.runLog == nil {
		return nil
	}
	err := l.runLog.Close()
	l.runLog = nil
	return err
}

// Setup builds the process logger from cfg and installs it with
// slog.SetDefault. It must be called once, before the run starts.
func Setup(cfg Config) (*Logger, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{
		NewConsoleHandler(console, ConsoleOptions{
			Level: cfg.Level,
			Color: cfg.Color,
			// Timestamps only help when tracing slow cases
			Timestamps: cfg.Level <= slog.LevelDebug,
		}),
	}

	logger := &Logger{}
	if cfg.LogDir != "" {
		hostname := common.GetHostname()
		f, err := OpenRunLog(cfg.LogDir, hostname, time.Now(), cfg.RunID)
		if err != nil {
			return nil, err
		}
		logger.runLog = f
		logger.RunLogPath = f.Name()
		// The run log always records info and above, whatever the console shows
		handlers = append(handlers, NewRunLogHandler(f, min(cfg.Level, slog.LevelInfo), hostname, cfg.RunID))
	}

	multi, err := NewMultiHandler(handlers...)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to create multi handler: %w", err), logger.Close())
	}
	logger.Logger = slog.New(multi)
	slog.SetDefault(logger.Logger)

	slog.Debug("Logger initialized",
		"log-level", cfg.Level,
		"log-dir", cfg.LogDir,
		"run-log", logger.RunLogPath,
		common.LogFieldRunID, cfg.RunID,
		"color", cfg.Color)
	return logger, nil
}
