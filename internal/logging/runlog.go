package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/isseis/go-safe-cmd-tester/internal/common"
)

// ErrEmptyLogDirectory is returned when a run log is requested without a directory.
var ErrEmptyLogDirectory = errors.New("log directory cannot be empty")

const (
	logDirPerm  os.FileMode = 0o750
	logFilePerm os.FileMode = 0o600

	// runLogTimeFormat is used in run log file names
	runLogTimeFormat = "20060102T150405Z"
)

// RunLogName returns the file name of the JSON log of one run:
// <hostname>_<timestamp>_<runID>.json, with the timestamp in UTC.
func RunLogName(hostname string, started time.Time, runID string) string {
	return fmt.Sprintf("%s_%s_%s.json", hostname, started.UTC().Format(runLogTimeFormat), runID)
}

// OpenRunLog creates dir if needed and creates a new run log file in it.
// An existing file is never truncated or followed through a symlink.
func OpenRunLog(dir, hostname string, started time.Time, runID string) (*os.File, error) {
	if dir == "" {
		return nil, ErrEmptyLogDirectory
	}
	if err := os.MkdirAll(dir, logDirPerm); err != nil {
		return nil, fmt.Errorf("cannot create log directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, RunLogName(hostname, started, runID))
	// #nosec G304 - path is built from the configured log directory and a generated name
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, logFilePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return f, nil
}

// NewRunLogHandler returns a JSON handler that tags every record with the
// run identity.
func NewRunLogHandler(f *os.File, level slog.Level, hostname, runID string) slog.Handler {
	return slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}).WithAttrs([]slog.Attr{
		slog.String("hostname", hostname),
		slog.Int("pid", os.Getpid()),
		slog.Int("schema_version", common.LogSchemaVersion),
		slog.String(common.LogFieldRunID, runID),
	})
}
