package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefaultLogger keeps tests from leaking the logger installed by Setup.
func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	orig := slog.Default()
	t.Cleanup(func() { slog.SetDefault(orig) })
}

func TestGenerateRunID(t *testing.T) {
	first := GenerateRunID()
	second := GenerateRunID()

	assert.NotEqual(t, first, second)
	_, err := ulid.ParseStrict(first)
	assert.NoError(t, err)
	assert.Len(t, first, ulid.EncodedSize)
}

func TestNewConsoleHandler(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewConsoleHandler(&buf, ConsoleOptions{Level: slog.LevelInfo}))

		logger.Debug("hidden")
		logger.Info("Executing suite", "suite", "pong")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "Executing suite")
		assert.Contains(t, out, "suite=pong")
		assert.NotContains(t, out, "\x1b[")
	})

	t.Run("level filter", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(NewConsoleHandler(&buf, ConsoleOptions{Level: slog.LevelWarn}))

		logger.Info("suppressed")
		logger.Warn("Case timed out")

		assert.NotContains(t, buf.String(), "suppressed")
		assert.Contains(t, buf.String(), "Case timed out")
	})
}

func TestRunLogName(t *testing.T) {
	started := time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("JST", 9*60*60))
	assert.Equal(t, "host_20260303T200607Z_01RUN.json", RunLogName("host", started, "01RUN"))
}

func TestOpenRunLog(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "logs", "nested")
		started := time.Now()

		f, err := OpenRunLog(dir, "host", started, "01RUN")
		require.NoError(t, err)
		defer f.Close()

		assert.Equal(t, filepath.Join(dir, RunLogName("host", started, "01RUN")), f.Name())
		info, err := os.Stat(f.Name())
		require.NoError(t, err)
		assert.Equal(t, logFilePerm, info.Mode().Perm())
	})

	t.Run("never reuses an existing file", func(t *testing.T) {
		dir := t.TempDir()
		started := time.Now()
		path := filepath.Join(dir, RunLogName("host", started, "01RUN"))
		require.NoError(t, os.WriteFile(path, []byte("previous"), 0o600))

		_, err := OpenRunLog(dir, "host", started, "01RUN")
		assert.ErrorIs(t, err, os.ErrExist)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := OpenRunLog("", "host", time.Now(), "01RUN")
		assert.ErrorIs(t, err, ErrEmptyLogDirectory)
	})
}

func TestSetup_ConsoleOnly(t *testing.T) {
	restoreDefaultLogger(t)
	var console bytes.Buffer

	logger, err := Setup(Config{Level: slog.LevelInfo, RunID: "01RUN", Console: &console})
	require.NoError(t, err)
	defer logger.Close()

	assert.Empty(t, logger.RunLogPath)
	slog.Info("Suite finished", "outcome", "pass")
	assert.Contains(t, console.String(), "Suite finished")
}

func TestSetup_WithRunLog(t *testing.T) {
	restoreDefaultLogger(t)
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := Setup(Config{Level: slog.LevelWarn, LogDir: dir, RunID: "01RUN", Console: &console})
	require.NoError(t, err)

	require.NotEmpty(t, logger.RunLogPath)
	assert.True(t, strings.HasSuffix(logger.RunLogPath, "_01RUN.json"))

	slog.Info("Executing suite", "suite", "pong")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close(), "Close must be idempotent")

	assert.NotContains(t, console.String(), "Executing suite", "console stays at warn")

	content, err := os.ReadFile(logger.RunLogPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "Executing suite", record["msg"])
	assert.Equal(t, "pong", record["suite"])
	assert.Equal(t, "01RUN", record["run_id"])
	assert.EqualValues(t, 1, record["schema_version"])
}

func TestSetup_UnwritableLogDir(t *testing.T) {
	restoreDefaultLogger(t)
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := Setup(Config{Level: slog.LevelInfo, LogDir: file, RunID: "01RUN", Console: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestHandlePreExecutionError(t *testing.T) {
	var buf bytes.Buffer
	HandlePreExecutionError(&buf, &PreExecutionError{
		Type:      ErrorTypeSuiteLoad,
		Message:   "suite \"bad.xml\": 2 problems\n  - first\n  - second",
		Component: "config",
		RunID:     "01RUN",
	}, 2)

	out := buf.String()
	assert.Contains(t, out, "Error: suite_load_failed\n")
	assert.Contains(t, out, "  Component: config\n")
	assert.Contains(t, out, "  Details: suite \"bad.xml\": 2 problems\n")
	assert.Contains(t, out, "    - second\n")
	assert.Contains(t, out, "  Run ID: 01RUN\n")
	assert.True(t, strings.HasSuffix(out, "RUN_SUMMARY run_id=01RUN exit_code=2 status=pre_execution_error\n"))
}

func TestPreExecutionError(t *testing.T) {
	cause := errors.New("permission denied")
	err := &PreExecutionError{
		Type:      ErrorTypeLogFileOpen,
		Message:   "Failed to setup logger",
		Component: "logging",
		RunID:     "01RUN",
		Err:       cause,
	}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "log_file_open_failed: Failed to setup logger: permission denied (component: logging, run_id: 01RUN)", err.Error())

	var target *PreExecutionError
	require.ErrorAs(t, error(err), &target)
	assert.Same(t, err, target)
}
