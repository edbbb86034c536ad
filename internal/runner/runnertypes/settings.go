package runnertypes

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// LogLevel represents the logging level for the application.
// Valid values: debug, info, warn, error
type LogLevel string

const (
	// LogLevelDebug enables debug-level logging
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo enables info-level logging
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn enables warning-level logging (default)
	LogLevelWarn LogLevel = "warn"

	// LogLevelError enables error-level logging only
	LogLevelError LogLevel = "error"
)

// DefaultLogLevel keeps the console quiet unless something goes wrong.
const DefaultLogLevel = LogLevelWarn

// ErrInvalidLogLevel is returned when an invalid log level is provided
var ErrInvalidLogLevel = errors.New("invalid log level")

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// This enables validation during TOML parsing.
func (l *LogLevel) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch LogLevel(s) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		*l = LogLevel(s)
		return nil
	case "":
		*l = DefaultLogLevel
		return nil
	default:
		return fmt.Errorf("%w: %q (must be one of: debug, info, warn, error)", ErrInvalidLogLevel, string(text))
	}
}

// ToSlogLevel converts LogLevel to slog.Level for use with the slog package.
func (l LogLevel) ToSlogLevel() (slog.Level, error) {
	switch LogLevel(strings.ToLower(string(l))) {
	case LogLevelDebug:
		return slog.LevelDebug, nil
	case LogLevelInfo:
		return slog.LevelInfo, nil
	case LogLevelWarn, "":
		return slog.LevelWarn, nil
	case LogLevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, string(l))
	}
}

// String returns the string representation of LogLevel.
func (l LogLevel) String() string {
	return string(l)
}

// ColorMode controls coloured console output.
type ColorMode string

const (
	// ColorAuto colours output only when writing to a capable terminal
	ColorAuto ColorMode = "auto"
	// ColorAlways forces colour codes
	ColorAlways ColorMode = "always"
	// ColorNever disables colour codes
	ColorNever ColorMode = "never"
)

// ErrInvalidColorMode is returned when an invalid colour mode is provided
var ErrInvalidColorMode = errors.New("invalid color mode")

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (c *ColorMode) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	switch ColorMode(s) {
	case ColorAuto, ColorAlways, ColorNever:
		*c = ColorMode(s)
		return nil
	case "":
		*c = ColorAuto
		return nil
	default:
		return fmt.Errorf("%w: %q (must be one of: auto, always, never)", ErrInvalidColorMode, string(text))
	}
}

// Duration is a time.Duration written as a Go duration string ("30s", "1m30s")
// in settings files.
type Duration time.Duration

// ErrInvalidDuration is returned when a duration setting cannot be parsed
var ErrInvalidDuration = errors.New("invalid duration")

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidDuration, string(text))
	}
	if parsed < 0 {
		return fmt.Errorf("%w: %q must not be negative", ErrInvalidDuration, string(text))
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
