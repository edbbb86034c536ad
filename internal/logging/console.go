package logging

import (
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// ConsoleOptions configures the human readable console handler.
type ConsoleOptions struct {
	Level slog.Level

	// Color enables ANSI styling of levels and keys
	Color bool

	// Timestamps prefixes every line with the wall-clock time
	Timestamps bool
}

// NewConsoleHandler returns a slog.Handler that renders records as short
// styled lines, the way an operator reads them in a terminal.
func NewConsoleHandler(w io.Writer, opts ConsoleOptions) slog.Handler {
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(opts.Level),
		ReportTimestamp: opts.Timestamps,
		TimeFormat:      time.TimeOnly,
		Prefix:          "clitest",
	})
	if opts.Color {
		logger.SetColorProfile(termenv.ANSI)
	} else {
		logger.SetColorProfile(termenv.Ascii)
	}
	return logger
}
