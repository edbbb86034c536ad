// Package report renders a run result for people and for tools. Every
// reporter reads the result tree only; none of them decides the exit code.
package report

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/isseis/go-safe-cmd-tester/internal/color"
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Reporter names accepted by New
const (
	NameTAP   = "tap"
	NameJUnit = "junit"
	NameSpec  = "spec"
)

// ErrUnknownReporter is returned by New for an unsupported reporter name
var ErrUnknownReporter = errors.New("unknown reporter")

// Names lists the supported reporters in help order.
func Names() []string {
	return []string{NameTAP, NameJUnit, NameSpec}
}

// Reporter writes one complete report of a run.
type Reporter interface {
	Report(w io.Writer, run *runnertypes.RunResult) error
}

// Options tune the amount of detail in a report.
type Options struct {
	// Quiet drops failure diagnostics
	Quiet bool

	// Verbose adds captured output of failing cases
	Verbose bool

	// Palette colours the spec reporter (the zero value disables colour)
	Palette color.Palette
}

// New returns the reporter called name.
func New(name string, opts Options) (Reporter, error) {
	if opts.Palette.Pass == nil {
		opts.Palette = color.NewPalette(false)
	}
	switch name {
	case NameTAP:
		return &TAPReporter{opts: opts}, nil
	case NameJUnit:
		return &JUnitReporter{opts: opts}, nil
	case NameSpec:
		return &SpecReporter{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q (must be one of: %s)", ErrUnknownReporter, name, strings.Join(Names(), ", "))
	}
}

// IsValidName reports whether name is a supported reporter.
func IsValidName(name string) bool {
	return slices.Contains(Names(), name)
}

// errWriter remembers the first write error so report bodies can be
// written without checking every call.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) write(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

// indent prefixes every non-empty line of text.
func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
