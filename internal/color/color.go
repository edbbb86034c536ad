// Package color provides ANSI colour helpers for the spec reporter. A
// Palette is built once per run from the terminal capabilities and maps
// case outcomes onto colours; a disabled palette returns text unchanged.
//
//nolint:revive // package name conflicts with standard library
package color

import "github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"

// ANSI color codes
const (
	resetCode  = "\033[0m"
	boldCode   = "\033[1m"
	grayCode   = "\033[90m" // Bright black/gray
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
	cyanCode   = "\033[36m"
)

// Color represents a color function that wraps text with ANSI escape
// sequences.
type Color func(text string) string

// NewColor creates a color function with the specified ANSI code.
func NewColor(ansiCode string) Color {
	return func(text string) string {
		if text == "" {
			return text
		}
		return ansiCode + text + resetCode
	}
}

// Plain returns text unchanged.
func Plain(text string) string {
	return text
}

// Predefined color functions
var (
	Bold   = NewColor(boldCode)
	Gray   = NewColor(grayCode)
	Green  = NewColor(greenCode)
	Yellow = NewColor(yellowCode)
	Red    = NewColor(redCode)
	Cyan   = NewColor(cyanCode)
)

// Palette assigns colours to the parts of a report.
type Palette struct {
	Pass    Color
	Fail    Color
	Error   Color
	Heading Color
	Dim     Color
	Warn    Color
}

// NewPalette returns the report palette, or an all-plain one when colour is
// disabled.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{Pass: Plain, Fail: Plain, Error: Plain, Heading: Plain, Dim: Plain, Warn: Plain}
	}
	return Palette{
		Pass:    Green,
		Fail:    Red,
		Error:   Yellow,
		Heading: Bold,
		Dim:     Gray,
		Warn:    Cyan,
	}
}

// Outcome returns the colour for a case or suite outcome.
func (p Palette) Outcome(o runnertypes.Outcome) Color {
	switch o {
	case runnertypes.OutcomePass:
		return p.Pass
	case runnertypes.OutcomeFail:
		return p.Fail
	default:
		return p.Error
	}
}
