package terminal

import (
	"strings"
)

// colorTerminals lists TERM values (or prefixes) that are known to support
// basic terminal colors.
var colorTerminals = []string{
	"xterm",
	"screen",
	"tmux",
	"rxvt",
	"vt100",
	"vt220",
	"ansi",
	"linux",
	"cygwin",
	"putty",
	"alacritty",
	"kitty",
	"wezterm",
	"foot",
}

// ColorDetector inspects TERM and COLORTERM for colour support
type ColorDetector struct {
	lookupEnv LookupEnvFunc
}

// NewColorDetector creates a new color detector
func NewColorDetector(lookupEnv LookupEnvFunc) *ColorDetector {
	return &ColorDetector{lookupEnv: lookupEnv}
}

func (d *ColorDetector) getenv(key string) string {
	value, _ := d.lookupEnv(key)
	return strings.ToLower(strings.TrimSpace(value))
}

// SupportsColor returns true if the terminal supports basic color output
func (d *ColorDetector) SupportsColor() bool {
	termName := d.getenv("TERM")
	if termName == "dumb" {
		return false
	}
	// COLORTERM is only set by emulators that render colour
	if d.getenv("COLORTERM") != "" {
		return true
	}
	if termName == "" {
		return false
	}
	if strings.HasSuffix(termName, "-color") || strings.HasSuffix(termName, "-256color") {
		return true
	}
	for _, colorTerm := range colorTerminals {
		if termName == colorTerm || strings.HasPrefix(termName, colorTerm+"-") {
			return true
		}
	}
	return false
}
