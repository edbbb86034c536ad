package terminal

import (
	"os"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// Options contains all terminal-related configuration options
type Options struct {
	// Color is the requested colour mode (empty means auto)
	Color runnertypes.ColorMode

	// Output is the stream colour decisions apply to (default os.Stdout)
	Output FdWriter

	// LookupEnv reads the environment (default os.LookupEnv)
	LookupEnv LookupEnvFunc
}

// Capabilities combines interactive detection, TERM inspection and the
// user's colour preference.
type Capabilities struct {
	interactiveDetector *InteractiveDetector
	colorDetector       *ColorDetector
	userPreference      *UserPreference
	lookupEnv           LookupEnvFunc
}

// NewCapabilities creates a new Capabilities instance with the given options
func NewCapabilities(options Options) *Capabilities {
	lookupEnv := options.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	return &Capabilities{
		interactiveDetector: NewInteractiveDetector(DetectorOptions{Output: options.Output, LookupEnv: lookupEnv}),
		colorDetector:       NewColorDetector(lookupEnv),
		userPreference:      NewUserPreference(options.Color, lookupEnv),
		lookupEnv:           lookupEnv,
	}
}

// IsInteractive returns true if the output should be treated as interactive
func (c *Capabilities) IsInteractive() bool {
	return c.interactiveDetector.IsInteractive()
}

// SupportsColor returns true if color output should be enabled.
// Priority, highest first:
//  1. --color / --no-color (or the color setting)
//  2. CLICOLOR_FORCE=1
//  3. NO_COLOR
//  4. CLICOLOR, only when interactive
//  5. terminal auto-detection
func (c *Capabilities) SupportsColor() bool {
	if c.userPreference.HasExplicitPreference() {
		return c.userPreference.SupportsColor()
	}

	if !c.IsInteractive() || !c.colorDetector.SupportsColor() {
		return false
	}

	if cliColor, ok := c.lookupEnv("CLICOLOR"); ok && cliColor != "" {
		return isTruthy(cliColor)
	}
	return true
}

// HasExplicitUserPreference returns true if the user has explicitly set
// a color preference through command line options or environment variables
func (c *Capabilities) HasExplicitUserPreference() bool {
	return c.userPreference.HasExplicitPreference()
}
