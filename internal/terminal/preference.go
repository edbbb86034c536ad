package terminal

import (
	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

// UserPreference resolves the colour choice made on the command line, in the
// settings file, or through NO_COLOR and CLICOLOR_FORCE.
type UserPreference struct {
	mode      runnertypes.ColorMode
	lookupEnv LookupEnvFunc
}

// NewUserPreference creates a new UserPreference instance
func NewUserPreference(mode runnertypes.ColorMode, lookupEnv LookupEnvFunc) *UserPreference {
	return &UserPreference{mode: mode, lookupEnv: lookupEnv}
}

// SupportsColor returns the explicit preference. It is only meaningful when
// HasExplicitPreference is true.
func (p *UserPreference) SupportsColor() bool {
	// Priority 1: --color / --no-color or the color setting
	switch p.mode {
	case runnertypes.ColorAlways:
		return true
	case runnertypes.ColorNever:
		return false
	}

	// Priority 2: CLICOLOR_FORCE=1 overrides NO_COLOR
	if value, ok := p.lookupEnv("CLICOLOR_FORCE"); ok && isTruthy(value) {
		return true
	}

	// Priority 3: NO_COLOR, any value
	return false
}

// HasExplicitPreference returns true if user has explicitly set a color preference
func (p *UserPreference) HasExplicitPreference() bool {
	if p.mode == runnertypes.ColorAlways || p.mode == runnertypes.ColorNever {
		return true
	}
	if value, ok := p.lookupEnv("CLICOLOR_FORCE"); ok && isTruthy(value) {
		return true
	}
	// NO_COLOR counts even when empty
	_, exists := p.lookupEnv("NO_COLOR")
	return exists
}
