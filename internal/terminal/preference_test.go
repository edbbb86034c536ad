package terminal

import (
	"testing"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

func TestUserPreference(t *testing.T) {
	tests := []struct {
		name         string
		mode         runnertypes.ColorMode
		env          map[string]string
		wantExplicit bool
		wantColor    bool
	}{
		{name: "auto without variables", mode: runnertypes.ColorAuto, env: map[string]string{}},
		{name: "empty mode behaves as auto", env: map[string]string{}},
		{name: "always", mode: runnertypes.ColorAlways, env: map[string]string{"NO_COLOR": "1"}, wantExplicit: true, wantColor: true},
		{name: "never", mode: runnertypes.ColorNever, env: map[string]string{"CLICOLOR_FORCE": "1"}, wantExplicit: true},
		{name: "CLICOLOR_FORCE=1", mode: runnertypes.ColorAuto, env: map[string]string{"CLICOLOR_FORCE": "1"}, wantExplicit: true, wantColor: true},
		{name: "CLICOLOR_FORCE=0 is not a preference", mode: runnertypes.ColorAuto, env: map[string]string{"CLICOLOR_FORCE": "0"}},
		{name: "CLICOLOR_FORCE beats NO_COLOR", env: map[string]string{"CLICOLOR_FORCE": "yes", "NO_COLOR": "1"}, wantExplicit: true, wantColor: true},
		{name: "NO_COLOR set", env: map[string]string{"NO_COLOR": "1"}, wantExplicit: true},
		{name: "NO_COLOR empty still counts", env: map[string]string{"NO_COLOR": ""}, wantExplicit: true},
		{name: "CLICOLOR is not explicit", env: map[string]string{"CLICOLOR": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewUserPreference(tt.mode, fakeEnv(tt.env))
			if got := p.HasExplicitPreference(); got != tt.wantExplicit {
				t.Errorf("HasExplicitPreference() = %v, want %v", got, tt.wantExplicit)
			}
			if got := p.SupportsColor(); got != tt.wantColor {
				t.Errorf("SupportsColor() = %v, want %v", got, tt.wantColor)
			}
		})
	}
}
