package color

import (
	"testing"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

func TestNewColor(t *testing.T) {
	red := NewColor(redCode)
	if got, want := red("FAIL"), "\033[31mFAIL\033[0m"; got != want {
		t.Errorf("red(FAIL) = %q, want %q", got, want)
	}
	if got := red(""); got != "" {
		t.Errorf("red(\"\") = %q, want empty", got)
	}
}

func TestNewPalette_Disabled(t *testing.T) {
	p := NewPalette(false)
	for _, c := range []Color{p.Pass, p.Fail, p.Error, p.Heading, p.Dim, p.Warn} {
		if got := c("text"); got != "text" {
			t.Errorf("disabled palette produced %q", got)
		}
	}
}

func TestPalette_Outcome(t *testing.T) {
	p := NewPalette(true)
	tests := []struct {
		outcome runnertypes.Outcome
		want    string
	}{
		{runnertypes.OutcomePass, greenCode + "x" + resetCode},
		{runnertypes.OutcomeFail, redCode + "x" + resetCode},
		{runnertypes.OutcomeError, yellowCode + "x" + resetCode},
	}
	for _, tt := range tests {
		t.Run(string(tt.outcome), func(t *testing.T) {
			if got := p.Outcome(tt.outcome)("x"); got != tt.want {
				t.Errorf("Outcome(%s) = %q, want %q", tt.outcome, got, tt.want)
			}
		})
	}
}
