package terminal

import (
	"testing"
)

func TestInteractiveDetector_IsCIEnvironment(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want bool
	}{
		{name: "no variables", env: map[string]string{}, want: false},
		{name: "CI=true", env: map[string]string{"CI": "true"}, want: true},
		{name: "CI=1", env: map[string]string{"CI": "1"}, want: true},
		{name: "CI=false", env: map[string]string{"CI": "false"}, want: false},
		{name: "CI=0", env: map[string]string{"CI": "0"}, want: false},
		{name: "empty CI ignored", env: map[string]string{"CI": ""}, want: false},
		{name: "GitHub Actions", env: map[string]string{"GITHUB_ACTIONS": "true"}, want: true},
		{name: "Jenkins", env: map[string]string{"JENKINS_URL": "http://ci"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewInteractiveDetector(DetectorOptions{LookupEnv: fakeEnv(tt.env)})
			if got := d.IsCIEnvironment(); got != tt.want {
				t.Errorf("IsCIEnvironment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInteractiveDetector_RedirectedOutput(t *testing.T) {
	d := NewInteractiveDetector(DetectorOptions{
		Output:    nonTerminal(t),
		LookupEnv: fakeEnv(map[string]string{}),
	})
	if d.IsTerminal() {
		t.Error("regular file reported as terminal")
	}
	if d.IsInteractive() {
		t.Error("regular file reported as interactive")
	}
}

func TestInteractiveDetector_InvalidDescriptor(t *testing.T) {
	d := NewInteractiveDetector(DetectorOptions{
		Output:    fakeTerminal{},
		LookupEnv: fakeEnv(map[string]string{}),
	})
	if d.IsTerminal() {
		t.Error("invalid descriptor reported as terminal")
	}
}
