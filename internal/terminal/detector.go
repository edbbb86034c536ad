// Package terminal decides how reports and console logs are rendered: whether
// the output stream is an interactive terminal and whether colour escape
// sequences may be written to it.
package terminal

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ciEnvVars contains common CI environment variables
var ciEnvVars = []string{
	"CI",                     // Generic CI indicator
	"CONTINUOUS_INTEGRATION", // Generic CI indicator
	"GITHUB_ACTIONS",         // GitHub Actions
	"TRAVIS",                 // Travis CI
	"CIRCLECI",               // Circle CI
	"JENKINS_URL",            // Jenkins
	"BUILD_NUMBER",           // Jenkins/TeamCity/etc
	"GITLAB_CI",              // GitLab CI
	"BUILDKITE",              // Buildkite
	"TF_BUILD",               // Azure DevOps
}

// LookupEnvFunc reads one environment variable. It has the signature of os.LookupEnv.
type LookupEnvFunc func(key string) (string, bool)

// FdWriter is an output stream backed by a file descriptor, such as *os.File.
type FdWriter interface {
	Fd() uintptr
}

// DetectorOptions contains options for controlling interactive detection
type DetectorOptions struct {
	// Output is the stream reports are written to (default os.Stdout)
	Output FdWriter

	// LookupEnv reads the environment (default os.LookupEnv)
	LookupEnv LookupEnvFunc
}

// InteractiveDetector reports whether output goes to a person at a terminal
type InteractiveDetector struct {
	output    FdWriter
	lookupEnv LookupEnvFunc
}

// NewInteractiveDetector creates a new interactive detector with the given options
func NewInteractiveDetector(options DetectorOptions) *InteractiveDetector {
	d := &InteractiveDetector{
		output:    options.Output,
		lookupEnv: options.LookupEnv,
	}
	if d.output == nil {
		d.output = os.Stdout
	}
	if d.lookupEnv == nil {
		d.lookupEnv = os.LookupEnv
	}
	return d
}

// IsInteractive returns true if the output is a terminal outside of CI
func (d *InteractiveDetector) IsInteractive() bool {
	if d.IsCIEnvironment() {
		return false
	}
	return d.IsTerminal()
}

// IsTerminal checks if the output stream is connected to a terminal
func (d *InteractiveDetector) IsTerminal() bool {
	return term.IsTerminal(int(d.output.Fd()))
}

// IsCIEnvironment checks if the current environment is a CI/CD system
func (d *InteractiveDetector) IsCIEnvironment() bool {
	for _, envVar := range ciEnvVars {
		value, ok := d.lookupEnv(envVar)
		if !ok || value == "" {
			continue
		}
		// CI=false is set by some developers to opt out
		if envVar == "CI" {
			return !isFalsy(value)
		}
		return true
	}
	return false
}

// isTruthy checks if a string value should be considered "true"
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func isFalsy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "0", "false", "no", "off":
		return true
	default:
		return false
	}
}
