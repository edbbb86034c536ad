//nolint:revive // common is an appropriate name for shared utilities package
package common

import (
	"os"
	"strings"
)

const (
	// UnknownHostFallback is the fallback value returned when hostname cannot be determined
	UnknownHostFallback = "unknown-host"
)

// osHostname is a package-level variable that points to os.Hostname.
// This allows tests to mock the hostname function for testing error paths.
var osHostname = os.Hostname

// GetHostname returns the short hostname of the current machine, safe for use
// as a file name component. It returns UnknownHostFallback when the hostname
// cannot be determined.
func GetHostname() string {
	hostname, err := osHostname()
	if err != nil {
		return UnknownHostFallback
	}
	return sanitizeHostname(hostname)
}

func sanitizeHostname(hostname string) string {
	if short, _, found := strings.Cut(hostname, "."); found {
		hostname = short
	}
	hostname = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, hostname)
	if hostname == "" {
		return UnknownHostFallback
	}
	return hostname
}
