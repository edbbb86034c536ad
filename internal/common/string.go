//nolint:revive // common is an appropriate name for shared utilities package
package common

import (
	"fmt"
	"strings"
	"unicode"
)

// EscapeControlChars escapes control characters in a string for single-line display.
// Common control characters use their standard escape sequences (\n, \t, ...);
// any other control character is rendered as \xNN. Spaces are kept as-is.
func EscapeControlChars(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsControl(r) {
			result.WriteRune(r)
			continue
		}

		switch r {
		case '\n':
			result.WriteString("\\n")
		case '\r':
			result.WriteString("\\r")
		case '\t':
			result.WriteString("\\t")
		case '\b':
			result.WriteString("\\b")
		case '\f':
			result.WriteString("\\f")
		case '\v':
			result.WriteString("\\v")
		case '\a':
			result.WriteString("\\a")
		default:
			fmt.Fprintf(&result, "\\x%02x", r)
		}
	}
	return result.String()
}

// ParseKeyValue parses a string in "KEY=VALUE" format like environment variables.
// Returns the key, value, and a boolean indicating successful parsing.
//
// Edge cases:
//   - "=VALUE" (empty key): returns key="", value="", ok=false (invalid)
//   - "KEY=" (empty value): returns key="KEY", value="", ok=true (valid)
//   - "KEY" (no equals): returns key="", value="", ok=false (invalid)
func ParseKeyValue(env string) (key, value string, ok bool) {
	key, value, found := strings.Cut(env, "=")
	if !found || key == "" {
		return "", "", false
	}
	return key, value, true
}
