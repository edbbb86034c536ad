package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKeyValue(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		expectedKey string
		expectedVal string
		expectedOk  bool
	}{
		{name: "valid environment variable", env: "PATH=/usr/bin:/bin", expectedKey: "PATH", expectedVal: "/usr/bin:/bin", expectedOk: true},
		{name: "variable with empty value", env: "EMPTY=", expectedKey: "EMPTY", expectedVal: "", expectedOk: true},
		{name: "variable with equals in value", env: "CONFIG=key=value", expectedKey: "CONFIG", expectedVal: "key=value", expectedOk: true},
		{name: "missing equals sign", env: "INVALID"},
		{name: "empty key", env: "=value"},
		{name: "empty string", env: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, val, ok := ParseKeyValue(tt.env)
			assert.Equal(t, tt.expectedKey, key)
			assert.Equal(t, tt.expectedVal, val)
			assert.Equal(t, tt.expectedOk, ok)
		})
	}
}

func TestEscapeControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text", input: "hello world", expected: "hello world"},
		{name: "newline and tab", input: "a\nb\tc", expected: "a\\nb\\tc"},
		{name: "escape byte", input: "\x1b[31m", expected: "\\x1b[31m"},
		{name: "carriage return", input: "line\r", expected: "line\\r"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeControlChars(tt.input))
		})
	}
}
