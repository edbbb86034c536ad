package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHostname(t *testing.T) {
	tests := []struct {
		name     string
		hostname string
		err      error
		want     string
	}{
		{name: "plain", hostname: "build-01", want: "build-01"},
		{name: "domain stripped", hostname: "ci.example.com", want: "ci"},
		{name: "unsafe characters replaced", hostname: "my host/1", want: "my_host_1"},
		{name: "empty", hostname: "", want: UnknownHostFallback},
		{name: "lookup failure", err: errors.New("no hostname"), want: UnknownHostFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := osHostname
			t.Cleanup(func() { osHostname = orig })
			osHostname = func() (string, error) { return tt.hostname, tt.err }

			assert.Equal(t, tt.want, GetHostname())
		})
	}
}
