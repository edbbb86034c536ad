package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isseis/go-safe-cmd-tester/internal/runner/runnertypes"
)

func TestListCases(t *testing.T) {
	suites := []*runnertypes.Suite{
		{
			Description: "ping",
			Cases: []*runnertypes.Case{
				{Description: "says pong"},
				{Description: "Unnamed Test Case"},
			},
		},
		{Description: "empty"},
	}

	var buf bytes.Buffer
	require.NoError(t, ListCases(&buf, suites))
	assert.Equal(t, "The following tests would be run:\n"+
		"\nSuite: ping\n"+
		"  - says pong\n"+
		"  - Unnamed Test Case\n"+
		"\nSuite: empty\n"+
		"  (No test cases found)\n", buf.String())
}

func TestListCases_WriteError(t *testing.T) {
	assert.Error(t, ListCases(failingWriter{}, nil))
}
