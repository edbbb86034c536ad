package cmdcommon

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("cases failed")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil is success", err: nil, want: ExitSuccess},
		{name: "explicit code", err: &ExitCodeError{Code: ExitFailure, Err: cause}, want: ExitFailure},
		{name: "wrapped explicit code", err: fmt.Errorf("run: %w", &ExitCodeError{Code: ExitFailure}), want: ExitFailure},
		{name: "plain error is usage", err: cause, want: ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitCodeError(t *testing.T) {
	cause := errors.New("cases failed")
	err := &ExitCodeError{Code: ExitFailure, Err: cause}
	assert.Equal(t, "cases failed", err.Error())
	assert.ErrorIs(t, err, cause)

	assert.Equal(t, "exit code 2", (&ExitCodeError{Code: ExitUsage}).Error())
}
