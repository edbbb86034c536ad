package common

import (
	"errors"
	"fmt"

	shellquote "github.com/kballard/go-shellquote"
)

// ErrEmptyCommandLine is returned when a command line has no words.
var ErrEmptyCommandLine = errors.New("command line is empty")

// SplitCommandLine splits a setup or teardown command line into an argument
// vector using POSIX quoting rules. No shell is involved: variables, globs and
// operators such as && or | are passed through as literal words.
func SplitCommandLine(line string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("failed to split command line %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyCommandLine
	}
	return words, nil
}
