package executor

import shellquote "github.com/kballard/go-shellquote"

// FormatCommandForLog formats a command with arguments for logging.
// The result can be copy-pasted into a POSIX shell to reproduce the invocation.
func FormatCommandForLog(path string, args []string) string {
	return shellquote.Join(append([]string{path}, args...)...)
}
