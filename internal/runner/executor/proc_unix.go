//go:build unix

package executor

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup starts the command as the leader of a new process group so
// that a timeout or interrupt can terminate every descendant at once.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if err := killProcessGroup(cmd); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}

// killProcessGroup sends SIGKILL to every process in the group led by cmd.
// An already empty group is not an error.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return err
}

// lookPath resolves file against the PATH of env instead of the runner's own
// PATH. Names that contain a slash are used unchanged.
func lookPath(file string, env []string) (string, error) {
	if strings.Contains(file, "/") {
		return file, nil
	}

	pathList, ok := envValue(env, "PATH")
	if !ok {
		return exec.LookPath(file)
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", &exec.Error{Name: file, Err: exec.ErrNotFound}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// envValue returns the last value of key in a KEY=VALUE list.
func envValue(env []string, key string) (string, bool) {
	for i := len(env) - 1; i >= 0; i-- {
		k, v, found := strings.Cut(env[i], "=")
		if found && k == key {
			return v, true
		}
	}
	return "", false
}
