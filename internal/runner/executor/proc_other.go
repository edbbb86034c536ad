//go:build !unix

package executor

import (
	"errors"
	"os"
	"os/exec"
)

// setProcessGroup falls back to killing the direct child only.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return killProcessGroup(cmd)
	}
}

func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func lookPath(file string, _ []string) (string, error) {
	return exec.LookPath(file)
}
