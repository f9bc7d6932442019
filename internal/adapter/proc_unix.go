//go:build unix

package adapter

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// configureProcessGroup starts the CLI in its own process group so that
// cancellation also reaches the helpers it spawns.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGTERM); err != nil {
			return cmd.Process.Signal(unix.SIGTERM)
		}
		return nil
	}
}

// killProcessGroup SIGKILLs whatever is left of the CLI's process group.
// exec's WaitDelay kill only reaches the leader, so members that ignored
// SIGTERM would otherwise outlive the request.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
}
