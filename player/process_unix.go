//go:build !windows

package player

import (
	"os/exec"
	"syscall"
)

// detachedAttr puts mpv into its own process group so terminal signals aimed at us do not reach it.
func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		Setpgid: true,
	}
}

// killTree kills mpv together with anything it spawned.
func killTree(cmd *exec.Cmd) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	return cmd.Process.Kill()
}
