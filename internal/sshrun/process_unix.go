//go:build unix

package sshrun

import (
	"os/exec"
	"syscall"
)

// setProcessGroup puts the ssh child in its own process group, so a
// signal the terminal sends to ssh-para's foreground group (Ctrl-C)
// does not reach it; the supervisor stops a child by signalling its pid.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
