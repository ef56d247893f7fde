package sshrun

import "golang.org/x/sys/unix"

// SignalInterrupt sends SIGINT to pid, the same signal the original
// sends to ask a running ssh child to stop. A missing process is not an
// error: the supervisor's kill table entry still takes effect on
// whatever terminal snapshot the worker eventually publishes.
func SignalInterrupt(pid int) error {
	if pid <= 0 {
		return nil
	}
	err := unix.Kill(pid, unix.SIGINT)
	if err == unix.ESRCH {
		return nil
	}
	return err
}
