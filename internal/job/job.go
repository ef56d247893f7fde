// Package job defines the data model shared by the pending queue, the
// worker pool, and the supervisor: a spec (what to run, on which host)
// and a status snapshot (where that run currently stands).
package job

import "time"

// State is a job's position in its lifecycle. The zero value is IDLE.
type State string

const (
	IDLE    State = "IDLE"
	RUNNING State = "RUNNING"
	SUCCESS State = "SUCCESS"
	FAILED  State = "FAILED"
	TIMEOUT State = "TIMEOUT"
	KILLED  State = "KILLED"
	ABORTED State = "ABORTED"
)

// Terminal reports whether s is one a job cannot leave once reached.
func (s State) Terminal() bool {
	switch s {
	case SUCCESS, FAILED, TIMEOUT, KILLED, ABORTED:
		return true
	default:
		return false
	}
}

// Spec is one unit of work: a host to run the configured command or
// script against. Specs are immutable once enqueued.
type Spec struct {
	Host      string
	ShortHost string
}

// Status is a point-in-time snapshot of a job's execution. Every
// producer of a Status MUST publish a copy, never a shared pointer that
// another goroutine may mutate after publication — sshrun.Worker does
// this on every state transition.
type Status struct {
	Spec Spec

	State State
	Slot  int // worker slot that ran this job (kept on its terminal snapshot); -1 for ABORTED
	Start time.Time

	PID      int  // child pid, kept on the terminal snapshot; 0 if never spawned
	ExitCode *int // nil until the process has exited; 256 for ABORTED

	Duration time.Duration

	LogFile string // path to <host>.out
	LogTail string // last non-empty, ANSI-stripped line of LogFile
}

// Clone returns a value copy of s. Status itself is passed by value in
// this package, so Clone only matters when a caller holds a *Status and
// wants to publish a snapshot of it without aliasing.
func (s *Status) Clone() Status {
	cp := *s
	if s.ExitCode != nil {
		v := *s.ExitCode
		cp.ExitCode = &v
	}
	return cp
}
