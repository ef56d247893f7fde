// Package sshrun is the generalized form of the teacher's worker
// package: a pool of goroutines, each running the same dequeue/execute
// loop, except here "execute" spawns a real ssh child instead of
// simulating work, and dequeuing pulls straight from the shared pending
// queue rather than waiting on a pushed task channel.
package sshrun

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/ChuLiYu/ssh-para/internal/queue"
	"github.com/ChuLiYu/ssh-para/internal/resolve"
)

// Worker owns one pending-queue consumer slot. It publishes every state
// transition as a Status copy on StatusCh; it never shares a pointer to
// its own mutable state with the supervisor.
type Worker struct {
	Slot    int
	DirLog  string
	SSHOpts []string
	Command []string // user argv suffix, or the script wrapper

	Resolve  bool
	Resolver *resolve.Resolver

	Gate        *PauseGate
	Queue       *queue.Pending
	StatusCh    chan<- job.Status
	Interrupted func() bool

	// SSHBin overrides the executable run in place of "ssh"; tests use
	// this to point at a stub script instead of a real ssh client.
	SSHBin string
}

// Run is the worker's main loop: wait at the pause gate, take the next
// pending job, run it to completion, repeat until the queue is empty or
// a global interrupt is observed.
func (w *Worker) Run() {
	for {
		w.Gate.Wait()
		if w.Interrupted != nil && w.Interrupted() {
			return
		}

		spec, ok := w.Queue.Take()
		if !ok {
			return
		}

		w.runOne(spec)
	}
}

func (w *Worker) runOne(spec job.Spec) {
	host := spec.Host
	if w.Resolve && w.Resolver != nil {
		host = w.Resolver.Resolve(host)
	}

	argv := BuildArgv(host, w.SSHOpts, w.Command)
	sshFile := filepath.Join(w.DirLog, spec.Host+".ssh")
	_ = os.WriteFile(sshFile, []byte(FormatArgv(argv)+"\n"), 0o644)

	logFile := filepath.Join(w.DirLog, spec.Host+".out")
	out, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		w.publishSpawnFailure(spec, logFile, err)
		return
	}
	defer out.Close()

	bin := w.SSHBin
	if bin == "" {
		bin = "ssh"
	}
	cmd := exec.Command(bin, argv...)
	cmd.Stdin = nil
	cmd.Stdout = out
	cmd.Stderr = out
	setProcessGroup(cmd)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		io.WriteString(out, err.Error()+"\n")
		w.publishSpawnFailure(spec, logFile, err)
		return
	}

	running := job.Status{
		Spec:    spec,
		State:   job.RUNNING,
		Slot:    w.Slot,
		Start:   start,
		PID:     cmd.Process.Pid,
		LogFile: logFile,
	}
	w.publish(running)

	waitErr := cmd.Wait()
	duration := time.Since(start)
	exitCode := exitCodeOf(waitErr)

	state := job.SUCCESS
	if exitCode != 0 {
		state = job.FAILED
	}

	terminal := job.Status{
		Spec:     spec,
		State:    state,
		Slot:     w.Slot,
		Start:    start,
		PID:      cmd.Process.Pid,
		ExitCode: &exitCode,
		Duration: duration,
		LogFile:  logFile,
	}
	w.publish(terminal)
	w.writeStatusFile(spec.Host, state, exitCode, duration)
}

func (w *Worker) publishSpawnFailure(spec job.Spec, logFile string, err error) {
	exitCode := -1
	terminal := job.Status{
		Spec:     spec,
		State:    job.FAILED,
		Slot:     w.Slot,
		ExitCode: &exitCode,
		LogFile:  logFile,
	}
	w.publish(terminal)
	w.writeStatusFile(spec.Host, job.FAILED, exitCode, 0)
}

func (w *Worker) publish(st job.Status) {
	w.StatusCh <- st
}

func (w *Worker) writeStatusFile(host string, state job.State, exitCode int, duration time.Duration) {
	name := fmt.Sprintf("%s.%s", host, stateFileSuffix(state))
	path := filepath.Join(w.DirLog, name)
	content := fmt.Sprintf("EXIT CODE: %d %s %s\n", exitCode, state, duration.Round(time.Second))
	_ = os.WriteFile(path, []byte(content), 0o644)
}

// stateFileSuffix returns the file extension a worker writes for a
// terminal status. Only SUCCESS and FAILED are worker-written per-host
// state files (spec.md §6); TIMEOUT/KILLED/ABORTED are reclassified by
// the supervisor after the worker has already written ".failed".
func stateFileSuffix(state job.State) string {
	switch state {
	case job.SUCCESS:
		return "success"
	default:
		return "failed"
	}
}

func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}
