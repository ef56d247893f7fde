// Package supervisor is the generalized form of the teacher's
// controller: a single goroutine that consumes a status bus, enforces
// timeouts, and owns the aggregate view of a run. Where the teacher's
// Controller runs dispatch/result/timeout/snapshot loops against a
// crash-recoverable job manager, the supervisor here has no crash
// recovery to do — it owns the pending queue only for the abort path —
// and folds dispatch, result-handling, and timeout enforcement into one
// loop, since ssh-para is a single-process, single-run tool.
package supervisor

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/ChuLiYu/ssh-para/internal/queue"
	"github.com/ChuLiYu/ssh-para/internal/runlog"
	"github.com/ChuLiYu/ssh-para/internal/sshrun"
	"github.com/ChuLiYu/ssh-para/internal/tail"
)

// CommandKind is an interactive control accepted by the supervisor.
type CommandKind int

const (
	CmdPause CommandKind = iota
	CmdResume
	CmdAbort
	CmdKill
)

// Command is one interactive control event, e.g. from the keyboard or a
// signal handler.
type Command struct {
	Kind CommandKind
	Slot int
}

type slotTail struct {
	file *os.File
}

type slotState struct {
	status job.Status
	tail   *slotTail
}

// Supervisor owns the aggregate state of one run: per-slot latest
// status, the ordered terminal list, the kill table, and the rolling
// ETA inputs. It is the sole writer of post-terminal state.
type Supervisor struct {
	PoolSize int
	Total    int
	Timeout  time.Duration
	Command  string // full argv run on each host, for the summary footer

	StatusCh <-chan job.Status
	Commands <-chan Command
	Queue    *queue.Pending
	Gate     *sshrun.PauseGate
	Layout   *runlog.Layout
	StatusLog *runlog.StatusLog

	OnTick func(Snapshot) // optional render hook, called once per loop

	mu          sync.Mutex
	slots       map[int]*slotState
	terminal    []job.Status
	killTable   map[int]job.State
	failedCount int
	paused      bool

	sumDuration time.Duration
	nbAvgJobs   int

	start       time.Time
	interrupted atomic.Bool
}

// New builds a Supervisor ready to Run.
func New(poolSize, total int, timeout time.Duration, statusCh <-chan job.Status, commands <-chan Command, q *queue.Pending, gate *sshrun.PauseGate, layout *runlog.Layout, statusLog *runlog.StatusLog) *Supervisor {
	return &Supervisor{
		PoolSize:  poolSize,
		Total:     total,
		Timeout:   timeout,
		StatusCh:  statusCh,
		Commands:  commands,
		Queue:     q,
		Gate:      gate,
		Layout:    layout,
		StatusLog: statusLog,
		slots:     make(map[int]*slotState),
		killTable: make(map[int]job.State),
	}
}

// SetInterrupted records a global interrupt (SIGINT/SIGPIPE). The main
// loop observes it on its next iteration and aborts remaining jobs.
func (s *Supervisor) SetInterrupted() {
	s.interrupted.Store(true)
}

// Interrupted reports whether a global interrupt has been recorded.
func (s *Supervisor) Interrupted() bool {
	return s.interrupted.Load()
}

// Run is the supervisor's main loop. It returns the process exit code
// once every job has reached a terminal state.
func (s *Supervisor) Run() int {
	s.start = time.Now()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if s.Interrupted() {
			s.AbortRemaining()
			s.Killall()
		}

		var event *job.Status
		select {
		case st := <-s.StatusCh:
			e := st
			s.handle(st)
			event = &e
		case <-ticker.C:
		}

		skip := -1
		if event != nil {
			skip = event.Slot
		}
		s.refreshTails(skip)
		s.timeoutSweep()
		s.writeProvisionalResult()

		if s.OnTick != nil {
			snap := s.Snapshot()
			snap.Event = event
			s.OnTick(snap)
		}

		select {
		case cmd := <-s.Commands:
			s.handleCommand(cmd)
		default:
		}

		if s.terminalCount() >= s.Total {
			break
		}
	}

	s.Gate.Resume()
	s.writeFinalSummary()
	return s.exitCode()
}

func (s *Supervisor) terminalCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.terminal)
}

func (s *Supervisor) handle(st job.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.State == job.RUNNING {
		s.openSlotLocked(st)
		return
	}

	s.closeSlotTailLocked(st.Slot)

	origExit := 0
	if st.ExitCode != nil {
		origExit = *st.ExitCode
	}

	if st.State == job.FAILED {
		s.failedCount++
	}

	if desired, ok := s.killTable[st.PID]; ok {
		st.State = desired
		delete(s.killTable, st.PID)
	}

	if s.Interrupted() && isTransportSentinel(origExit) {
		st.State = job.KILLED
		reset := 256
		st.ExitCode = &reset
	}

	if origExit != 255 {
		s.sumDuration += st.Duration
		s.nbAvgJobs++
	}

	if s.StatusLog != nil {
		s.StatusLog.AddHost(st.Spec.Host, st.State)
	}
	s.terminal = append(s.terminal, st)
	s.slots[st.Slot] = nil
}

func (s *Supervisor) openSlotLocked(st job.Status) {
	var t *slotTail
	if f, err := os.Open(st.LogFile); err == nil {
		t = &slotTail{file: f}
	}
	s.slots[st.Slot] = &slotState{status: st, tail: t}
}

func (s *Supervisor) closeSlotTailLocked(slot int) {
	if sl, ok := s.slots[slot]; ok && sl != nil && sl.tail != nil {
		sl.tail.file.Close()
	}
}

// refreshTails updates LogTail for every RUNNING slot whose tail reader
// is open, except the slot skip (just handled this iteration, so its
// status is already fresh).
func (s *Supervisor) refreshTails(skip int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slotID, sl := range s.slots {
		if sl == nil || sl.tail == nil || slotID == skip {
			continue
		}
		if sl.status.State != job.RUNNING {
			continue
		}
		if line, err := tail.LastLine(sl.tail.file); err == nil {
			sl.status.LogTail = line
		}
	}
}

// timeoutSweep kills any RUNNING slot that has exceeded Timeout.
func (s *Supervisor) timeoutSweep() {
	if s.Timeout <= 0 {
		return
	}
	now := time.Now()

	s.mu.Lock()
	var toKill []int
	for slotID, sl := range s.slots {
		if sl != nil && sl.status.State == job.RUNNING && now.Sub(sl.status.Start) > s.Timeout {
			toKill = append(toKill, slotID)
		}
	}
	s.mu.Unlock()

	for _, slotID := range toKill {
		s.Kill(slotID, job.TIMEOUT)
	}
}

// Kill records slot's desired terminal reclassification and sends
// SIGINT to its pid. A missing or already-finished slot is a no-op.
func (s *Supervisor) Kill(slot int, desired job.State) {
	s.mu.Lock()
	sl := s.slots[slot]
	var pid int
	if sl != nil && sl.status.State == job.RUNNING {
		pid = sl.status.PID
	}
	if pid > 0 {
		s.killTable[pid] = desired
	}
	s.mu.Unlock()

	if pid > 0 {
		_ = sshrun.SignalInterrupt(pid)
	}
}

// Killall sends SIGINT to every currently RUNNING slot, reclassifying
// each to KILLED on its terminal snapshot.
func (s *Supervisor) Killall() {
	s.mu.Lock()
	running := make([]int, 0)
	for slotID, sl := range s.slots {
		if sl != nil && sl.status.State == job.RUNNING {
			running = append(running, slotID)
		}
	}
	s.mu.Unlock()

	for _, slotID := range running {
		s.Kill(slotID, job.KILLED)
	}
}

// AbortRemaining drains the pending queue and synthesizes an ABORTED
// terminal snapshot for each host that never reached a worker. Always
// resumes the pause gate so any worker still parked sees an empty
// queue and exits.
func (s *Supervisor) AbortRemaining() {
	drained := s.Queue.Drain()

	s.mu.Lock()
	for _, spec := range drained {
		exit := 256
		st := job.Status{Spec: spec, State: job.ABORTED, Slot: -1, ExitCode: &exit}
		if s.StatusLog != nil {
			s.StatusLog.AddHost(spec.Host, job.ABORTED)
		}
		s.terminal = append(s.terminal, st)
	}
	s.mu.Unlock()

	s.Gate.Resume()
}

func (s *Supervisor) handleCommand(cmd Command) {
	switch cmd.Kind {
	case CmdPause:
		s.mu.Lock()
		s.paused = true
		s.mu.Unlock()
		s.Gate.Pause()
	case CmdResume:
		s.mu.Lock()
		s.paused = false
		s.mu.Unlock()
		s.Gate.Resume()
	case CmdAbort:
		s.AbortRemaining()
	case CmdKill:
		s.Kill(cmd.Slot, job.KILLED)
	}
}

// nonSuccess reports whether a terminal state should count as a
// failure for the process exit code. ABORTED is included even though
// spec.md's exit-code law enumerates only FAILED/KILLED/TIMEOUT,
// because an aborted run (operator pressed 'a' without Ctrl-C) should
// not silently exit 0; see DESIGN.md for this call.
func nonSuccess(state job.State) bool {
	switch state {
	case job.FAILED, job.KILLED, job.TIMEOUT, job.ABORTED:
		return true
	default:
		return false
	}
}

func (s *Supervisor) exitCode() int {
	if s.Interrupted() {
		return 130
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.terminal {
		if nonSuccess(st.State) {
			return 1
		}
	}
	return 0
}

// Snapshot returns the supervisor's current aggregate view.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots := make([]job.Status, s.PoolSize)
	running := 0
	var lastStart time.Time
	for i := 0; i < s.PoolSize; i++ {
		if sl := s.slots[i]; sl != nil {
			slots[i] = sl.status.Clone()
			if sl.status.State == job.RUNNING {
				running++
				if sl.status.Start.After(lastStart) {
					lastStart = sl.status.Start
				}
			}
		} else {
			slots[i] = job.Status{State: job.IDLE, Slot: i, PID: -1}
		}
	}

	lastDur := time.Duration(0)
	if !lastStart.IsZero() {
		lastDur = time.Since(lastStart)
	}

	nbTerminal := len(s.terminal)
	etaDur, hasETA := eta(s.sumDuration, s.nbAvgJobs, s.PoolSize, running, nbTerminal, s.Total, lastDur)

	return Snapshot{
		Slots:   slots,
		Running: running,
		Pending: s.Queue.Len(),
		Done:    nbTerminal,
		Failed:  s.failedCount,
		Total:   s.Total,
		ETA:     etaDur,
		HasETA:  hasETA,
		Paused:  s.paused,
	}
}

// Terminal returns a copy of the terminal snapshot list in arrival
// order, for the final summary writer.
func (s *Supervisor) Terminal() []job.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]job.Status, len(s.terminal))
	for i := range s.terminal {
		cp[i] = s.terminal[i].Clone()
	}
	return cp
}

func (s *Supervisor) writeProvisionalResult() {
	if s.Layout == nil || s.StatusLog == nil {
		return
	}
	_ = s.Layout.WriteResult(runlog.Summary{
		Command:  s.Command,
		DirLog:   s.Layout.Root,
		Jobs:     s.Terminal(),
		Begin:    s.start,
		End:      time.Now(),
		NumHosts: s.Total,
		Counts:   s.StatusLog.Result(),
	})
}

func (s *Supervisor) writeFinalSummary() {
	if s.Layout == nil {
		return
	}
	summary := runlog.Summary{
		Command:  s.Command,
		DirLog:   s.Layout.Root,
		Jobs:     s.Terminal(),
		Begin:    s.start,
		End:      time.Now(),
		NumHosts: s.Total,
	}
	if s.StatusLog != nil {
		summary.Counts = s.StatusLog.Result()
	}
	_ = s.Layout.WriteLog(summary)
	_ = s.Layout.WriteResult(summary)
}
