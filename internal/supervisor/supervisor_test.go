package supervisor

import (
	"testing"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/ChuLiYu/ssh-para/internal/queue"
	"github.com/ChuLiYu/ssh-para/internal/runlog"
	"github.com/ChuLiYu/ssh-para/internal/sshrun"
	"github.com/stretchr/testify/require"
)

func newTestSupervisor(t *testing.T, total, poolSize int) (*Supervisor, chan job.Status, chan Command) {
	t.Helper()
	layout, err := runlog.Create(t.TempDir(), "", 1)
	require.NoError(t, err)
	statusLog, err := runlog.OpenStatusLog(layout)
	require.NoError(t, err)
	t.Cleanup(func() { statusLog.Close() })

	statusCh := make(chan job.Status, 16)
	commands := make(chan Command, 4)
	s := New(poolSize, total, 0, statusCh, commands, queue.New(nil), sshrun.NewPauseGate(), layout, statusLog)
	return s, statusCh, commands
}

func exitPtr(n int) *int { return &n }

func TestSupervisorCompletesOnAllTerminal(t *testing.T) {
	s, statusCh, _ := newTestSupervisor(t, 2, 2)
	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.SUCCESS, Slot: 0, ExitCode: exitPtr(0)}
	statusCh <- job.Status{Spec: job.Spec{Host: "b"}, State: job.SUCCESS, Slot: 1, ExitCode: exitPtr(0)}

	done := make(chan int, 1)
	go func() { done <- s.Run() }()

	select {
	case code := <-done:
		require.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}
}

func TestSupervisorExitCodeOnFailure(t *testing.T) {
	s, statusCh, _ := newTestSupervisor(t, 1, 1)
	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.FAILED, Slot: 0, ExitCode: exitPtr(1)}

	done := make(chan int, 1)
	go func() { done <- s.Run() }()

	select {
	case code := <-done:
		require.Equal(t, 1, code)
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}
}

func TestSupervisorKillReclassifiesOnNextTerminalSnapshot(t *testing.T) {
	s, statusCh, _ := newTestSupervisor(t, 1, 1)

	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.RUNNING, Slot: 0, PID: 999, Start: time.Now()}
	done := make(chan int, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool {
		snap := s.Snapshot()
		return snap.Slots[0].State == job.RUNNING
	}, time.Second, 10*time.Millisecond)

	s.Kill(0, job.KILLED)
	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.FAILED, Slot: 0, PID: 999, ExitCode: exitPtr(-1)}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}

	terminal := s.Terminal()
	require.Len(t, terminal, 1)
	require.Equal(t, job.KILLED, terminal[0].State)
}

func TestSupervisorAbortRemainingDrainsQueueInOrder(t *testing.T) {
	q := queue.New([]job.Spec{{Host: "b"}, {Host: "c"}})
	layout, err := runlog.Create(t.TempDir(), "", 2)
	require.NoError(t, err)
	statusLog, err := runlog.OpenStatusLog(layout)
	require.NoError(t, err)
	defer statusLog.Close()

	statusCh := make(chan job.Status, 4)
	commands := make(chan Command, 1)
	s := New(1, 3, 0, statusCh, commands, q, sshrun.NewPauseGate(), layout, statusLog)

	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.SUCCESS, Slot: 0, ExitCode: exitPtr(0)}
	done := make(chan int, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool { return len(statusCh) == 0 }, time.Second, 5*time.Millisecond)
	commands <- Command{Kind: CmdAbort}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}

	terminal := s.Terminal()
	require.Len(t, terminal, 3)
	require.Equal(t, "a", terminal[0].Spec.Host)
	require.Equal(t, "b", terminal[1].Spec.Host)
	require.Equal(t, "c", terminal[2].Spec.Host)
	require.Equal(t, job.ABORTED, terminal[1].State)
	require.Equal(t, job.ABORTED, terminal[2].State)
}

func TestSupervisorTimeoutSweepKillsLongRunningSlot(t *testing.T) {
	layout, err := runlog.Create(t.TempDir(), "", 3)
	require.NoError(t, err)
	statusLog, err := runlog.OpenStatusLog(layout)
	require.NoError(t, err)
	defer statusLog.Close()

	statusCh := make(chan job.Status, 4)
	commands := make(chan Command, 1)
	s := New(1, 1, 20*time.Millisecond, statusCh, commands, queue.New(nil), sshrun.NewPauseGate(), layout, statusLog)
	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.RUNNING, Slot: 0, PID: 12345, Start: time.Now().Add(-time.Hour)}

	done := make(chan int, 1)
	go func() { done <- s.Run() }()

	require.Eventually(t, func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		_, ok := s.killTable[12345]
		return ok
	}, time.Second, 10*time.Millisecond)

	statusCh <- job.Status{Spec: job.Spec{Host: "a"}, State: job.FAILED, Slot: 0, PID: 12345, ExitCode: exitPtr(-1)}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor did not terminate")
	}
	terminal := s.Terminal()
	require.Len(t, terminal, 1)
	require.Equal(t, job.TIMEOUT, terminal[0].State)
}

func TestETAFormulaAndNoAverage(t *testing.T) {
	d, ok := eta(10*time.Second, 1, 1, 0, 1, 2, 0)
	require.True(t, ok)
	require.Equal(t, 10*time.Second, d)

	_, ok = eta(0, 0, 1, 0, 0, 2, 0)
	require.False(t, ok)
}
