package supervisor

import (
	"fmt"
	"io"
	"time"
)

// Renderer draws one Snapshot. The supervisor calls it once per loop
// iteration via OnTick; a full curses-style TTY view is out of scope
// here (see SPEC_FULL.md), so the only implementation shipped is Plain,
// which emits one line per event — suitable for non-interactive use
// (CI logs, piped output) the way the original falls back to when
// stdout isn't a tty.
type Renderer interface {
	Render(Snapshot)
}

// Plain renders one line per status event (a job starting RUNNING or
// reaching a terminal state) to w, plus a progress line
// every progressInterval while nothing else happened. It never rewrites
// previous output, so it is safe on a plain file or pipe.
type Plain struct {
	W io.Writer

	lastProgress time.Time
}

const progressInterval = 5 * time.Second

func (p *Plain) Render(s Snapshot) {
	if s.Event != nil {
		exit := 0
		if s.Event.ExitCode != nil {
			exit = *s.Event.ExitCode
		}
		fmt.Fprintf(p.W, "%-8s %-24s exit:%d dur:%s\n",
			s.Event.State, s.Event.Spec.Host, exit, s.Event.Duration.Round(time.Second))
		return
	}
	if time.Since(p.lastProgress) < progressInterval {
		return
	}
	p.lastProgress = time.Now()
	fmt.Fprintln(p.W, ProgressLine(s))
}

// ProgressLine formats the one-line status bar the original draws at
// the top of its curses view: running/pending/done counts and ETA.
func ProgressLine(s Snapshot) string {
	etaStr := ".:..:.."
	if s.HasETA {
		etaStr = fmtHMS(s.ETA)
	}
	state := "running"
	if s.Paused {
		state = "paused"
	}
	return fmt.Sprintf("[%s] %d running / %d pending / %d done (%d failed) of %d  eta %s",
		state, s.Running, s.Pending, s.Done, s.Failed, s.Total, etaStr)
}

func fmtHMS(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
}
