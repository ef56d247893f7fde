package runlog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/fatih/color"
)

// Summary is everything the final ssh-para.log / ssh-para.result pair
// needs: the terminal snapshots in arrival order plus the run's timing.
type Summary struct {
	Command  string
	DirLog   string
	Jobs     []job.Status
	Begin    time.Time
	End      time.Time
	NumHosts int
	Counts   string // StatusLog.Result() output
}

// WriteLog writes ssh-para.log: one colored line per job followed by a
// footer with command, directory, run counts, and overall pass/fail.
func (l *Layout) WriteLog(s Summary) error {
	var b strings.Builder
	for _, st := range s.Jobs {
		exit := 0
		if st.ExitCode != nil {
			exit = *st.ExitCode
		}
		line := fmt.Sprintf("%-8s: %-24s exit:%-4d dur:%-10s %s",
			st.State, st.Spec.Host, exit, st.Duration.Round(time.Second), st.LogTail)
		fmt.Fprintln(&b, colorForState(st.State)("%s", line))
	}

	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "command: %s\n", s.Command)
	fmt.Fprintf(&b, "log directory: %s\n", s.DirLog)
	fmt.Fprintf(&b, "%d/%d jobs run : begin: %s end: %s dur: %s\n",
		len(s.Jobs), s.NumHosts, s.Begin.Format(time.RFC3339), s.End.Format(time.RFC3339),
		s.End.Sub(s.Begin).Round(time.Second))
	fmt.Fprintln(&b, s.Counts)

	failed := failedCount(s.Jobs)
	if failed == 0 {
		fmt.Fprintln(&b, color.GreenString("all jobs succeeded"))
	} else {
		fmt.Fprintln(&b, color.RedString("%d job(s) did not succeed", failed))
	}

	return os.WriteFile(l.Path("ssh-para.log"), []byte(b.String()), 0o644)
}

// WriteResult writes (or overwrites) the single-line ssh-para.result.
// The supervisor calls this both provisionally while a run is in
// progress and once more, authoritatively, at the end.
func (l *Layout) WriteResult(s Summary) error {
	line := fmt.Sprintf("begin: %s end: %s dur: %s runs: %d/%d %s\n",
		s.Begin.Format(time.RFC3339), s.End.Format(time.RFC3339),
		s.End.Sub(s.Begin).Round(time.Second), len(s.Jobs), s.NumHosts, s.Counts)
	return os.WriteFile(l.Path("ssh-para.result"), []byte(line), 0o644)
}

func failedCount(jobs []job.Status) int {
	n := 0
	for _, j := range jobs {
		switch j.State {
		case job.FAILED, job.KILLED, job.TIMEOUT, job.ABORTED:
			n++
		}
	}
	return n
}

func colorForState(s job.State) func(string, ...interface{}) string {
	switch s {
	case job.SUCCESS:
		return color.GreenString
	case job.FAILED, job.KILLED, job.TIMEOUT, job.ABORTED:
		return color.RedString
	default:
		return fmt.Sprintf
	}
}
