package runlog

import (
	"fmt"
	"os"
	"strings"

	"github.com/ChuLiYu/ssh-para/internal/job"
)

// statusFiles is the fixed set of per-status host-list files the
// supervisor maintains for a run, in the order they're listed in
// spec.md §6.
var statusFiles = []job.State{job.SUCCESS, job.FAILED, job.TIMEOUT, job.KILLED, job.ABORTED}

// StatusLog owns the five `<state>.status` files for a run directory.
// It is written only by the supervisor, one line per terminal host.
type StatusLog struct {
	files map[job.State]*os.File
	count map[job.State]int
}

// OpenStatusLog creates (or opens for append) the per-status files under root.
func OpenStatusLog(l *Layout) (*StatusLog, error) {
	sl := &StatusLog{
		files: make(map[job.State]*os.File, len(statusFiles)),
		count: make(map[job.State]int, len(statusFiles)),
	}
	for _, s := range statusFiles {
		name := strings.ToLower(string(s)) + ".status"
		f, err := os.OpenFile(l.Path(name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			sl.Close()
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		sl.files[s] = f
	}
	return sl, nil
}

// AddHost appends host to the file for state and bumps its counter.
func (sl *StatusLog) AddHost(host string, state job.State) {
	f, ok := sl.files[state]
	if !ok {
		return
	}
	fmt.Fprintln(f, host)
	sl.count[state]++
}

// Counts returns a snapshot of per-state counts so far.
func (sl *StatusLog) Counts() map[job.State]int {
	cp := make(map[job.State]int, len(sl.count))
	for k, v := range sl.count {
		cp[k] = v
	}
	return cp
}

// Result renders the counts as "success: 3 - failed: 1 - ...".
func (sl *StatusLog) Result() string {
	parts := make([]string, 0, len(statusFiles))
	for _, s := range statusFiles {
		parts = append(parts, fmt.Sprintf("%s: %d", strings.ToLower(string(s)), sl.count[s]))
	}
	return strings.Join(parts, " - ")
}

// Close closes every open status file.
func (sl *StatusLog) Close() {
	for _, f := range sl.files {
		if f != nil {
			f.Close()
		}
	}
}
