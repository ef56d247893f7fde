// Package runlog manages the per-run directory: its creation, the
// "latest" symlink, and the various summary/command/host-list files
// written around a run.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Layout is a created run directory ready for workers and the
// supervisor to write into.
type Layout struct {
	Root string // <dirlog>[/<job>]/<unix-seconds>
	Base string // <dirlog>[/<job>]
}

// Create makes a fresh run directory under base, named by the current
// unix-second timestamp, and points base/latest (and, if job != "",
// dirlog/latest too) at it.
func Create(dirlog, jobName string, now int64) (*Layout, error) {
	base := dirlog
	if jobName != "" {
		base = filepath.Join(dirlog, jobName)
	}

	root := filepath.Join(base, strconv.FormatInt(now, 10))
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", root, err)
	}

	name := strconv.FormatInt(now, 10)
	if err := updateLatest(base, name); err != nil {
		return nil, err
	}
	if jobName != "" {
		if err := updateLatest(dirlog, filepath.Join(jobName, name)); err != nil {
			return nil, err
		}
	}

	return &Layout{Root: root, Base: base}, nil
}

// updateLatest points <dir>/latest at target via unlink-then-symlink.
// This is intentionally not atomic across processes; a reader racing
// the swap can briefly see no symlink or the old one. Accepted per
// design: ssh-para runs are not expected to overlap on the same dirlog.
func updateLatest(dir, target string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	link := filepath.Join(dir, "latest")
	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return err
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return err
	}
	return nil
}

// Path joins name onto the run root.
func (l *Layout) Path(name string) string {
	return filepath.Join(l.Root, name)
}

// WriteHostsList writes hosts.list, one host per line, in input order.
func (l *Layout) WriteHostsList(hosts []string) error {
	content := ""
	for _, h := range hosts {
		content += h + "\n"
	}
	return os.WriteFile(l.Path("hosts.list"), []byte(content), 0o644)
}

// WriteCommand writes ssh-para.command.
func (l *Layout) WriteCommand(hostsfileName string, argv []string) error {
	content := fmt.Sprintf("Hostsfile: %s Command: %s\n", hostsfileName, joinArgv(argv))
	return os.WriteFile(l.Path("ssh-para.command"), []byte(content), 0o644)
}

func joinArgv(argv []string) string {
	out := ""
	for i, a := range argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
