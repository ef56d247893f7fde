// Package cli wires a cobra root command onto the scheduler: flag
// parsing mirrors the original ssh-para's flat argparse surface, one
// flag per concern (job name, dirlog, parallelism, timeout, resolve,
// verbose, delay, host source, script, completion, list/logs) plus the
// trailing ssh argv, the way the teacher's cli.go builds one flag set
// per subcommand.
package cli

import (
	"os"
	"strconv"
	"strings"
)

// Options holds one run's fully-resolved configuration: flag values
// plus environment variable defaults already applied.
type Options struct {
	Job      string
	DirLog   string
	MaxDots  int
	Parallel int
	Timeout  int // seconds, 0 means none
	Resolve  bool
	Verbose  bool
	Delay    float64

	HostsFile string
	Hosts     []string

	Script string
	Args   []string

	SSHOpts []string
	Domains []string

	MetricsPort int

	SSHArgs []string // trailing positional ssh argv, if no -s/--script
}

const (
	envOpts    = "SSHP_OPTS"
	envDomains = "SSHP_DOMAINS"
	envMaxDots = "SSHP_MAX_DOTS"
)

// DefaultDirLog is ~/.ssh-para, the original's default output root.
func DefaultDirLog() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ssh-para"
	}
	return home + "/.ssh-para"
}

// applyEnvDefaults fills fields the caller left at their zero value
// from environment variables, matching the original's module-load-time
// os.environ.get() reads.
func (o *Options) applyEnvDefaults() {
	if len(o.SSHOpts) == 0 {
		if v := os.Getenv(envOpts); v != "" {
			o.SSHOpts = strings.Fields(v)
		}
	}
	if len(o.Domains) == 0 {
		if v := os.Getenv(envDomains); v != "" {
			o.Domains = strings.Fields(v)
		}
	}
	if o.MaxDots == 0 {
		o.MaxDots = 1
		if v := os.Getenv(envMaxDots); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				o.MaxDots = n
			}
		}
	}
}
