package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Version is set via -ldflags at build time by cmd/sshpara.
var Version = "dev"

// BuildCLI assembles the root cobra command: one flat flag set mirroring
// the original argparse surface, trailing positional args forwarded as
// the ssh command, and -l/-L/-C handled as alternate host-source modes
// the way the original's mutually-exclusive host_group does.
func BuildCLI() *cobra.Command {
	opts := Options{}
	var completion string
	var list bool
	var logsArgs []string
	var configFile string

	root := &cobra.Command{
		Use:     "ssh-para [flags] -- command...",
		Short:   "Run a command on many hosts in parallel over SSH",
		Version: Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.SSHArgs = args

			if configFile != "" {
				cfg, err := loadConfig(configFile)
				if err != nil {
					return err
				}
				opts.applyFileDefaults(cfg)
			}

			switch {
			case completion != "":
				return runCompletion(cmd, completion)
			case list:
				return ListRuns(opts.DirLog, opts.Job)
			case len(logsArgs) > 0:
				return ShowLogs(opts.DirLog, opts.Job, logsArgs)
			default:
				code := Run(opts)
				if code != 0 {
					cmd.SilenceUsage = true
					cmd.SilenceErrors = true
					return &exitError{code: code}
				}
				return nil
			}
		},
	}

	root.Flags().StringVarP(&opts.Job, "job", "j", "", "job name added as a subdir to dirlog")
	root.Flags().StringVarP(&opts.DirLog, "dirlog", "d", DefaultDirLog(), "directory for output log files")
	root.Flags().IntVarP(&opts.MaxDots, "maxdots", "m", 0, "hostname domain display level (default 1; -1 => fqdn)")
	root.Flags().IntVarP(&opts.Parallel, "parallel", "p", 4, "parallelism")
	root.Flags().IntVarP(&opts.Timeout, "timeout", "t", 0, "timeout of each job, in seconds")
	root.Flags().BoolVarP(&opts.Resolve, "resolve", "r", false, "resolve fqdn in SSHP_DOMAINS")
	root.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose display (fqdn + last output line)")
	root.Flags().Float64VarP(&opts.Delay, "delay", "D", 0.3, "initial delay in seconds between ssh commands")
	root.Flags().StringVarP(&opts.HostsFile, "hostsfile", "f", "", "hosts list file")
	root.Flags().StringSliceVarP(&opts.Hosts, "hosts", "H", nil, "hosts list")
	root.Flags().StringVarP(&completion, "completion", "C", "", "autocompletion shell code to source: bash, zsh, powershell")
	root.Flags().BoolVarP(&list, "list", "l", false, "list ssh-para results/log directories")
	root.Flags().StringSliceVarP(&logsArgs, "logs", "L", nil, "print latest/current ssh-para run logs")
	root.Flags().StringVarP(&opts.Script, "script", "s", "", "script to execute")
	root.Flags().StringSliceVarP(&opts.Args, "args", "a", nil, "script arguments")
	root.Flags().IntVar(&opts.MetricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 disables)")
	root.Flags().StringVar(&configFile, "config", "", "optional YAML file of flag defaults")

	root.MarkFlagsMutuallyExclusive("hostsfile", "hosts", "completion", "list", "logs")

	return root
}

// exitError carries a desired process exit code through cobra's
// RunE/Execute without cobra printing an extra "Error:" line for a
// non-zero-but-not-exceptional run outcome (e.g. some jobs failed).
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// ExitCode extracts the code from err if it is an *exitError, or 1 for
// any other non-nil error, or 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ee, ok := err.(*exitError); ok {
		return ee.code
	}
	return 1
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	switch strings.ToLower(shell) {
	case "bash":
		return root.GenBashCompletion(cmd.OutOrStdout())
	case "zsh":
		return root.GenZshCompletion(cmd.OutOrStdout())
	case "powershell":
		return root.GenPowerShellCompletion(cmd.OutOrStdout())
	default:
		return fmt.Errorf("unknown completion shell %q", shell)
	}
}
