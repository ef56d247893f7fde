package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/hostfmt"
	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/ChuLiYu/ssh-para/internal/metrics"
	"github.com/ChuLiYu/ssh-para/internal/queue"
	"github.com/ChuLiYu/ssh-para/internal/resolve"
	"github.com/ChuLiYu/ssh-para/internal/runlog"
	"github.com/ChuLiYu/ssh-para/internal/sshrun"
	"github.com/ChuLiYu/ssh-para/internal/supervisor"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
)

var log = slog.Default()

// Run executes one ssh-para invocation end to end: resolve the host
// list, create the run-log directory, start the worker pool, and drive
// the supervisor until every job reaches a terminal state. It returns
// the process exit code.
func Run(opts Options) int {
	opts.applyEnvDefaults()

	hosts, err := collectHosts(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ssh-para:", err)
		return 1
	}
	if len(hosts) == 0 {
		fmt.Fprintln(os.Stderr, "ssh-para: no hosts given")
		return 1
	}

	command, err := buildCommand(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ssh-para:", err)
		return 1
	}

	layout, err := runlog.Create(opts.DirLog, opts.Job, time.Now().Unix())
	if err != nil {
		fmt.Fprintln(os.Stderr, "ssh-para: creating run directory:", err)
		return 1
	}
	argv := append([]string{"ssh"}, command...)
	_ = layout.WriteHostsList(hosts)
	_ = layout.WriteCommand(opts.HostsFile, argv)

	statusLog, err := runlog.OpenStatusLog(layout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ssh-para: opening status log:", err)
		return 1
	}
	defer statusLog.Close()

	specs := make([]job.Spec, len(hosts))
	for i, h := range hosts {
		specs[i] = job.Spec{Host: h, ShortHost: hostfmt.ShortHost(h, opts.MaxDots)}
	}

	q := queue.New(specs)
	gate := sshrun.NewPauseGate()
	statusCh := make(chan job.Status, len(specs))

	var resolver *resolve.Resolver
	if opts.Resolve {
		resolver = resolve.New(opts.Domains)
	}

	workers := make([]*sshrun.Worker, opts.Parallel)
	var interrupted atomic.Bool
	for i := range workers {
		workers[i] = &sshrun.Worker{
			Slot:        i,
			DirLog:      layout.Root,
			SSHOpts:     opts.SSHOpts,
			Command:     command,
			Resolve:     opts.Resolve,
			Resolver:    resolver,
			Gate:        gate,
			Queue:       q,
			StatusCh:    statusCh,
			Interrupted: interrupted.Load,
		}
	}

	timeout := time.Duration(opts.Timeout) * time.Second
	commands := make(chan supervisor.Command, 4)
	sup := supervisor.New(opts.Parallel, len(specs), timeout, statusCh, commands, q, gate, layout, statusLog)
	sup.Command = strings.Join(argv, " ")

	var collector *metrics.Collector
	if opts.MetricsPort > 0 {
		reg := prometheus.NewRegistry()
		collector = metrics.NewCollector(reg)
		go func() {
			if err := metrics.StartServer(opts.MetricsPort, reg); err != nil {
				log.Warn("metrics server stopped", "error", err)
			}
		}()
	}

	renderer := chooseRenderer(opts, os.Stdout)
	sup.OnTick = func(snap supervisor.Snapshot) {
		if collector != nil {
			collector.SetRunning(snap.Running)
			collector.SetPending(snap.Pending)
			if snap.HasETA {
				collector.SetETA(snap.ETA.Seconds())
			}
			if snap.Event != nil && snap.Event.State.Terminal() {
				exit := 0
				if snap.Event.ExitCode != nil {
					exit = *snap.Event.ExitCode
				}
				collector.RecordTerminal(string(snap.Event.State), snap.Event.Duration.Seconds(), exit == 255)
			}
		}
		renderer.Render(snap)
	}

	pool := sshrun.NewPool()
	if err := pool.Start(workers, time.Duration(opts.Delay*float64(time.Second))); err != nil {
		fmt.Fprintln(os.Stderr, "ssh-para: starting worker pool:", err)
		return 1
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGPIPE)
	go func() {
		<-sigCh
		interrupted.Store(true)
		sup.SetInterrupted()
	}()

	if isatty.IsTerminal(os.Stdin.Fd()) {
		go readKeyboard(commands)
	}

	code := sup.Run()
	pool.Wait()
	return code
}

func collectHosts(opts Options) ([]string, error) {
	if len(opts.Hosts) > 0 {
		return opts.Hosts, nil
	}
	if opts.HostsFile != "" {
		data, err := os.ReadFile(opts.HostsFile)
		if err != nil {
			return nil, fmt.Errorf("reading hosts file: %w", err)
		}
		var hosts []string
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			hosts = append(hosts, line)
		}
		return hosts, nil
	}
	return nil, fmt.Errorf("no hosts given: use -f or -H")
}

func buildCommand(opts Options) ([]string, error) {
	if opts.Script != "" {
		return sshrun.ScriptCommand(opts.Script, opts.Args)
	}
	if len(opts.SSHArgs) == 0 {
		return nil, fmt.Errorf("no command given: pass trailing ssh arguments or -s/--script")
	}
	return opts.SSHArgs, nil
}

func chooseRenderer(opts Options, w io.Writer) supervisor.Renderer {
	return &supervisor.Plain{W: w}
}
