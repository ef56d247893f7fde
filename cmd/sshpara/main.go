// Command sshpara runs a command on a fixed list of hosts in parallel
// over SSH. See internal/cli for the flag surface.
package main

import (
	"fmt"
	"os"

	"github.com/ChuLiYu/ssh-para/internal/cli"
)

// Build-time version injection via ldflags:
// go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123 -X main.date=2026-07-30"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "ssh-para: fatal: %v\n", r)
			os.Exit(1)
		}
	}()

	cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	root := cli.BuildCLI()

	if err := root.Execute(); err != nil {
		if code := cli.ExitCode(err); code != 0 {
			os.Exit(code)
		}
		fmt.Fprintf(os.Stderr, "ssh-para: %v\n", err)
		os.Exit(1)
	}
}
