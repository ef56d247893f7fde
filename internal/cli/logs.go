package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ListRuns implements -l/--list: print every run directory under
// dirlog[/job], newest first, each with its ssh-para.result and
// ssh-para.command contents. This is a plain print, not the excluded
// curses TUI.
func ListRuns(dirlog, jobName string) error {
	base := dirlog
	if jobName != "" {
		base = filepath.Join(dirlog, jobName)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return fmt.Errorf("reading %s: %w", base, err)
	}

	var runs []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "latest" {
			continue
		}
		if _, err := strconv.ParseInt(e.Name(), 10, 64); err != nil {
			continue
		}
		runs = append(runs, e.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))

	for _, run := range runs {
		dir := filepath.Join(base, run)
		fmt.Println(hometilde(dir))
		if data, err := os.ReadFile(filepath.Join(dir, "ssh-para.command")); err == nil {
			fmt.Print("  ", string(data))
		}
		if data, err := os.ReadFile(filepath.Join(dir, "ssh-para.result")); err == nil {
			fmt.Print("  ", string(data))
		}
		fmt.Println()
	}
	return nil
}

// ShowLogs implements -L/--logs: each arg is a glob-ish selector of the
// form [<runid>/]<pattern>, matched within dirlog[/job]/<runid>
// (default runid "latest"), printed with a host-prefixed header when
// more than one file matches.
func ShowLogs(dirlog, jobName string, patterns []string) error {
	base := dirlog
	if jobName != "" {
		base = filepath.Join(dirlog, jobName)
	}

	for _, pattern := range patterns {
		runID := "latest"
		glob := pattern
		if idx := strings.LastIndex(pattern, "/"); idx >= 0 {
			runID = pattern[:idx]
			glob = pattern[idx+1:]
		}

		dir := filepath.Join(base, runID)
		matches, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			return fmt.Errorf("matching %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "ssh-para: no files matching %s in %s\n", glob, dir)
			continue
		}
		sort.Strings(matches)

		for _, m := range matches {
			data, err := os.ReadFile(m)
			if err != nil {
				fmt.Fprintf(os.Stderr, "ssh-para: reading %s: %v\n", m, err)
				continue
			}
			if len(matches) > 1 {
				fmt.Printf("==> %s <==\n", filepath.Base(m))
			}
			os.Stdout.Write(data)
		}
	}
	return nil
}

// hometilde abbreviates the user's home directory to ~ in printed
// paths, matching the original's hometilde().
func hometilde(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + strings.TrimPrefix(path, home)
	}
	return path
}
