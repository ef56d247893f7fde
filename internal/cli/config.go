package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileDefaults is the optional on-disk defaults file, read once at
// startup the way the teacher's cli.go reads configs/default.yaml.
// Flags that were explicitly set on the command line always win; a
// FileDefaults value only fills in a flag still at its zero value.
type FileDefaults struct {
	Job      string   `yaml:"job"`
	DirLog   string   `yaml:"dirlog"`
	MaxDots  int      `yaml:"maxdots"`
	Parallel int      `yaml:"parallel"`
	Timeout  int      `yaml:"timeout"`
	Resolve  bool     `yaml:"resolve"`
	Delay    float64  `yaml:"delay"`
	SSHOpts  []string `yaml:"ssh_opts"`
	Domains  []string `yaml:"domains"`
}

// loadConfig reads and parses a YAML defaults file.
func loadConfig(path string) (*FileDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileDefaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	return &cfg, nil
}

// applyFileDefaults fills any flag left at its zero value from cfg.
// Explicit flags (including explicit zero, which this can't distinguish
// from "unset") are expected to be the common case. Parallel and Delay
// are only filled when zero; the command line's own flag defaults (4 and
// 0.3) are non-zero, so file values for them have no effect there.
func (o *Options) applyFileDefaults(cfg *FileDefaults) {
	if o.Job == "" {
		o.Job = cfg.Job
	}
	if o.DirLog == "" || o.DirLog == DefaultDirLog() {
		if cfg.DirLog != "" {
			o.DirLog = cfg.DirLog
		}
	}
	if o.MaxDots == 0 {
		o.MaxDots = cfg.MaxDots
	}
	if o.Parallel == 0 {
		o.Parallel = cfg.Parallel
	}
	if o.Timeout == 0 {
		o.Timeout = cfg.Timeout
	}
	if !o.Resolve {
		o.Resolve = cfg.Resolve
	}
	if o.Delay == 0 {
		o.Delay = cfg.Delay
	}
	if len(o.SSHOpts) == 0 {
		o.SSHOpts = cfg.SSHOpts
	}
	if len(o.Domains) == 0 {
		o.Domains = cfg.Domains
	}
}
