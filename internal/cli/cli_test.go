package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCLIFlags(t *testing.T) {
	cmd := BuildCLI()
	require.NotNil(t, cmd)

	for _, name := range []string{"job", "dirlog", "maxdots", "parallel", "timeout", "resolve", "verbose", "delay", "hostsfile", "hosts", "completion", "list", "logs", "script", "args"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag --%s", name)
	}

	p := cmd.Flags().Lookup("parallel")
	assert.Equal(t, "4", p.DefValue)
	d := cmd.Flags().Lookup("delay")
	assert.Equal(t, "0.3", d.DefValue)
}

func TestApplyEnvDefaults(t *testing.T) {
	t.Setenv("SSHP_OPTS", "-o StrictHostKeyChecking=no")
	t.Setenv("SSHP_DOMAINS", "example.com corp.example.com")
	t.Setenv("SSHP_MAX_DOTS", "2")

	opts := Options{}
	opts.applyEnvDefaults()

	assert.Equal(t, []string{"-o", "StrictHostKeyChecking=no"}, opts.SSHOpts)
	assert.Equal(t, []string{"example.com", "corp.example.com"}, opts.Domains)
	assert.Equal(t, 2, opts.MaxDots)
}

func TestApplyEnvDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	t.Setenv("SSHP_MAX_DOTS", "9")
	opts := Options{MaxDots: 3}
	opts.applyEnvDefaults()
	assert.Equal(t, 3, opts.MaxDots)
}

func TestCollectHostsFromFlag(t *testing.T) {
	hosts, err := collectHosts(Options{Hosts: []string{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, hosts)
}

func TestCollectHostsFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hosts.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n# comment\n\nb\n"), 0o644))

	hosts, err := collectHosts(Options{HostsFile: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, hosts)
}

func TestCollectHostsRequiresSource(t *testing.T) {
	_, err := collectHosts(Options{})
	assert.Error(t, err)
}

func TestBuildCommandRequiresArgsOrScript(t *testing.T) {
	_, err := buildCommand(Options{})
	assert.Error(t, err)
}

func TestBuildCommandFromSSHArgs(t *testing.T) {
	cmd, err := buildCommand(Options{SSHArgs: []string{"uptime"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"uptime"}, cmd)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 7, ExitCode(&exitError{code: 7}))
	assert.Equal(t, 1, ExitCode(assertErr{}))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
