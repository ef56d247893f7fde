package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListRunsPrintsRunDirectories(t *testing.T) {
	base := t.TempDir()
	run := filepath.Join(base, "100")
	require.NoError(t, os.MkdirAll(run, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(run, "ssh-para.result"), []byte("runs: 1/1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(run, "ssh-para.command"), []byte("Hostsfile: - Command: ssh uptime\n"), 0o644))

	require.NoError(t, ListRuns(base, ""))
}

func TestShowLogsPrintsMatchingFiles(t *testing.T) {
	base := t.TempDir()
	run := filepath.Join(base, "latest")
	require.NoError(t, os.MkdirAll(run, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(run, "a.out"), []byte("hello from a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(run, "b.out"), []byte("hello from b\n"), 0o644))

	require.NoError(t, ShowLogs(base, "", []string{"*.out"}))
}

func TestShowLogsMissingPatternIsNotFatal(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "latest"), 0o755))
	require.NoError(t, ShowLogs(base, "", []string{"*.nonexistent"}))
}
