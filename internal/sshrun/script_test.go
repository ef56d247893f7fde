package sshrun

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScriptCommandWrapsContentAndArgs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deploy.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0o644))

	cmd, err := ScriptCommand(path, []string{"v1.2", "it's fine"})
	require.NoError(t, err)
	require.Len(t, cmd, 1)
	require.Contains(t, cmd[0], "echo hi")
	require.Contains(t, cmd[0], "__ssh_para_EOF")
	require.Contains(t, cmd[0], "'v1.2'")
	require.Contains(t, cmd[0], `'it'\''s fine'`)
}

func TestScriptCommandMissingFile(t *testing.T) {
	_, err := ScriptCommand(filepath.Join(t.TempDir(), "nope.sh"), nil)
	require.Error(t, err)
}

func TestShellQuoteEscapesSingleQuote(t *testing.T) {
	require.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
