package sshrun

import "strings"

// BuildArgv assembles the argument vector passed to exec.Command("ssh",
// ...): the fixed batch-mode flags, any operator-supplied SSH options
// from SSHP_OPTS, then the user's command (or the script wrapper).
func BuildArgv(host string, sshOpts, command []string) []string {
	argv := make([]string, 0, 6+len(sshOpts)+len(command))
	argv = append(argv, host, "-T", "-n", "-o", "BatchMode=yes")
	argv = append(argv, sshOpts...)
	argv = append(argv, command...)
	return argv
}

// FormatArgv renders the full ssh command line (including the "ssh"
// program name) for writing to <host>.ssh.
func FormatArgv(argv []string) string {
	full := append([]string{"ssh"}, argv...)
	return strings.Join(full, " ")
}
