package sshrun

import (
	"fmt"
	"os"
	"strings"
)

// scriptTemplate wraps an inlined script so the remote shell writes it
// to a private temp path, executes it with the caller's arguments, and
// always cleans the temp file up regardless of how the script exits.
// Failure to materialize the script exits 255, the same code a real SSH
// transport failure produces, so the supervisor's terminal handling
// doesn't need to special-case "script never ran".
const scriptTemplate = `cat - >/tmp/.ssh-para.$$ <<'__ssh_para_EOF'
%s
__ssh_para_EOF
[ $? = 0 ] || { echo "ssh-para: failed to write remote script" >&2; rm -f /tmp/.ssh-para.$$; exit 255; }
chmod u+x /tmp/.ssh-para.$$
/tmp/.ssh-para.$$ %s
e=$?
rm -f /tmp/.ssh-para.$$
exit $e
`

// ScriptCommand reads scriptPath and returns the single-element command
// slice (one shell string) that reproduces it on the remote end.
func ScriptCommand(scriptPath string, args []string) ([]string, error) {
	content, err := os.ReadFile(scriptPath)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", scriptPath, err)
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = shellQuote(a)
	}
	remote := fmt.Sprintf(scriptTemplate, content, strings.Join(quoted, " "))
	return []string{remote}, nil
}

// shellQuote wraps s in single quotes, escaping any embedded single
// quote the POSIX-portable way: close the quote, emit an escaped quote,
// reopen the quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
