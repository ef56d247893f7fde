// Package ansiterm strips terminal escape sequences from remote output
// before it is logged or tailed, so run-log files and the live view stay
// readable even when a remote command colors its own output.
package ansiterm

import "regexp"

// escape matches CSI-style sequences: cursor/color/erase codes with up
// to five numeric parameters, plus the bare forms curl/zsh prompts emit.
// The trailing character class is ported byte-for-byte from the original
// ANSI_ESCAPE pattern, including its literal "|" member.
var escape = regexp.MustCompile(`(\x1b\[\??([0-9]{1,2};){0,4}[0-9]{1,3}[m|Klh]|\x1b\[[0-9;]*[mGKHF])`)

// Strip removes ANSI escape sequences from b, returning a new slice.
func Strip(b []byte) []byte {
	return escape.ReplaceAll(b, nil)
}

// StripString is Strip for strings.
func StripString(s string) string {
	return escape.ReplaceAllString(s, "")
}
