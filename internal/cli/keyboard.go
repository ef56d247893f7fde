package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ChuLiYu/ssh-para/internal/supervisor"
	"golang.org/x/term"
)

// readKeyboard puts stdin into raw mode and translates single
// keypresses into supervisor Commands, per spec.md §6: 'a' aborts
// remaining work, 'p'/'r' pause/resume, 'k' prompts for a slot number
// then kills it. It returns once stdin closes or entering raw mode
// fails, leaving keyboard control to Ctrl-C alone in that case.
func readKeyboard(commands chan<- supervisor.Command) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}
		switch buf[0] {
		case 'a':
			commands <- supervisor.Command{Kind: supervisor.CmdAbort}
		case 'p':
			commands <- supervisor.Command{Kind: supervisor.CmdPause}
		case 'r':
			commands <- supervisor.Command{Kind: supervisor.CmdResume}
		case 'k':
			fmt.Fprint(os.Stderr, "\r\nslot to kill: ")
			slot, ok := readSlotNumber(os.Stdin)
			if ok {
				commands <- supervisor.Command{Kind: supervisor.CmdKill, Slot: slot}
			}
		case 3: // Ctrl-C while in raw mode: the terminal sends no SIGINT, so raise it here for the SIGINT handler
			if p, err := os.FindProcess(os.Getpid()); err == nil {
				_ = p.Signal(os.Interrupt)
			}
			commands <- supervisor.Command{Kind: supervisor.CmdAbort}
		}
	}
}

// readSlotNumber reads digits up to a non-digit or newline and parses
// them as a worker slot index.
func readSlotNumber(f *os.File) (int, bool) {
	var digits []byte
	one := make([]byte, 1)
	for len(digits) < 6 {
		n, err := f.Read(one)
		if err != nil || n == 0 {
			break
		}
		if one[0] < '0' || one[0] > '9' {
			break
		}
		digits = append(digits, one[0])
	}
	if len(digits) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(string(digits))
	if err != nil {
		return 0, false
	}
	return n, true
}
