// Package tail implements a backward byte-scan reader that returns the
// last non-empty, ANSI-stripped line of a growing log file. It is used
// by the supervisor's live view to show a one-line preview of a running
// job's output without reading the whole file on every tick.
package tail

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/ChuLiYu/ssh-para/internal/ansiterm"
)

// maxScanBytes bounds how far back LastLine will seek looking for a
// non-empty line, so a file full of blank lines can't make this O(file).
const maxScanBytes = 1000

// LastLine seeks backward from the end of f looking for the last line
// that is more than a bare line terminator, then returns it with
// whitespace trimmed and ANSI escapes stripped (a line of only spaces or
// escapes therefore comes back empty). It gives up and returns whatever it last read once it hits
// the start of the file or maxScanBytes, whichever comes first.
func LastLine(f *os.File) (string, error) {
	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return "", err
	}

	cur := end
	scanned := int64(0)
	line := "\n"
	one := make([]byte, 1)

	for (line == "\n" || line == "\r") && scanned < maxScanBytes {
		hitStart := false
		for {
			n, rerr := f.ReadAt(one, cur)
			if rerr != nil && rerr != io.EOF {
				return "", rerr
			}
			isTerm := false
			if n == 1 {
				cur++
				isTerm = one[0] == '\n' || one[0] == '\r'
			}
			if isTerm {
				break
			}
			cur -= 2
			scanned++
			if cur < 0 {
				hitStart = true
				break
			}
		}

		if hitStart {
			line, err = readLineAt(f, 0)
			if err != nil && err != io.EOF {
				return "", err
			}
			break
		}

		line, err = readLineAt(f, cur)
		if err != nil && err != io.EOF {
			return "", err
		}

		next := cur - 4
		if next < 0 {
			break
		}
		cur = next
	}

	return ansiterm.StripString(strings.TrimSpace(line)), nil
}

func readLineAt(f *os.File, pos int64) (string, error) {
	if _, err := f.Seek(pos, io.SeekStart); err != nil {
		return "", err
	}
	return bufio.NewReader(f).ReadString('\n')
}
