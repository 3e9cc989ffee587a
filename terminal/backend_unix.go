//go:build unix

package terminal

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminalWidth returns the column count for fd, 0 if unknown
func terminalWidth(fd int) int {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return 0
	}
	return int(ws.Col)
}

// enableOutputProcessing is a no-op on Unix: ANSI output needs no mode switch
func enableOutputProcessing(_ *os.File) (func() error, error) {
	return func() error { return nil }, nil
}
