//go:build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/term"
)

// terminalWidth returns the column count for fd, 0 if unknown
func terminalWidth(fd int) int {
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// enableOutputProcessing turns on VT sequence interpretation for the output console
// and returns a func restoring the previous mode
func enableOutputProcessing(out *os.File) (func() error, error) {
	h := windows.Handle(out.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return nil, err
	}
	if err := windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING); err != nil {
		return nil, err
	}
	return func() error {
		return windows.SetConsoleMode(h, mode)
	}, nil
}
