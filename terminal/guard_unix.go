//go:build unix

package terminal

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// guardSignals are the termination signals intercepted while raw mode may be active
// SIGINT is absent: ISIG is off in raw mode, Ctrl+C arrives as a byte
var guardSignals = []os.Signal{syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}

// reraise re-delivers sig after the guard stopped listening. Handlers the host
// registered receive it; without any, the default action terminates the process
// with the status its parent expects.
func reraise(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		os.Exit(1)
	}
	if err := unix.Kill(unix.Getpid(), s); err != nil {
		os.Exit(128 + int(s))
	}
}
