//go:build windows

package terminal

import (
	"os"
	"syscall"
)

// guardSignals are the console events Go surfaces as signals
var guardSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// reraise exits: Windows has no signal re-delivery
func reraise(_ os.Signal) {
	os.Exit(1)
}
