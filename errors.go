package readline

import (
	"errors"

	"github.com/lixenwraith/readline/terminal"
)

var (
	// ErrEOF is returned by Readline when input ends: Ctrl+D on an empty line,
	// a closed input stream, or a closed session
	ErrEOF = errors.New("readline: end of input")

	// ErrInterrupt is returned by Readline on Ctrl+C. The partial line is discarded
	// and the session stays usable.
	ErrInterrupt = errors.New("readline: interrupted")

	// ErrNotATerminal is returned when input is not an interactive terminal
	ErrNotATerminal = terminal.ErrNotATerminal
)

// TerminalControlError reports a failed terminal attribute get/set
type TerminalControlError = terminal.ControlError
