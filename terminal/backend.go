package terminal

import (
	"io"
)

// Backend abstracts platform-specific terminal operations.
// Unix (termios) and Windows (console modes) variants share this contract;
// everything above this package depends only on the interface.
type Backend interface {
	// Raw mode
	// EnterRawMode captures the original attributes once and applies raw settings.
	// Calling it while already raw is a no-op.
	EnterRawMode() error
	// ExitRawMode restores the captured attributes. No-op if never raw.
	ExitRawMode() error
	IsRawMode() bool

	// Capabilities
	Width() int

	// I/O
	// Write sends bytes to the terminal output without buffering.
	io.Writer

	// NewSource opens a cancellable reader on the input descriptor.
	NewSource() (Source, error)
}

// Source is a blocking reader whose in-flight Read can be woken by Cancel.
// cancelreader.CancelReader satisfies it.
type Source interface {
	io.ReadCloser
	// Cancel wakes a blocked Read, returns false if the source cannot be cancelled
	Cancel() bool
}

// defaultWidth is used when the terminal size cannot be queried
const defaultWidth = 80
