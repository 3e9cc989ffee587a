package terminal

import (
	"fmt"
	"os"
	"sync"

	"github.com/muesli/cancelreader"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// fileBackend implements Backend over an input/output file pair.
// Platform differences live in terminalWidth and enableOutputProcessing.
type fileBackend struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	log   *zap.Logger

	mu            sync.Mutex
	oldTerm       *term.State
	raw           bool
	restoreOutput func() error
}

// NewStdio creates a backend on the process stdin/stdout
func NewStdio(log *zap.Logger) Backend {
	return NewFileBackend(os.Stdin, os.Stdout, log)
}

// NewFileBackend creates a backend reading from in and rendering to out.
// A nil logger disables logging.
func NewFileBackend(in, out *os.File, log *zap.Logger) Backend {
	if log == nil {
		log = zap.NewNop()
	}
	return &fileBackend{
		in:    in,
		out:   out,
		inFd:  int(in.Fd()),
		outFd: int(out.Fd()),
		log:   log.Named("terminal"),
	}
}

func (b *fileBackend) EnterRawMode() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Already raw: the saved state is the true original, never overwrite it
	if b.raw {
		return nil
	}

	if !term.IsTerminal(b.inFd) {
		return ErrNotATerminal
	}

	old, err := term.MakeRaw(b.inFd)
	if err != nil {
		return controlErr("enter raw mode", err)
	}

	restore, err := enableOutputProcessing(b.out)
	if err != nil {
		// Roll back input so a failed entry leaves the terminal untouched
		_ = term.Restore(b.inFd, old)
		return controlErr("set output mode", err)
	}

	b.oldTerm = old
	b.restoreOutput = restore
	b.raw = true
	b.log.Debug("raw mode entered", zap.Int("fd", b.inFd))
	return nil
}

func (b *fileBackend) ExitRawMode() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.raw {
		return nil
	}

	// Best effort: the backend reports cooked mode even if an OS call fails
	b.raw = false
	err := term.Restore(b.inFd, b.oldTerm)
	if b.restoreOutput != nil {
		if oerr := b.restoreOutput(); oerr != nil && err == nil {
			err = oerr
		}
		b.restoreOutput = nil
	}
	b.oldTerm = nil

	if err != nil {
		b.log.Warn("raw mode restore failed", zap.Error(err))
		return controlErr("restore", err)
	}
	b.log.Debug("raw mode exited", zap.Int("fd", b.inFd))
	return nil
}

func (b *fileBackend) IsRawMode() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw
}

func (b *fileBackend) Width() int {
	if w := terminalWidth(b.outFd); w > 0 {
		return w
	}
	// Output redirected: the input tty still knows the geometry
	if w := terminalWidth(b.inFd); w > 0 {
		return w
	}
	return defaultWidth
}

func (b *fileBackend) Write(p []byte) (int, error) {
	return b.out.Write(p)
}

func (b *fileBackend) NewSource() (Source, error) {
	r, err := cancelreader.NewReader(b.in)
	if err != nil {
		return nil, fmt.Errorf("open input reader: %w", err)
	}
	return r, nil
}
