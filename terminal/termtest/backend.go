package termtest

import (
	"bytes"
	"errors"
	"sync"

	"github.com/lixenwraith/readline/terminal"
)

// Backend is a terminal.Backend recording raw mode transitions and output
type Backend struct {
	mu sync.Mutex

	raw        bool
	enterCalls int
	exitCalls  int
	enterErr   error
	exitErr    error

	width  int
	out    bytes.Buffer
	screen *Screen

	source      *Source
	sourceErr   error
	sourceCount int
}

// NewBackend creates a backend of the given width with a fresh Source
func NewBackend(width int) *Backend {
	return &Backend{
		width:  width,
		source: NewSource(),
		screen: NewScreen(width),
	}
}

// Source returns the input source handed out by NewSource
func (b *Backend) Source() *Source {
	return b.source
}

// FailEnter makes EnterRawMode return err
func (b *Backend) FailEnter(err error) {
	b.mu.Lock()
	b.enterErr = err
	b.mu.Unlock()
}

// FailExit makes ExitRawMode return err after leaving raw mode
func (b *Backend) FailExit(err error) {
	b.mu.Lock()
	b.exitErr = err
	b.mu.Unlock()
}

// FailSource makes NewSource return err
func (b *Backend) FailSource(err error) {
	b.mu.Lock()
	b.sourceErr = err
	b.mu.Unlock()
}

func (b *Backend) EnterRawMode() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.enterErr != nil {
		return b.enterErr
	}
	if b.raw {
		return nil
	}
	b.raw = true
	b.enterCalls++
	return nil
}

func (b *Backend) ExitRawMode() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.raw {
		return nil
	}
	b.raw = false
	b.exitCalls++
	if b.exitErr != nil {
		return &terminal.ControlError{Op: "restore", Err: b.exitErr}
	}
	return nil
}

func (b *Backend) IsRawMode() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw
}

// Transitions returns how many times raw mode was entered and exited
func (b *Backend) Transitions() (enters, exits int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.enterCalls, b.exitCalls
}

func (b *Backend) Width() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width
}

// SetWidth changes the reported width
func (b *Backend) SetWidth(w int) {
	b.mu.Lock()
	b.width = w
	b.screen.Resize(w)
	b.mu.Unlock()
}

func (b *Backend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out.Write(p)
	b.screen.Write(p)
	return len(p), nil
}

// Output returns everything written so far
func (b *Backend) Output() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.out.String()
}

// Screen returns the emulated screen fed by Write
func (b *Backend) Screen() *Screen {
	return b.screen
}

func (b *Backend) NewSource() (terminal.Source, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sourceErr != nil {
		return nil, b.sourceErr
	}
	b.sourceCount++
	if b.sourceCount > 1 {
		return nil, errors.New("termtest: source already opened")
	}
	return b.source, nil
}
