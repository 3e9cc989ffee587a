package terminal_test

import (
	"os"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/lixenwraith/readline/terminal"
)

// openPTY returns a pseudo-terminal pair or skips the test
func openPTY(t *testing.T) (ptmx, tty *os.File) {
	t.Helper()
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Skipf("pty unavailable: %v", err)
	}
	t.Cleanup(func() {
		tty.Close()
		ptmx.Close()
	})
	return ptmx, tty
}

func termios(t *testing.T, f *os.File) *unix.Termios {
	t.Helper()
	tio, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)
	require.NoError(t, err)
	return tio
}

// TestFileBackendRawMode verifies the raw attribute set and its restoration
func TestFileBackendRawMode(t *testing.T) {
	_, tty := openPTY(t)
	orig := termios(t, tty)
	require.NotZero(t, orig.Lflag&unix.ICANON, "pty should start canonical")

	be := terminal.NewFileBackend(tty, tty, nil)
	require.NoError(t, be.EnterRawMode())
	assert.True(t, be.IsRawMode())

	raw := termios(t, tty)
	assert.Zero(t, raw.Lflag&(unix.ICANON|unix.ECHO|unix.ECHONL|unix.ISIG|unix.IEXTEN), "lflag")
	assert.Zero(t, raw.Iflag&(unix.IGNBRK|unix.BRKINT|unix.PARMRK|unix.ISTRIP|unix.INLCR|unix.IGNCR|unix.ICRNL|unix.IXON), "iflag")
	assert.Zero(t, raw.Oflag&unix.OPOST, "oflag")
	assert.Equal(t, uint32(unix.CS8), raw.Cflag&unix.CSIZE)
	assert.Zero(t, raw.Cflag&unix.PARENB)
	assert.Equal(t, uint8(1), raw.Cc[unix.VMIN])
	assert.Equal(t, uint8(0), raw.Cc[unix.VTIME])

	// Re-entering must not capture the raw state as the original
	require.NoError(t, be.EnterRawMode())

	require.NoError(t, be.ExitRawMode())
	assert.False(t, be.IsRawMode())
	restored := termios(t, tty)
	assert.Equal(t, orig.Lflag, restored.Lflag)
	assert.Equal(t, orig.Iflag, restored.Iflag)
	assert.Equal(t, orig.Oflag, restored.Oflag)

	require.NoError(t, be.ExitRawMode(), "exit is idempotent")
}

// TestFileBackendNotATerminal verifies non-interactive input is rejected
func TestFileBackendNotATerminal(t *testing.T) {
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	be := terminal.NewFileBackend(pr, pw, nil)
	assert.ErrorIs(t, be.EnterRawMode(), terminal.ErrNotATerminal)
	assert.False(t, be.IsRawMode())
	assert.NoError(t, be.ExitRawMode())
	assert.Equal(t, 80, be.Width(), "pipe falls back to the default width")
}

// TestFileBackendWidth verifies the width follows the pty window size
func TestFileBackendWidth(t *testing.T) {
	ptmx, tty := openPTY(t)
	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 132}))

	be := terminal.NewFileBackend(tty, tty, nil)
	assert.Equal(t, 132, be.Width())

	require.NoError(t, pty.Setsize(ptmx, &pty.Winsize{Rows: 24, Cols: 40}))
	assert.Equal(t, 40, be.Width())
}

// TestFileBackendSource verifies keystrokes written to the master reach the reader
// in raw mode, and that cancellation wakes an idle tty read
func TestFileBackendSource(t *testing.T) {
	ptmx, tty := openPTY(t)

	be := terminal.NewFileBackend(tty, tty, nil)
	require.NoError(t, be.EnterRawMode())
	defer be.ExitRawMode()

	src, err := be.NewSource()
	require.NoError(t, err)
	r := terminal.NewByteReader(src, nil)
	d := terminal.NewDecoder(r, 0, nil)

	_, err = ptmx.Write([]byte("a\x1b[A\x03"))
	require.NoError(t, err)

	assert.Equal(t, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: 'a'}, d.Next())
	assert.Equal(t, terminal.Event{Type: terminal.EventKey, Key: terminal.KeyUp}, d.Next())
	assert.Equal(t, terminal.Event{Type: terminal.EventInterrupt}, d.Next(), "ISIG off: Ctrl+C arrives as a byte")

	done := make(chan struct{})
	go func() {
		r.Cancel()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Cancel did not wake the tty read")
	}
}
