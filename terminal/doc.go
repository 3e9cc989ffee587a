// Package terminal provides raw-mode terminal control and keystroke decoding for line editing.
//
// Features:
//   - Raw mode enter/exit with idempotent restore (termios on Unix, console modes on Windows)
//   - Cancellable background byte reader with a bounded FIFO queue
//   - Escape sequence decoding with lone-ESC disambiguation
//   - Process-wide restore on SIGTERM/SIGHUP/SIGQUIT
//   - Minimal ANSI cursor movement and erase output
//
// This package bypasses terminfo/termcap entirely and assumes an ANSI/VT100 vocabulary.
package terminal
