package terminal

import (
	"bytes"
)

// Pre-allocated ANSI sequence fragments (avoid allocations during render)
// Only cursor movement and erase sequences are ever emitted.
var (
	csi = []byte("\x1b[")

	// Erase
	csiEraseLineRight = []byte("\x1b[K")
	csiEraseDown      = []byte("\x1b[J")
	csiClearScreen    = []byte("\x1b[H\x1b[2J")

	crlf = []byte("\r\n")
)

// writeInt writes a non-negative integer without allocation
// Optimized for terminal values (0-999 typical max)
func writeInt(w *bytes.Buffer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [20]byte
	i := len(buf) - 1
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorMove writes CSI n <final>, the count is omitted when 1
func writeCursorMove(w *bytes.Buffer, n int, final byte) {
	if n <= 0 {
		return
	}
	w.Write(csi)
	if n > 1 {
		writeInt(w, n)
	}
	w.WriteByte(final)
}

// WriteCursorUp moves the cursor up n rows
func WriteCursorUp(w *bytes.Buffer, n int) {
	writeCursorMove(w, n, 'A')
}

// WriteCursorDown moves the cursor down n rows without scrolling
func WriteCursorDown(w *bytes.Buffer, n int) {
	writeCursorMove(w, n, 'B')
}

// WriteCursorForward moves the cursor right n columns
func WriteCursorForward(w *bytes.Buffer, n int) {
	writeCursorMove(w, n, 'C')
}

// WriteCursorBack moves the cursor left n columns
func WriteCursorBack(w *bytes.Buffer, n int) {
	writeCursorMove(w, n, 'D')
}

// WriteCarriageReturn moves the cursor to column 0, also clearing a pending wrap
func WriteCarriageReturn(w *bytes.Buffer) {
	w.WriteByte('\r')
}

// WriteNewline moves to column 0 of the next row, scrolling at the bottom
// OPOST is off in raw mode so LF alone would keep the column
func WriteNewline(w *bytes.Buffer) {
	w.Write(crlf)
}

// WriteEraseLineRight erases from the cursor to the end of the row
func WriteEraseLineRight(w *bytes.Buffer) {
	w.Write(csiEraseLineRight)
}

// WriteEraseDown erases from the cursor to the end of the screen
func WriteEraseDown(w *bytes.Buffer) {
	w.Write(csiEraseDown)
}

// WriteClearScreen homes the cursor and erases the whole screen
func WriteClearScreen(w *bytes.Buffer) {
	w.Write(csiClearScreen)
}
