package edit

import (
	"bytes"
	"math"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/readline/terminal"
)

// cell is one glyph on screen
type cell struct {
	r rune
	w int
}

// Frame is the visible state of a rendered buffer: prompt and content wrapped into
// rows of at most Width columns, plus the cursor position within them.
// Row 0 is the row the prompt starts on.
type Frame struct {
	Width     int
	CursorRow int
	CursorCol int
	rows      [][]cell
}

// RuneWidth returns the columns r occupies; zero-width and control runes count as one
// so the cursor always moves one column per rune
func RuneWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// Rows returns the rows as strings
func (f Frame) Rows() []string {
	out := make([]string, len(f.rows))
	for i, row := range f.rows {
		rs := make([]rune, len(row))
		for j, c := range row {
			rs[j] = c.r
		}
		out[i] = string(rs)
	}
	return out
}

// Height returns the number of rows
func (f Frame) Height() int {
	return len(f.rows)
}

// rowWidth returns the columns used by a row
func rowWidth(row []cell) int {
	w := 0
	for _, c := range row {
		w += c.w
	}
	return w
}

// layoutBuilder wraps cells into rows
type layoutBuilder struct {
	width int
	rows  [][]cell
	col   int
}

func (l *layoutBuilder) newRow() {
	l.rows = append(l.rows, nil)
	l.col = 0
}

// put appends a cell, wrapping when it does not fit in the current row
func (l *layoutBuilder) put(r rune) {
	w := RuneWidth(r)
	if l.col+w > l.width && l.col > 0 {
		l.newRow()
	}
	last := len(l.rows) - 1
	l.rows[last] = append(l.rows[last], cell{r: r, w: w})
	l.col += w
}

func (l *layoutBuilder) putString(s string) {
	for _, r := range s {
		l.put(r)
	}
}

// nextPos returns where the next cell would land, w being its width
func (l *layoutBuilder) nextPos(w int) (int, int) {
	row := len(l.rows) - 1
	if l.col >= l.width || (l.col+w > l.width && l.col > 0) {
		return row + 1, 0
	}
	return row, l.col
}

// Layout renders the buffer for a terminal width. Non-positive width disables wrapping.
func (b *Buffer) Layout(width int) Frame {
	return b.layout(width, true)
}

// LayoutCommitted renders the buffer as it stays on screen once accepted: no placeholder
func (b *Buffer) LayoutCommitted(width int) Frame {
	return b.layout(width, false)
}

func (b *Buffer) layout(width int, placeholder bool) Frame {
	if width <= 0 {
		width = math.MaxInt32
	}
	l := &layoutBuilder{width: width}
	l.newRow()
	l.putString(b.prompt)

	f := Frame{Width: width}

	if len(b.content) == 0 {
		f.CursorRow, f.CursorCol = l.nextPos(1)
		if placeholder {
			l.putString(b.placeholder)
		}
	} else {
		for i, r := range b.content {
			if i == b.cursor {
				f.CursorRow, f.CursorCol = l.nextPos(b.cursorCellWidth(r))
			}
			if r == Continuation {
				l.newRow()
				l.putString(b.altPrompt)
				continue
			}
			l.put(r)
		}
		if b.cursor == len(b.content) {
			f.CursorRow, f.CursorCol = l.nextPos(1)
		}
	}

	// Cursor past a full last row needs a row of its own
	for f.CursorRow >= len(l.rows) {
		l.newRow()
	}

	f.rows = l.rows
	return f
}

// cursorCellWidth is the width of the cell the cursor sits on
func (b *Buffer) cursorCellWidth(r rune) int {
	if r == Continuation {
		return 1
	}
	return RuneWidth(r)
}

// cursorPos tracks the terminal cursor while emitting output.
// pending marks the deferred-wrap state after writing the last column.
type cursorPos struct {
	row     int
	col     int
	pending bool
}

// moveTo emits the cursor movement from cur to (row, col); both rows must exist on screen
func moveTo(w *bytes.Buffer, width int, cur cursorPos, row, col int) cursorPos {
	if row != cur.row {
		if row < cur.row {
			terminal.WriteCursorUp(w, cur.row-row)
		} else {
			terminal.WriteCursorDown(w, row-cur.row)
		}
		cur.row = row
		if cur.pending {
			// Vertical motion clears the wrap flag, leaving the cursor on the last column
			cur.pending = false
			cur.col = width - 1
		}
	}

	if cur.pending || (col == 0 && cur.col != 0) {
		terminal.WriteCarriageReturn(w)
		cur.col = 0
		cur.pending = false
	}

	switch {
	case col > cur.col:
		terminal.WriteCursorForward(w, col-cur.col)
	case col < cur.col:
		terminal.WriteCursorBack(w, cur.col-col)
	}
	cur.col = col
	return cur
}

// writeCells prints cells from cur, which must be on the row they belong to
func writeCells(w *bytes.Buffer, width int, cur cursorPos, cells []cell) cursorPos {
	for _, c := range cells {
		w.WriteRune(c.r)
		cur.col += c.w
	}
	if cur.col >= width {
		cur.col = width - 1
		cur.pending = true
	}
	return cur
}

// normalizedRows treats an empty frame as one blank row with the cursor at its start
func normalizedRows(f Frame) [][]cell {
	if len(f.rows) == 0 {
		return [][]cell{nil}
	}
	return f.rows
}

func rowsEqual(a, b []cell) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RenderDiff returns the output that turns the screen showing prev, with the cursor at
// prev's cursor, into next. Unchanged leading rows and the common prefix of the first
// changed row are skipped; leftovers are erased. The zero Frame means nothing is drawn
// and the cursor sits at the start of a line.
func RenderDiff(prev, next Frame) []byte {
	var w bytes.Buffer
	prevRows := normalizedRows(prev)
	nextRows := normalizedRows(next)

	width := next.Width
	if width <= 0 {
		width = math.MaxInt32
	}
	cur := cursorPos{row: prev.CursorRow, col: prev.CursorCol}

	// Geometry changed: old rows no longer line up, redraw everything from the top
	if prev.Width != 0 && prev.Width != next.Width {
		if cur.row > 0 {
			terminal.WriteCursorUp(&w, cur.row)
		}
		terminal.WriteCarriageReturn(&w)
		terminal.WriteEraseDown(&w)
		prevRows = [][]cell{nil}
		cur = cursorPos{}
	}

	// First changed row
	r := 0
	for r < len(prevRows) && r < len(nextRows) && rowsEqual(prevRows[r], nextRows[r]) {
		r++
	}
	if r == len(prevRows) && r == len(nextRows) {
		moveTo(&w, width, cur, next.CursorRow, next.CursorCol)
		return w.Bytes()
	}

	if r < len(prevRows) {
		// Common prefix within the changed row
		c, col := 0, 0
		if r < len(nextRows) {
			pr, nr := prevRows[r], nextRows[r]
			for c < len(pr) && c < len(nr) && pr[c] == nr[c] {
				col += nr[c].w
				c++
			}
		}
		cur = moveTo(&w, width, cur, r, col)
		if r < len(nextRows) {
			cur = writeCells(&w, width, cur, nextRows[r][c:])
			if rowWidth(prevRows[r]) > cur.col && !cur.pending {
				terminal.WriteEraseLineRight(&w)
			}
		}
	} else {
		// prev is a prefix of next: continue below its last row
		cur = moveTo(&w, width, cur, r-1, 0)
		terminal.WriteNewline(&w)
		cur = cursorPos{row: r}
		cur = writeCells(&w, width, cur, nextRows[r])
	}

	for i := r + 1; i < len(nextRows); i++ {
		terminal.WriteNewline(&w)
		cur = cursorPos{row: i}
		cur = writeCells(&w, width, cur, nextRows[i])
		if i < len(prevRows) && rowWidth(prevRows[i]) > cur.col && !cur.pending {
			terminal.WriteEraseLineRight(&w)
		}
	}

	if len(prevRows) > len(nextRows) && r < len(nextRows) {
		// Old rows below the new last row
		if cur.pending {
			terminal.WriteNewline(&w)
			cur = cursorPos{row: cur.row + 1}
		}
		terminal.WriteEraseDown(&w)
	} else if r >= len(nextRows) {
		// Every next row matched but prev has extra rows
		cur = moveTo(&w, width, cur, len(nextRows), 0)
		terminal.WriteEraseDown(&w)
	}

	moveTo(&w, width, cur, next.CursorRow, next.CursorCol)
	return w.Bytes()
}

// CommitSequence returns the output that leaves the cursor at the start of the line
// below frame, ready for the program's own output
func CommitSequence(f Frame) []byte {
	var w bytes.Buffer
	width := f.Width
	if width <= 0 {
		width = math.MaxInt32
	}
	last := len(normalizedRows(f)) - 1
	moveTo(&w, width, cursorPos{row: f.CursorRow, col: f.CursorCol}, last, 0)
	terminal.WriteNewline(&w)
	return w.Bytes()
}
