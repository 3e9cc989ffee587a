package termtest

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Screen emulates the subset of a VT100 a line editor drives: printable runes with
// deferred wrap, CR, LF, CSI A/B/C/D/H/J/K. Rows grow downward without limit, so
// scrolling never discards content.
type Screen struct {
	mu      sync.Mutex
	width   int
	rows    [][]rune
	row     int
	col     int
	pending bool
}

// NewScreen creates a blank screen. Non-positive width means no wrapping.
func NewScreen(width int) *Screen {
	s := &Screen{}
	s.Resize(width)
	s.rows = [][]rune{s.blankRow()}
	return s
}

// Resize changes the width without reflowing existing rows
func (s *Screen) Resize(width int) {
	if width <= 0 {
		width = 1 << 16
	}
	s.width = width
}

func (s *Screen) blankRow() []rune {
	return []rune{}
}

func (s *Screen) ensureRow(r int) {
	for len(s.rows) <= r {
		s.rows = append(s.rows, s.blankRow())
	}
}

func (s *Screen) setCell(r, c int, ch rune) {
	s.ensureRow(r)
	row := s.rows[r]
	for len(row) <= c {
		row = append(row, ' ')
	}
	row[c] = ch
	s.rows[r] = row
}

func cellWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		return 1
	}
	return w
}

// Write applies terminal output
func (s *Screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < len(p); {
		b := p[i]
		switch {
		case b == 0x1b && i+1 < len(p) && p[i+1] == '[':
			j := i + 2
			n := 0
			hasN := false
			for j < len(p) && p[j] >= '0' && p[j] <= '9' {
				n = n*10 + int(p[j]-'0')
				hasN = true
				j++
			}
			if j >= len(p) {
				return len(p), nil
			}
			s.csi(p[j], n, hasN)
			i = j + 1
		case b == '\r':
			s.col = 0
			s.pending = false
			i++
		case b == '\n':
			s.row++
			s.ensureRow(s.row)
			s.pending = false
			i++
		case b < 0x20:
			i++
		default:
			r, size := utf8.DecodeRune(p[i:])
			s.print(r)
			i += size
		}
	}
	return len(p), nil
}

func (s *Screen) print(r rune) {
	w := cellWidth(r)
	if s.pending {
		s.row++
		s.col = 0
		s.pending = false
	}
	if s.col+w > s.width && s.col > 0 {
		s.row++
		s.col = 0
	}
	s.setCell(s.row, s.col, r)
	if w == 2 {
		s.setCell(s.row, s.col+1, 0)
	}
	s.col += w
	if s.col >= s.width {
		s.col = s.width - 1
		s.pending = true
	}
}

func (s *Screen) csi(final byte, n int, hasN bool) {
	if !hasN || n == 0 {
		n = 1
	}
	switch final {
	case 'A':
		s.row -= n
		if s.row < 0 {
			s.row = 0
		}
		s.pending = false
	case 'B':
		s.row += n
		s.ensureRow(s.row)
		s.pending = false
	case 'C':
		s.col += n
		if s.col > s.width-1 {
			s.col = s.width - 1
		}
		s.pending = false
	case 'D':
		s.col -= n
		if s.col < 0 {
			s.col = 0
		}
		s.pending = false
	case 'H':
		s.row, s.col, s.pending = 0, 0, false
	case 'K':
		s.eraseRight(s.row, s.col)
	case 'J':
		if hasN && n == 2 {
			s.rows = [][]rune{s.blankRow()}
			return
		}
		s.eraseRight(s.row, s.col)
		if s.row+1 < len(s.rows) {
			s.rows = s.rows[:s.row+1]
		}
	}
}

func (s *Screen) eraseRight(r, c int) {
	s.ensureRow(r)
	if c < len(s.rows[r]) {
		s.rows[r] = s.rows[r][:c]
	}
}

// Lines returns the rows with trailing blanks trimmed and trailing empty rows dropped
func (s *Screen) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.rows))
	for _, row := range s.rows {
		var sb strings.Builder
		for _, r := range row {
			if r == 0 {
				continue
			}
			sb.WriteRune(r)
		}
		out = append(out, strings.TrimRight(sb.String(), " "))
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

// Cursor returns the cursor row and column
func (s *Screen) Cursor() (row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.row, s.col
}
