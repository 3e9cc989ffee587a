// Package edit holds the in-memory line being edited and renders it to the terminal.
//
// Buffer keeps content and cursor with the invariant 0 <= cursor <= len(content).
// Layout turns a buffer into a Frame of wrapped rows, and RenderDiff produces the
// output that moves the terminal from one Frame to the next.
package edit

import (
	"unicode"
)

// Continuation is the rune stored in content where the user requested a new line.
// Rows after it are rendered with the alternate prompt.
const Continuation = '\n'

// isWordChar returns true for word-constituent characters
func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Buffer holds editable line state
type Buffer struct {
	content     []rune
	cursor      int // Position before which the cursor sits (0 = before first rune)
	prompt      string
	altPrompt   string
	placeholder string
}

// NewBuffer creates an empty buffer with the given prompts
func NewBuffer(prompt, altPrompt, placeholder string) *Buffer {
	return &Buffer{
		prompt:      prompt,
		altPrompt:   altPrompt,
		placeholder: placeholder,
	}
}

// --- Value access ---

// String returns the content
func (b *Buffer) String() string {
	return string(b.content)
}

// Runes returns a copy of the content
func (b *Buffer) Runes() []rune {
	out := make([]rune, len(b.content))
	copy(out, b.content)
	return out
}

// Len returns the content length in runes
func (b *Buffer) Len() int {
	return len(b.content)
}

// Cursor returns the cursor offset in runes
func (b *Buffer) Cursor() int {
	return b.cursor
}

// Empty reports whether the buffer has no content
func (b *Buffer) Empty() bool {
	return len(b.content) == 0
}

// Prompts returns prompt, alternate prompt and placeholder
func (b *Buffer) Prompts() (prompt, altPrompt, placeholder string) {
	return b.prompt, b.altPrompt, b.placeholder
}

// ReplaceContent sets the content and moves the cursor to the end
func (b *Buffer) ReplaceContent(s string) {
	b.content = []rune(s)
	b.cursor = len(b.content)
}

// Clear empties the buffer
func (b *Buffer) Clear() {
	b.content = b.content[:0]
	b.cursor = 0
}

// --- Character insertion ---

// Insert adds r at the cursor and advances the cursor
func (b *Buffer) Insert(r rune) {
	b.content = append(b.content, 0)
	copy(b.content[b.cursor+1:], b.content[b.cursor:])
	b.content[b.cursor] = r
	b.cursor++
}

// InsertString adds s at the cursor
func (b *Buffer) InsertString(s string) {
	for _, r := range s {
		b.Insert(r)
	}
}

// InsertContinuation breaks the line at the cursor; the next row uses the alternate prompt
func (b *Buffer) InsertContinuation() {
	b.Insert(Continuation)
}

// --- Character deletion ---

// DeleteBackward removes the rune before the cursor, false at buffer start
func (b *Buffer) DeleteBackward() bool {
	if b.cursor == 0 {
		return false
	}
	b.content = append(b.content[:b.cursor-1], b.content[b.cursor:]...)
	b.cursor--
	return true
}

// DeleteForward removes the rune at the cursor, false at buffer end
func (b *Buffer) DeleteForward() bool {
	if b.cursor >= len(b.content) {
		return false
	}
	b.content = append(b.content[:b.cursor], b.content[b.cursor+1:]...)
	return true
}

// --- Word deletion ---

// DeleteWordBackward removes the word before the cursor
func (b *Buffer) DeleteWordBackward() bool {
	if b.cursor == 0 {
		return false
	}
	start := b.wordStart()
	if start == b.cursor {
		start = b.cursor - 1
	}
	b.content = append(b.content[:start], b.content[b.cursor:]...)
	b.cursor = start
	return true
}

// DeleteToEnd removes from the cursor to the end
func (b *Buffer) DeleteToEnd() bool {
	if b.cursor >= len(b.content) {
		return false
	}
	b.content = b.content[:b.cursor]
	return true
}

// DeleteToStart removes from the start to the cursor
func (b *Buffer) DeleteToStart() bool {
	if b.cursor == 0 {
		return false
	}
	b.content = append(b.content[:0], b.content[b.cursor:]...)
	b.cursor = 0
	return true
}

// --- Cursor movement ---

// MoveCursor moves by delta runes, clamped to the buffer bounds
func (b *Buffer) MoveCursor(delta int) {
	c := b.cursor + delta
	if c < 0 {
		c = 0
	}
	if c > len(b.content) {
		c = len(b.content)
	}
	b.cursor = c
}

// MoveToStart moves the cursor to the beginning
func (b *Buffer) MoveToStart() {
	b.cursor = 0
}

// MoveToEnd moves the cursor to the end
func (b *Buffer) MoveToEnd() {
	b.cursor = len(b.content)
}

// MoveWordLeft moves the cursor to the previous word boundary
func (b *Buffer) MoveWordLeft() {
	b.cursor = b.wordStart()
}

// MoveWordRight moves the cursor to the next word boundary
func (b *Buffer) MoveWordRight() {
	c := b.cursor
	// Skip non-word chars, then the word
	for c < len(b.content) && !isWordChar(b.content[c]) {
		c++
	}
	for c < len(b.content) && isWordChar(b.content[c]) {
		c++
	}
	b.cursor = c
}

// wordStart returns the start of the word before the cursor
func (b *Buffer) wordStart() int {
	c := b.cursor
	for c > 0 && !isWordChar(b.content[c-1]) {
		c--
	}
	for c > 0 && isWordChar(b.content[c-1]) {
		c--
	}
	return c
}
