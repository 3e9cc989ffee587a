// Package history keeps previously accepted lines for recall.
package history

// DefaultCapacity is used when a non-positive capacity is requested
const DefaultCapacity = 100

// List is a bounded, oldest-first list of accepted lines with a recall cursor.
// The cursor equals Len() while the live buffer is being edited.
type List struct {
	entries  []string
	cursor   int
	capacity int
}

// New creates an empty list holding at most capacity entries
func New(capacity int) *List {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &List{
		entries:  make([]string, 0, min(capacity, 64)),
		capacity: capacity,
	}
}

// Add appends line unless it is empty or equal to the newest entry.
// The oldest entry is evicted at capacity. The recall cursor is reset.
func (l *List) Add(line string) bool {
	defer l.ResetCursor()

	if line == "" {
		return false
	}
	if n := len(l.entries); n > 0 && l.entries[n-1] == line {
		return false
	}
	if len(l.entries) >= l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:len(l.entries)-1]
	}
	l.entries = append(l.entries, line)
	return true
}

// Prev moves recall one entry older and returns it.
// At the oldest entry it returns that entry again; false only when the list is empty.
func (l *List) Prev() (string, bool) {
	if len(l.entries) == 0 {
		return "", false
	}
	if l.cursor > 0 {
		l.cursor--
	}
	return l.entries[l.cursor], true
}

// Next moves recall one entry newer. It returns false once the cursor is back at
// Len(), meaning the caller should restore its live buffer.
func (l *List) Next() (string, bool) {
	if l.cursor < len(l.entries) {
		l.cursor++
	}
	if l.cursor == len(l.entries) {
		return "", false
	}
	return l.entries[l.cursor], true
}

// ResetCursor abandons recall
func (l *List) ResetCursor() {
	l.cursor = len(l.entries)
}

// Recalling reports whether an entry is currently being recalled
func (l *List) Recalling() bool {
	return l.cursor < len(l.entries)
}

// Cursor returns the recall position in [0, Len()]
func (l *List) Cursor() int {
	return l.cursor
}

// Len returns the number of entries
func (l *List) Len() int {
	return len(l.entries)
}

// Capacity returns the maximum number of entries
func (l *List) Capacity() int {
	return l.capacity
}

// Entries returns a copy of the entries, oldest first
func (l *List) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
