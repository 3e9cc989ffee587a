package terminal

import (
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey       EventType = iota
	EventEOF                 // Byte source closed
	EventInterrupt           // Interrupt control character (Ctrl+C)
)

func (t EventType) String() string {
	switch t {
	case EventKey:
		return "key"
	case EventEOF:
		return "eof"
	case EventInterrupt:
		return "interrupt"
	}
	return "unknown"
}

// Event represents one decoded keystroke
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// DefaultEscapeTimeout is the duration to wait after ESC to distinguish
// standalone ESC from escape sequence start
const DefaultEscapeTimeout = 50 * time.Millisecond

// maxEscapeLen caps an escape run (ESC excluded) before it is discarded
const maxEscapeLen = 16

type decodeState uint8

const (
	stateIdle decodeState = iota
	stateInEscape
)

// Decoder turns a byte stream into key events.
// Only the lone-ESC wait stalls on a timer; every other read blocks on the source.
type Decoder struct {
	src     ByteSource
	timeout time.Duration
	log     *zap.Logger

	state   decodeState
	partial []byte // Bytes after ESC in the current run

	// Byte read past a broken rune, decoded first by the next call
	pushed    byte
	hasPushed bool
}

// NewDecoder creates a decoder over src. Non-positive timeout selects DefaultEscapeTimeout.
func NewDecoder(src ByteSource, timeout time.Duration, log *zap.Logger) *Decoder {
	if timeout <= 0 {
		timeout = DefaultEscapeTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Decoder{
		src:     src,
		timeout: timeout,
		log:     log.Named("decoder"),
		partial: make([]byte, 0, maxEscapeLen),
	}
}

// Next blocks until one complete event is decoded.
// Unknown or overlong escape sequences are swallowed and decoding continues.
func (d *Decoder) Next() Event {
	defer d.reset()

	for {
		b, ok := d.readByte()
		if !ok {
			return Event{Type: EventEOF}
		}

		switch {
		case b == 0x1b:
			d.state = stateInEscape
			d.partial = d.partial[:0]
			if ev, ok := d.decodeEscape(); ok {
				return ev
			}
			d.reset()
		case b >= 0x80:
			return d.decodeUTF8(b)
		default:
			return controlEvent(b)
		}
	}
}

// readByte takes the pushed-back byte before reading the source
func (d *Decoder) readByte() (byte, bool) {
	if d.hasPushed {
		d.hasPushed = false
		return d.pushed, true
	}
	return d.src.ReadNext()
}

// unread hands b to the next call
func (d *Decoder) unread(b byte) {
	d.pushed = b
	d.hasPushed = true
}

// reset returns the machine to Idle so no partial run leaks into the next key
func (d *Decoder) reset() {
	d.state = stateIdle
	d.partial = d.partial[:0]
}

// decodeEscape consumes the bytes following ESC, false means the run was discarded
func (d *Decoder) decodeEscape() (Event, bool) {
	b, ok, timedOut := d.src.ReadNextTimeout(d.timeout)
	if timedOut || !ok {
		// Lone ESC; on closure the EOF surfaces on the next call
		return Event{Type: EventKey, Key: KeyEscape}, true
	}
	d.partial = append(d.partial, b)

	switch {
	case b == '[' || b == 'O':
		return d.decodeSequence(b)
	case b == 0x1b:
		return d.decodeAltEscape()
	case b == '\r' || b == '\n':
		// Alt+Enter requests a continuation line
		return Event{Type: EventKey, Key: KeyEnter, Modifiers: ModAlt}, true
	case b == 0x7f:
		return Event{Type: EventKey, Key: KeyBackspace, Modifiers: ModAlt}, true
	case b < 0x20:
		ev := controlEvent(b)
		ev.Modifiers |= ModAlt
		return ev, true
	case b < 0x7f:
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(b), Modifiers: ModAlt}, true
	default:
		ev := d.decodeUTF8(b)
		if ev.Type == EventKey {
			ev.Modifiers |= ModAlt
		}
		return ev, true
	}
}

// decodeSequence accumulates a CSI or SS3 run until its final byte
func (d *Decoder) decodeSequence(intro byte) (Event, bool) {
	for {
		c, ok := d.src.ReadNext()
		if !ok {
			return Event{Type: EventEOF}, true
		}
		d.partial = append(d.partial, c)

		if isFinalByte(c) {
			seq := d.partial[1:]
			var key Key
			var mod Modifier
			var found bool
			if intro == '[' {
				key, mod, found = lookupCSI(seq)
			} else {
				key, mod, found = lookupSS3(seq)
			}
			if found {
				return Event{Type: EventKey, Key: key, Modifiers: mod}, true
			}
			d.log.Debug("unknown escape sequence discarded", zap.ByteString("seq", d.partial))
			return Event{}, false
		}

		if c < 0x20 || c > 0x7e || len(d.partial) >= maxEscapeLen {
			d.log.Debug("malformed escape sequence discarded", zap.ByteString("seq", d.partial))
			return Event{}, false
		}
	}
}

// decodeAltEscape handles a second ESC: a CSI/SS3 run following it is the
// same key with Alt added, anything else is Alt+Escape
func (d *Decoder) decodeAltEscape() (Event, bool) {
	altEsc := Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}

	c, ok, timedOut := d.src.ReadNextTimeout(d.timeout)
	if timedOut || !ok {
		return altEsc, true
	}
	if c != '[' && c != 'O' {
		d.unread(c)
		return altEsc, true
	}

	d.partial = append(d.partial[:0], c)
	ev, found := d.decodeSequence(c)
	if found && ev.Type == EventKey {
		ev.Modifiers |= ModAlt
	}
	return ev, found
}

// isFinalByte reports whether b terminates a CSI/SS3 sequence
func isFinalByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~'
}

// decodeUTF8 completes a multibyte rune started by lead
func (d *Decoder) decodeUTF8(lead byte) Event {
	n := utf8SeqLen(lead)
	if n == 0 {
		return Event{Type: EventKey, Key: KeyRune, Rune: utf8.RuneError}
	}

	var buf [utf8.UTFMax]byte
	buf[0] = lead
	for i := 1; i < n; i++ {
		c, ok := d.src.ReadNext()
		if !ok {
			return Event{Type: EventEOF}
		}
		if c&0xc0 != 0x80 {
			// Broken sequence: the stray byte starts the next event
			d.unread(c)
			return Event{Type: EventKey, Key: KeyRune, Rune: utf8.RuneError}
		}
		buf[i] = c
	}

	r, _ := utf8.DecodeRune(buf[:n])
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}

// controlEvent maps a single non-ESC byte below 0x80 to its event
func controlEvent(b byte) Event {
	switch b {
	case 0x00: // Ctrl+Space or Ctrl+@
		return Event{Type: EventKey, Key: KeyCtrlSpace}
	case 0x03: // Ctrl+C, ISIG is off in raw mode so it arrives as a byte
		return Event{Type: EventInterrupt}
	case 0x08, 0x7f: // Ctrl+H, DEL
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d: // LF, CR
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1c:
		return Event{Type: EventKey, Key: KeyCtrlBackslash}
	case 0x1d:
		return Event{Type: EventKey, Key: KeyCtrlBracketRight}
	case 0x1e:
		return Event{Type: EventKey, Key: KeyCtrlCaret}
	case 0x1f:
		return Event{Type: EventKey, Key: KeyCtrlUnderscore}
	}

	if b >= 0x01 && b <= 0x1a {
		// Ctrl+letter block is contiguous in both the byte range and the Key enum
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	if b >= 0x20 && b < 0x7f {
		return Event{Type: EventKey, Key: KeyRune, Rune: rune(b)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}
