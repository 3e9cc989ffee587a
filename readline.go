// Package readline reads edited lines from an interactive terminal.
//
// A Session puts the terminal into raw mode, decodes keystrokes on a background
// reader, renders the line with a primary or continuation prompt, and recalls
// previously accepted lines.
//
//	rl := readline.New(readline.WithPrompt(readline.Prompt{Prompt: ">>> "}), readline.WithHistory(0))
//	defer rl.Close()
//	for {
//		line, err := rl.Readline()
//		if errors.Is(err, readline.ErrInterrupt) {
//			continue
//		}
//		if err != nil {
//			break
//		}
//		...
//	}
//
// The terminal stays in raw mode between Readline calls and is restored by Close.
// Output written by the program between calls must use "\r\n" line endings.
package readline

import (
	"bytes"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/readline/edit"
	"github.com/lixenwraith/readline/history"
	"github.com/lixenwraith/readline/terminal"
)

// Prompt holds the recognized prompt options
type Prompt struct {
	Prompt      string // First row
	AltPrompt   string // Rows after a continuation break
	Placeholder string // Shown after the prompt while the line is empty
}

// State is the position of a Session in its read cycle
type State uint8

const (
	StateIdle State = iota
	StateReading
	StateAccepted
	StateEOF
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReading:
		return "reading"
	case StateAccepted:
		return "accepted"
	case StateEOF:
		return "eof"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Session owns one terminal backend, one decoding pipeline, the edit buffer and
// optional history. Readline must be called from one goroutine at a time;
// Close may be called from any goroutine.
type Session struct {
	backend    terminal.Backend
	guard      *terminal.Guard
	guardSet   bool
	log        *zap.Logger
	escTimeout time.Duration

	prompt   Prompt
	hist     *history.List
	bindings map[terminal.Key]Action

	reader  *terminal.ByteReader
	decoder *terminal.Decoder

	state   State
	outcome State
	buf     *edit.Buffer
	frame   edit.Frame // What is currently on screen
	draft   string     // Live line saved while recalling history

	closeOnce sync.Once
	closedMu  sync.Mutex
	closed    bool
}

// New creates a session. The terminal is not touched until the first Readline.
func New(opts ...Option) *Session {
	s := &Session{
		log:        zap.NewNop(),
		escTimeout: terminal.DefaultEscapeTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.Named("readline")
	if s.backend == nil {
		s.backend = terminal.NewStdio(s.log)
	}
	if !s.guardSet {
		s.guard = terminal.ProcessGuard()
		s.guard.SetLogger(s.log)
	}
	if s.guard != nil {
		// Explicit process-wide initialization; later sessions find it installed.
		// Signals are only intercepted while a backend is tracked.
		s.guard.Install()
	}
	return s
}

// Configure sets the prompt, continuation prompt and placeholder for subsequent reads
func (s *Session) Configure(prompt, altPrompt, placeholder string) {
	s.prompt = Prompt{Prompt: prompt, AltPrompt: altPrompt, Placeholder: placeholder}
}

// EnableHistory turns on history. Non-positive capacity selects history.DefaultCapacity.
// Entries are kept when history is already enabled; the oldest are evicted if the
// new capacity is smaller.
func (s *Session) EnableHistory(capacity int) {
	old := s.hist
	s.hist = history.New(capacity)
	if old != nil {
		for _, line := range old.Entries() {
			s.hist.Add(line)
		}
	}
}

// DisableHistory turns history off and drops its entries
func (s *Session) DisableHistory() {
	s.hist = nil
}

// History returns a snapshot of accepted lines, oldest first; nil when disabled
func (s *Session) History() []string {
	if s.hist == nil {
		return nil
	}
	return s.hist.Entries()
}

// AddHistory appends a line to history as if it had been accepted
func (s *Session) AddHistory(line string) {
	if s.hist != nil {
		s.hist.Add(line)
	}
}

// State returns StateReading during Readline, StateIdle otherwise
func (s *Session) State() State {
	return s.state
}

// LastOutcome returns how the last Readline ended: StateAccepted, StateEOF or StateInterrupted
func (s *Session) LastOutcome() State {
	return s.outcome
}

func (s *Session) isClosed() bool {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()
	return s.closed
}

// Readline reads one edited line. It returns ErrEOF when input ends, ErrInterrupt on
// Ctrl+C, ErrNotATerminal or a *TerminalControlError when raw mode cannot be entered.
func (s *Session) Readline() (string, error) {
	if s.isClosed() {
		return "", ErrEOF
	}

	if err := s.backend.EnterRawMode(); err != nil {
		return "", err
	}
	if s.guard != nil {
		s.guard.Track(s.backend)
	}
	if err := s.startReader(); err != nil {
		if errors.Is(err, ErrEOF) {
			// Closed while entering raw mode
			s.restore()
		}
		return "", err
	}

	s.state = StateReading
	defer func() { s.state = StateIdle }()

	s.buf = edit.NewBuffer(s.prompt.Prompt, s.prompt.AltPrompt, s.prompt.Placeholder)
	s.frame = edit.Frame{}
	s.draft = ""
	if s.hist != nil {
		s.hist.ResetCursor()
	}
	s.render()

	for {
		ev := s.decoder.Next()

		switch ev.Type {
		case terminal.EventEOF:
			if err := s.reader.Err(); err != nil {
				s.log.Debug("input failed", zap.Error(err))
			}
			s.commit()
			s.outcome = StateEOF
			return "", ErrEOF

		case terminal.EventInterrupt:
			s.commit()
			s.buf.Clear()
			s.outcome = StateInterrupted
			return "", ErrInterrupt

		case terminal.EventKey:
			if line, done, err := s.handleKey(ev); done {
				return line, err
			}
		}
	}
}

// startReader opens the input source and decoder on first use.
// It returns ErrEOF once Close has run.
func (s *Session) startReader() error {
	s.closedMu.Lock()
	defer s.closedMu.Unlock()

	if s.closed {
		return ErrEOF
	}
	if s.reader != nil {
		return nil
	}
	src, err := s.backend.NewSource()
	if err != nil {
		return &terminal.ControlError{Op: "open input", Err: err}
	}
	reader := terminal.NewByteReader(src, s.log)
	s.reader = reader
	s.decoder = terminal.NewDecoder(reader, s.escTimeout, s.log)
	return nil
}

// handleKey applies one key event; done reports the read is over
func (s *Session) handleKey(ev terminal.Event) (string, bool, error) {
	if ev.Key == terminal.KeyRune && ev.Modifiers&terminal.ModAlt == 0 {
		s.buf.Insert(ev.Rune)
		s.edited()
		s.render()
		return "", false, nil
	}

	action := s.actionFor(ev)
	if action == ActionNone {
		s.log.Debug("key ignored", zap.Stringer("key", ev.Key), zap.Uint8("mod", uint8(ev.Modifiers)))
		return "", false, nil
	}

	b := s.buf
	switch action {
	case ActionAccept:
		return s.accept(), true, nil
	case ActionContinueLine:
		b.InsertContinuation()
		s.edited()
	case ActionDeleteOrEOF:
		if b.Empty() {
			s.commit()
			s.outcome = StateEOF
			return "", true, ErrEOF
		}
		s.mutate(b.DeleteForward)
	case ActionDeleteBackward:
		s.mutate(b.DeleteBackward)
	case ActionDeleteForward:
		s.mutate(b.DeleteForward)
	case ActionDeleteWordBackward:
		s.mutate(b.DeleteWordBackward)
	case ActionKillToEnd:
		s.mutate(b.DeleteToEnd)
	case ActionKillToStart:
		s.mutate(b.DeleteToStart)
	case ActionMoveLeft:
		b.MoveCursor(-1)
	case ActionMoveRight:
		b.MoveCursor(1)
	case ActionWordLeft:
		b.MoveWordLeft()
	case ActionWordRight:
		b.MoveWordRight()
	case ActionLineStart:
		b.MoveToStart()
	case ActionLineEnd:
		b.MoveToEnd()
	case ActionHistoryPrev:
		s.historyPrev()
	case ActionHistoryNext:
		s.historyNext()
	case ActionClearScreen:
		s.clearScreen()
	}

	s.render()
	return "", false, nil
}

// actionFor resolves an event through the custom bindings, then the defaults.
// Custom bindings apply to unmodified keys only.
func (s *Session) actionFor(ev terminal.Event) Action {
	if ev.Modifiers == terminal.ModNone {
		if a, ok := s.bindings[ev.Key]; ok {
			return a
		}
	}
	return defaultAction(ev)
}

// Bind maps an unmodified key to an action, replacing its default.
// ActionNone disables the key. Ctrl+C and plain runes are not affected.
func (s *Session) Bind(k terminal.Key, a Action) {
	if s.bindings == nil {
		s.bindings = make(map[terminal.Key]Action)
	}
	s.bindings[k] = a
}

// mutate runs an edit and abandons history recall if content changed
func (s *Session) mutate(op func() bool) {
	if op() {
		s.edited()
	}
}

// edited makes the current content the live line
func (s *Session) edited() {
	if s.hist != nil && s.hist.Recalling() {
		s.hist.ResetCursor()
	}
}

func (s *Session) historyPrev() {
	if s.hist == nil || s.hist.Len() == 0 {
		return
	}
	if !s.hist.Recalling() {
		s.draft = s.buf.String()
	}
	if line, ok := s.hist.Prev(); ok {
		s.buf.ReplaceContent(line)
	}
}

func (s *Session) historyNext() {
	if s.hist == nil || !s.hist.Recalling() {
		return
	}
	if line, ok := s.hist.Next(); ok {
		s.buf.ReplaceContent(line)
		return
	}
	s.buf.ReplaceContent(s.draft)
}

// accept finalizes the current line
func (s *Session) accept() string {
	line := s.buf.String()
	s.commit()
	if s.hist != nil {
		s.hist.Add(line)
	}
	s.outcome = StateAccepted
	s.log.Debug("line accepted", zap.Int("runes", s.buf.Len()))
	return line
}

// render brings the screen in line with the buffer
func (s *Session) render() {
	next := s.buf.Layout(s.backend.Width())
	s.write(edit.RenderDiff(s.frame, next))
	s.frame = next
}

// commit redraws the line without placeholder and moves below it
func (s *Session) commit() {
	final := s.buf.LayoutCommitted(s.backend.Width())
	out := edit.RenderDiff(s.frame, final)
	out = append(out, edit.CommitSequence(final)...)
	s.write(out)
	s.frame = edit.Frame{}
}

func (s *Session) clearScreen() {
	var w bytes.Buffer
	terminal.WriteClearScreen(&w)
	s.write(w.Bytes())
	s.frame = edit.Frame{}
}

func (s *Session) write(p []byte) {
	if len(p) == 0 {
		return
	}
	if _, err := s.backend.Write(p); err != nil {
		s.log.Warn("render write failed", zap.Error(err))
	}
}

// Close stops the background reader, waits for it to exit and restores the terminal.
// Restore failures are logged, never returned. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closedMu.Lock()
		s.closed = true
		reader := s.reader
		s.closedMu.Unlock()

		if reader != nil {
			reader.Cancel()
		}
		s.restore()
		s.log.Debug("session closed")
	})
	return nil
}

// restore leaves raw mode and stops guarding the backend
func (s *Session) restore() {
	if err := s.backend.ExitRawMode(); err != nil {
		s.log.Warn("terminal restore failed", zap.Error(err))
	}
	if s.guard != nil {
		s.guard.Release(s.backend)
	}
}
