// Package termtest provides scriptable terminal fakes for tests.
package termtest

import (
	"io"
	"sync"
	"sync/atomic"

	"github.com/muesli/cancelreader"
)

// Source is an in-memory terminal.Source. Bytes are fed by the test; Read blocks
// like a tty until data arrives, the input is closed, or Cancel is called.
type Source struct {
	data   chan byte
	errCh  chan error
	eof    chan struct{}
	cancel chan struct{}

	eofOnce    sync.Once
	cancelOnce sync.Once

	reads  atomic.Int64
	closed atomic.Bool
}

// NewSource creates an empty source
func NewSource() *Source {
	return &Source{
		data:   make(chan byte, 4096),
		errCh:  make(chan error, 1),
		eof:    make(chan struct{}),
		cancel: make(chan struct{}),
	}
}

// Feed queues bytes for reading
func (s *Source) Feed(p []byte) {
	for _, b := range p {
		s.data <- b
	}
}

// FeedString queues the bytes of str
func (s *Source) FeedString(str string) {
	s.Feed([]byte(str))
}

// Fail makes the next Read return err
func (s *Source) Fail(err error) {
	s.errCh <- err
}

// CloseInput ends the stream; Read returns io.EOF once queued bytes are consumed
func (s *Source) CloseInput() {
	s.eofOnce.Do(func() { close(s.eof) })
}

// Read implements io.Reader, one byte at a time
func (s *Source) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s.reads.Add(1)

	select {
	case <-s.cancel:
		return 0, cancelreader.ErrCanceled
	default:
	}

	select {
	case b := <-s.data:
		p[0] = b
		return 1, nil
	case err := <-s.errCh:
		return 0, err
	case <-s.cancel:
		return 0, cancelreader.ErrCanceled
	case <-s.eof:
		select {
		case b := <-s.data:
			p[0] = b
			return 1, nil
		default:
			return 0, io.EOF
		}
	}
}

// Cancel wakes a blocked Read
func (s *Source) Cancel() bool {
	s.cancelOnce.Do(func() { close(s.cancel) })
	return true
}

// Close implements io.Closer
func (s *Source) Close() error {
	s.closed.Store(true)
	return nil
}

// Closed reports whether Close was called
func (s *Source) Closed() bool {
	return s.closed.Load()
}

// Reads returns how many Read calls were made
func (s *Source) Reads() int64 {
	return s.reads.Load()
}
