package terminal

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/cancelreader"
	"go.uber.org/zap"
)

// DefaultQueueSize bounds the bytes buffered between the read goroutine and the consumer
const DefaultQueueSize = 256

// ByteSource delivers input bytes in arrival order
type ByteSource interface {
	// ReadNext blocks until a byte is available; false once the stream is closed and drained
	ReadNext() (byte, bool)
	// ReadNextTimeout waits at most d; timedOut reports that no byte arrived in time
	ReadNextTimeout(d time.Duration) (b byte, ok bool, timedOut bool)
}

// ByteReader runs the blocking single-byte read on a dedicated goroutine and
// queues the bytes for a single consumer
type ByteReader struct {
	src    Source
	queue  chan byte
	stopCh chan struct{}
	doneCh chan struct{}
	log    *zap.Logger

	cancelOnce sync.Once

	mu  sync.Mutex
	err error
}

// NewByteReader starts reading src immediately. A nil logger disables logging.
func NewByteReader(src Source, log *zap.Logger) *ByteReader {
	return newByteReader(src, DefaultQueueSize, log)
}

func newByteReader(src Source, size int, log *zap.Logger) *ByteReader {
	if log == nil {
		log = zap.NewNop()
	}
	if size < 1 {
		size = 1
	}
	r := &ByteReader{
		src:    src,
		queue:  make(chan byte, size),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		log:    log.Named("reader"),
	}
	go r.readLoop()
	return r
}

// readLoop is the only code touching the source descriptor.
// Closing the queue after the last push makes drain-before-closure structural.
func (r *ByteReader) readLoop() {
	defer close(r.doneCh)
	defer close(r.queue)

	defer func() {
		if p := recover(); p != nil {
			r.setErr(fmt.Errorf("input reader panic: %v", p))
			r.log.Error("input reader crashed", zap.Any("panic", p), zap.Stack("stack"))
		}
	}()

	r.log.Debug("reader started")
	var buf [1]byte
	for {
		select {
		case <-r.stopCh:
			r.log.Debug("reader stopped")
			return
		default:
		}

		n, err := r.src.Read(buf[:])
		if n == 1 {
			select {
			case r.queue <- buf[0]:
			case <-r.stopCh:
				// Cancelled while the queue was full: the byte is dropped, never half-delivered
				r.log.Debug("reader stopped with full queue")
				return
			}
		}
		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, syscall.EINTR), errors.Is(err, syscall.EAGAIN):
			continue
		case errors.Is(err, io.EOF):
			r.log.Debug("input closed")
		case errors.Is(err, cancelreader.ErrCanceled):
			r.log.Debug("read cancelled")
		default:
			r.setErr(err)
			r.log.Debug("read failed", zap.Error(err))
		}
		return
	}
}

func (r *ByteReader) setErr(err error) {
	r.mu.Lock()
	r.err = err
	r.mu.Unlock()
}

// Err returns the read error that stopped the reader, nil on EOF or cancellation
func (r *ByteReader) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// ReadNext blocks until a byte is queued or the stream has closed.
// Queued bytes are always drained before closure is reported.
func (r *ByteReader) ReadNext() (byte, bool) {
	b, ok := <-r.queue
	return b, ok
}

// ReadNextTimeout is ReadNext bounded by d
func (r *ByteReader) ReadNextTimeout(d time.Duration) (byte, bool, bool) {
	// Fast path avoids timer allocation when data is already queued
	select {
	case b, ok := <-r.queue:
		return b, ok, false
	default:
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case b, ok := <-r.queue:
		return b, ok, false
	case <-timer.C:
		return 0, false, true
	}
}

// Cancel stops the reader and returns only after the read goroutine has exited.
// Safe to call repeatedly and after the reader stopped on its own.
func (r *ByteReader) Cancel() {
	r.cancelOnce.Do(func() {
		close(r.stopCh)
		if !r.src.Cancel() {
			// Stream already finished or source has no wake mechanism
			r.log.Debug("source cancel not acknowledged")
		}
		<-r.doneCh
		if err := r.src.Close(); err != nil {
			r.log.Debug("source close failed", zap.Error(err))
		}
	})
	<-r.doneCh
}

// Done is closed once the read goroutine has exited
func (r *ByteReader) Done() <-chan struct{} {
	return r.doneCh
}
