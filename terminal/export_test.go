package terminal

import "os"

// NewByteReaderSize exposes the queue size for tests
var NewByteReaderSize = newByteReader

// SetSignalHandler replaces what runs after restoration
func (g *Guard) SetSignalHandler(f func(os.Signal)) {
	g.mu.Lock()
	g.onSignal = f
	g.mu.Unlock()
}

// Deliver injects a signal as if the OS had sent it
func (g *Guard) Deliver(sig os.Signal) {
	g.mu.Lock()
	ch := g.sigCh
	g.mu.Unlock()
	ch <- sig
}
