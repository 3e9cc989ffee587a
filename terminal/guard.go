package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// GuardState is the lifecycle position of a Guard
type GuardState uint8

const (
	GuardIdle      GuardState = iota // Created, no signal handler registered
	GuardInstalled                   // Watching termination signals
	GuardStopped                     // Handler removed
)

func (s GuardState) String() string {
	switch s {
	case GuardIdle:
		return "idle"
	case GuardInstalled:
		return "installed"
	case GuardStopped:
		return "stopped"
	}
	return "unknown"
}

// Guard restores every tracked backend when the process receives a termination signal.
// Installation is explicit and happens once; State exposes where the guard is in its lifecycle.
// An installed guard only listens for signals while at least one backend is tracked,
// so a process with no raw terminal keeps its own signal handling.
type Guard struct {
	log *zap.Logger

	mu        sync.Mutex
	state     GuardState
	backends  map[Backend]struct{}
	listening bool
	sigCh     chan os.Signal
	stopCh    chan struct{}
	doneCh    chan struct{}

	// onSignal runs after restoration; defaults to re-delivering the signal
	onSignal func(os.Signal)
}

var processGuard = NewGuard(nil)

// ProcessGuard returns the process-wide guard shared by sessions that are not given their own
func ProcessGuard() *Guard {
	return processGuard
}

// NewGuard creates an idle guard. A nil logger disables logging.
func NewGuard(log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{
		log:      log.Named("guard"),
		backends: make(map[Backend]struct{}),
		onSignal: reraise,
	}
}

// SetLogger replaces the guard logger
func (g *Guard) SetLogger(log *zap.Logger) {
	if log == nil {
		return
	}
	g.mu.Lock()
	g.log = log.Named("guard")
	g.mu.Unlock()
}

// State returns the current lifecycle state
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Listening reports whether termination signals are currently intercepted
func (g *Guard) Listening() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.listening
}

// Install starts the signal watcher. Calling it while installed is a no-op.
func (g *Guard) Install() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GuardInstalled {
		return
	}

	g.sigCh = make(chan os.Signal, 1)
	g.stopCh = make(chan struct{})
	g.doneCh = make(chan struct{})
	go g.watchLoop(g.sigCh, g.stopCh, g.doneCh)

	g.state = GuardInstalled
	g.listenLocked()
	g.log.Debug("signal guard installed")
}

// listenLocked intercepts signals if installed with backends to protect
func (g *Guard) listenLocked() {
	if g.state != GuardInstalled || g.listening || len(g.backends) == 0 {
		return
	}
	signal.Notify(g.sigCh, guardSignals...)
	g.listening = true
}

// unlistenLocked hands termination signals back to the rest of the process
func (g *Guard) unlistenLocked() {
	if !g.listening {
		return
	}
	signal.Stop(g.sigCh)
	g.listening = false
}

// Stop removes the signal handler and waits for the watcher to exit
func (g *Guard) Stop() {
	g.mu.Lock()
	if g.state != GuardInstalled {
		g.mu.Unlock()
		return
	}
	g.unlistenLocked()
	close(g.stopCh)
	doneCh := g.doneCh
	g.state = GuardStopped
	g.mu.Unlock()

	<-doneCh
	g.log.Debug("signal guard stopped")
}

// Track registers a backend for restoration and resumes listening if needed
func (g *Guard) Track(b Backend) {
	g.mu.Lock()
	g.backends[b] = struct{}{}
	g.listenLocked()
	g.mu.Unlock()
}

// Release stops tracking a backend; the last release stops listening
func (g *Guard) Release(b Backend) {
	g.mu.Lock()
	delete(g.backends, b)
	if len(g.backends) == 0 {
		g.unlistenLocked()
	}
	g.mu.Unlock()
}

// Tracked returns the number of tracked backends
func (g *Guard) Tracked() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.backends)
}

// RestoreAll exits raw mode on every tracked backend, swallowing errors.
// It returns how many backends were raw, failed restores included.
func (g *Guard) RestoreAll() int {
	g.mu.Lock()
	backends := make([]Backend, 0, len(g.backends))
	for b := range g.backends {
		backends = append(backends, b)
	}
	log := g.log
	g.mu.Unlock()

	raw := 0
	for _, b := range backends {
		if !b.IsRawMode() {
			continue
		}
		raw++
		if err := b.ExitRawMode(); err != nil {
			log.Warn("restore on shutdown failed", zap.Error(err))
		}
	}
	return raw
}

// watchLoop monitors termination signals
func (g *Guard) watchLoop(sigCh <-chan os.Signal, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	// Panic recovery for the signal watcher
	defer func() {
		if r := recover(); r != nil {
			g.RestoreAll()
			fmt.Fprintf(os.Stderr, "\r\nSIGNAL GUARD CRASHED: %v\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		select {
		case <-stopCh:
			return
		case sig := <-sigCh:
			g.log.Debug("termination signal received", zap.Stringer("signal", sig))
			restored := g.RestoreAll()

			// Stop listening first so the re-delivered signal reaches the host or the default action
			g.mu.Lock()
			g.unlistenLocked()
			onSignal := g.onSignal
			g.mu.Unlock()

			if restored == 0 {
				g.log.Debug("no raw terminal, signal left to the process", zap.Stringer("signal", sig))
				continue
			}
			onSignal(sig)
		}
	}
}

// EmergencyReset restores every backend tracked by the process guard
// Call this from panic recovery if Session.Close cannot run normally
func EmergencyReset() {
	processGuard.RestoreAll()
}
