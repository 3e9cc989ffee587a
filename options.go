package readline

import (
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/readline/terminal"
)

// Option configures a Session
type Option func(*Session)

// WithBackend replaces the stdin/stdout terminal backend
func WithBackend(b terminal.Backend) Option {
	return func(s *Session) {
		s.backend = b
	}
}

// WithLogger sets the logger, zap.NewNop() by default
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithGuard sets the signal guard restoring the terminal on termination.
// nil disables guarding; the process guard is used by default.
func WithGuard(g *terminal.Guard) Option {
	return func(s *Session) {
		s.guard = g
		s.guardSet = true
	}
}

// WithEscapeTimeout sets how long a lone ESC waits for a follow-up byte
func WithEscapeTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.escTimeout = d
	}
}

// WithPrompt sets prompt, continuation prompt and placeholder
func WithPrompt(p Prompt) Option {
	return func(s *Session) {
		s.prompt = p
	}
}

// WithHistory enables history with the given capacity, non-positive selects the default
func WithHistory(capacity int) Option {
	return func(s *Session) {
		s.EnableHistory(capacity)
	}
}

// WithKeyBindings applies Bind for every entry
func WithKeyBindings(bindings map[terminal.Key]Action) Option {
	return func(s *Session) {
		for k, a := range bindings {
			s.Bind(k, a)
		}
	}
}
