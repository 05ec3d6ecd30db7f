package dashboard

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/merchantdash/internal/client/identity"
)

// Session is the front end's authenticated state: the identity, the running
// transaction monitor and the scope of in-flight calls. Every login starts a
// new generation; results of calls started under an older generation are
// dropped.
type Session struct {
	mu         sync.Mutex
	generation uint64
	identity   *identity.Identity
	monitor    *Monitor
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewSession() *Session {
	return &Session{}
}

// begin starts a new generation for id and returns its context.
func (s *Session) begin(parent context.Context, id *identity.Identity) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.identity = id
	s.ctx, s.cancel = context.WithCancel(parent)
	return s.ctx, s.generation
}

func (s *Session) setMonitor(m *Monitor) {
	s.mu.Lock()
	old := s.monitor
	s.monitor = m
	s.mu.Unlock()

	if old != nil {
		old.Stop()
	}
}

// end stops the monitor, cancels in-flight calls and forgets the identity.
func (s *Session) end() {
	s.mu.Lock()
	m := s.monitor
	s.monitor = nil
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = nil
	s.ctx = nil
	s.identity = nil
	s.generation++
	s.mu.Unlock()

	if m != nil {
		m.Stop()
	}
}

// current reports whether gen is still the live generation.
func (s *Session) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil && s.generation == gen
}

// scope returns the session context and generation, falling back to ctx when
// there is no live session.
func (s *Session) scope(ctx context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return ctx, s.generation
	}
	return s.ctx, s.generation
}

// Identity returns the session identity, nil when logged out.
func (s *Session) Identity() *identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// Authenticated reports whether the session holds an identity.
func (s *Session) Authenticated() bool {
	return s.Identity() != nil
}

// Close stops the monitor and cancels in-flight calls without logging out.
// The stored delegation is left for the next run.
func (s *Session) Close() {
	s.end()
}
