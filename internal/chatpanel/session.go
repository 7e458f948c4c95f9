package chatpanel

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Phase is the first-call latch of a session.
type Phase int

const (
	// PhaseFirstCallPending means no request has settled yet; the backend may be asleep.
	PhaseFirstCallPending Phase = iota
	// PhaseWarm means at least one request has settled.
	PhaseWarm
)

func (p Phase) String() string {
	switch p {
	case PhaseFirstCallPending:
		return "first-call-pending"
	case PhaseWarm:
		return "warm"
	default:
		return "unknown"
	}
}

// Session represents the lifetime of one mounted widget.
// Nothing in it survives the process.
type Session struct {
	ID        string    // UUID v4, used to correlate log lines
	StartedAt time.Time

	mu    sync.Mutex
	phase Phase
}

// NewSession creates a session whose first call is still pending
func NewSession() *Session {
	return &Session{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		phase:     PhaseFirstCallPending,
	}
}

// Phase returns the current latch state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// FirstCall reports whether no request has settled yet in this session.
func (s *Session) FirstCall() bool {
	return s.Phase() == PhaseFirstCallPending
}

// MarkSettled flips the latch to warm. It never goes back.
func (s *Session) MarkSettled() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhaseWarm
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
