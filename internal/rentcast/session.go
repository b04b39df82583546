package rentcast

import "sync"

// Session tracks per-session provider state, currently the set of
// endpoints disabled after an authorization failure. It is passed into
// the client explicitly; there is no process-wide state.
type Session struct {
	mu       sync.RWMutex
	disabled map[string]struct{}
}

func NewSession() *Session {
	return &Session{disabled: make(map[string]struct{})}
}

// Disable marks an endpoint as unusable for the rest of the session.
func (s *Session) Disable(endpoint string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disabled[endpoint] = struct{}{}
}

// Disabled reports whether the endpoint has been disabled.
func (s *Session) Disabled(endpoint string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.disabled[endpoint]
	return ok
}
