package notification

import "sync"

// Session holds the bearer token the poller authenticates with.
type Session struct {
	mu    sync.RWMutex
	token string
}

func NewSession(token string) *Session {
	return &Session{token: token}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.token
}

func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

func (s *Session) Clear() {
	s.SetToken("")
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}
