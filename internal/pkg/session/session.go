package session

import (
	"sync"
	"time"
)

// Session is the server-side state for one client endpoint. Fields are
// guarded by the session's own mutex so concurrent datagrams from the same
// endpoint mutate one shared object safely.
type Session struct {
	mu             sync.Mutex
	endpoint       string
	username       string
	authenticated  bool
	failedAttempts int
	lastActivity   time.Time
}

func newSession(endpoint string) *Session {
	return &Session{
		endpoint:     endpoint,
		lastActivity: time.Now(),
	}
}

// Endpoint returns the immutable "ip:port" key of the session.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActivity = time.Now()
}

// Authenticated reports whether the session holds a verified user.
func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Username returns the authenticated user, or "" before authentication.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// SetAuthenticated marks the session authenticated and resets the failure counter.
func (s *Session) SetAuthenticated(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.username = username
	s.authenticated = true
	s.failedAttempts = 0
}

// RecordFailure increments the failed-attempt counter and returns the new count.
func (s *Session) RecordFailure() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failedAttempts++
	return s.failedAttempts
}

// Locked reports whether the failure counter has reached the given ceiling.
func (s *Session) Locked(maxAttempts int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failedAttempts >= maxAttempts
}

// Expired reports whether the session has been idle longer than maxIdle.
func (s *Session) Expired(maxIdle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActivity) > maxIdle
}

// Store tracks sessions by client endpoint. Implementations must be safe for
// concurrent use by dispatch workers and the expiry sweep.
type Store interface {
	GetOrCreate(endpoint string) *Session
	Get(endpoint string) (*Session, error)
	Remove(endpoint string) error
	SweepExpired(maxIdle time.Duration) int
	Len() int
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for the endpoint, creating it lazily.
// Concurrent calls for the same endpoint always observe the same session.
func (p *MemoryStore) GetOrCreate(endpoint string) *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if sess, ok := p.sessions[endpoint]; ok {
		return sess
	}
	sess := newSession(endpoint)
	p.sessions[endpoint] = sess
	return sess
}

// Get returns the session for the endpoint, or ErrSessionNotFound.
func (p *MemoryStore) Get(endpoint string) (*Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if sess, ok := p.sessions[endpoint]; ok {
		return sess, nil
	}
	return nil, ErrSessionNotFound
}

// Remove deletes the session for the endpoint.
func (p *MemoryStore) Remove(endpoint string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[endpoint]; !ok {
		return ErrSessionNotFound
	}
	delete(p.sessions, endpoint)
	return nil
}

// SweepExpired removes every session idle longer than maxIdle and returns
// how many were removed.
func (p *MemoryStore) SweepExpired(maxIdle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	removed := 0
	for endpoint, sess := range p.sessions {
		if sess.Expired(maxIdle) {
			delete(p.sessions, endpoint)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (p *MemoryStore) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}
