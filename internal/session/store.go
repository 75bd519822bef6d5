package session

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no session exists for an id.
	ErrNotFound = errors.New("session not found")
)

// Session is the per-visitor state that survives between requests.
type Session struct {
	ID        string    `json:"id"`
	Counter   int       `json:"counter"`
	UploadKey string    `json:"uploadKey,omitempty"`
	LastSeen  time.Time `json:"lastSeen"`
}

// Increment returns a copy of s with the counter advanced by one.
func (s Session) Increment() Session {
	s.Counter++
	return s
}

// MemoryStore is a concurrency-safe in-memory session store.
type MemoryStore struct {
	mu sync.RWMutex

	// key: session id
	data map[string]Session

	now func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]Session),
		now:  time.Now,
	}
}

// Load returns the session for id, creating a fresh one if none exists.
func (s *MemoryStore) Load(id string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.data[id]
	if !ok {
		sess = Session{ID: id}
	}
	sess.LastSeen = s.now()
	s.data[id] = sess
	return sess
}

// Get returns the session for id without creating or touching it.
func (s *MemoryStore) Get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Save stores sess under its id.
func (s *MemoryStore) Save(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess.LastSeen = s.now()
	s.data[sess.ID] = sess
}

// Sweep removes sessions idle for longer than maxIdle and returns how many were removed.
// A maxIdle <= 0 keeps every session.
func (s *MemoryStore) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.data {
		if sess.LastSeen.Before(cutoff) {
			delete(s.data, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
