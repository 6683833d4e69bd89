package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// SessionStore maps opaque session tokens to user ids. Implementations must
// be safe for concurrent use; requests resolve and clear sessions in
// parallel.
type SessionStore interface {
	Create(userID int) (string, error)
	Resolve(token string) (int, bool)
	Clear(token string)
}

// MemoryStore is a process-lifetime SessionStore. Sessions do not survive a
// restart and carry no TTL; the cookie's MaxAge bounds their useful life.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]int)}
}

// Create issues a fresh token for the user.
func (s *MemoryStore) Create(userID int) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.sessions[token] = userID
	s.mu.Unlock()

	return token, nil
}

// Resolve returns the user id the token maps to, if any.
func (s *MemoryStore) Resolve(token string) (int, bool) {
	s.mu.RLock()
	userID, ok := s.sessions[token]
	s.mu.RUnlock()
	return userID, ok
}

// Clear removes the token. Clearing an unknown token is not an error.
func (s *MemoryStore) Clear(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
