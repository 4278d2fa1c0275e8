package ledger

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements the Store interface in process memory
type MemoryStore struct {
	mu       sync.Mutex
	consumed map[string]time.Time // hash -> expiry
}

// NewMemoryStore creates a new in-memory ledger
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		consumed: make(map[string]time.Time),
	}
}

// Consume atomically records the token as spent
func (s *MemoryStore) Consume(ctx context.Context, token string, expiresAt time.Time) error {
	key := hashToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	if _, ok := s.consumed[key]; ok {
		return ErrTokenConsumed
	}
	s.consumed[key] = expiresAt
	return nil
}

// IsConsumed reports whether the token has been spent
func (s *MemoryStore) IsConsumed(ctx context.Context, token string) (bool, error) {
	key := hashToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpiredLocked()
	_, ok := s.consumed[key]
	return ok, nil
}

// Close releases the backing resources
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumed = make(map[string]time.Time)
	return nil
}

// evictExpiredLocked drops entries whose tokens can no longer validate anyway
func (s *MemoryStore) evictExpiredLocked() {
	now := time.Now()
	for key, expiry := range s.consumed {
		if now.After(expiry) {
			delete(s.consumed, key)
		}
	}
}
