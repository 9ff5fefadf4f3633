package profile

import (
	"context"
	"sync"

	"github.com/rgehrsitz/sipgo/internal/domain"
)

// MemoryStore keeps profiles for the life of the process
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.RiskProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]domain.RiskProfile)}
}

func (s *MemoryStore) Get(ctx context.Context, userID string) (domain.RiskProfile, error) {
	if err := validateUser("profile_get", userID); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return "", notFound("profile_get", userID)
	}
	return p, nil
}

func (s *MemoryStore) Set(ctx context.Context, userID string, p domain.RiskProfile) error {
	if err := validate("profile_set", userID, p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[userID] = p
	return nil
}

func (s *MemoryStore) Close() error { return nil }
