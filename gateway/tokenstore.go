package gateway

import (
	"context"
	"sync"

	"medigate/models"
)

// TokenStore abstracts where a session's token pair lives, so the gateway
// has no dependency on any particular storage technology. A missing pair is
// reported as a zero-value TokenPair, not an error.
type TokenStore interface {
	Pair(ctx context.Context) (models.TokenPair, error)
	Save(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}

// MemoryTokenStore keeps the pair in process memory. Used by the worker's
// service-account gateway and by tests.
type MemoryTokenStore struct {
	mu   sync.RWMutex
	pair models.TokenPair
}

func NewMemoryTokenStore(pair models.TokenPair) *MemoryTokenStore {
	return &MemoryTokenStore{pair: pair}
}

func (s *MemoryTokenStore) Pair(ctx context.Context) (models.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, nil
}

func (s *MemoryTokenStore) Save(ctx context.Context, pair models.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = models.TokenPair{}
	return nil
}
