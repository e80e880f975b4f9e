package kvstore

import (
	"context"
	"time"

	"legalaid-intake-be/pkg/wizard"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps drafts in process. Drafts are lost on restart.
type MemoryStore struct {
	cache *cache.Cache
}

var _ wizard.KeyValueStore = (*MemoryStore)(nil)

// NewMemoryStore expires entries after ttl; a zero ttl keeps them forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{cache: cache.New(ttl, 10*time.Minute)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if x, found := s.cache.Get(key); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.cache.SetDefault(key, value)
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
