package session

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps session state in process. An entry expires ttl after
// it was last written; reads do not extend it. Zero keeps entries forever.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	exp := ttl
	if exp <= 0 {
		exp = cache.NoExpiration
	}
	return &MemoryStore{
		cache: cache.New(exp, 10*time.Minute),
		ttl:   exp,
	}
}

func (s *MemoryStore) Get(_ context.Context, namespace, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.cache.Get(storeKey(namespace, key))
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

func (s *MemoryStore) Set(_ context.Context, namespace, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(storeKey(namespace, key), value, s.ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, namespace string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.cache.Delete(storeKey(namespace, k))
	}
	return nil
}
