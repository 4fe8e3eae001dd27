package adapter

import (
	"context"
	"time"

	"trivia-gen/internal/domain"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCacheAdapter implements domain.Cache in process, for deployments
// without Redis.
type MemoryCacheAdapter struct {
	store *gocache.Cache
}

// NewMemoryCacheAdapter creates an in-memory cache whose expired entries are
// purged every cleanupInterval.
func NewMemoryCacheAdapter(cleanupInterval time.Duration) domain.Cache {
	return &MemoryCacheAdapter{store: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) (string, error) {
	val, ok := m.store.Get(key)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	s, ok := val.(string)
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return s, nil
}

// Set stores value; an expiration of 0 keeps it until deleted.
func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	m.store.Set(key, value, expiration)
	return nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.store.Delete(key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(_ context.Context) error {
	return nil
}
