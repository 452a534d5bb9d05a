package cache

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// MemoryStore is an in-process artifact store with periodic removal of expired entries
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entities.CachedArtifact
	clock clock.Clock
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-memory store. A non-positive cleanupInterval
// disables the background sweep.
func NewMemoryStore(clk clock.Clock, cleanupInterval time.Duration) *MemoryStore {
	if clk == nil {
		clk = clock.New()
	}
	store := &MemoryStore{
		items: make(map[string]entities.CachedArtifact),
		clock: clk,
		stop:  make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go store.cleanupExpired(cleanupInterval)
	}

	return store
}

// Set stores an artifact under key, replacing any previous entry
func (ms *MemoryStore) Set(_ context.Context, key string, artifact entities.CachedArtifact) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[key] = artifact
	return nil
}

// Get returns the stored artifact, expired or not. Validity is the caller's call.
func (ms *MemoryStore) Get(_ context.Context, key string) (entities.CachedArtifact, bool, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	item, exists := ms.items[key]
	return item, exists, nil
}

// CountValid returns the number of entries still valid at now
func (ms *MemoryStore) CountValid(_ context.Context, now time.Time) (int, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	n := 0
	for _, item := range ms.items {
		if item.ValidAt(now) {
			n++
		}
	}
	return n, nil
}

// Close stops the cleanup goroutine
func (ms *MemoryStore) Close() error {
	ms.once.Do(func() { close(ms.stop) })
	return nil
}

// removeExpired drops every entry that is no longer valid
func (ms *MemoryStore) removeExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.clock.Now()
	for key, item := range ms.items {
		if !item.ValidAt(now) {
			delete(ms.items, key)
		}
	}
}

// cleanupExpired periodically removes expired items
func (ms *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := ms.clock.Ticker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.stop:
			return
		case <-ticker.C:
			ms.removeExpired()
		}
	}
}
