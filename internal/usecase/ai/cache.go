package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
)

// ArtifactKind names a kind of generated artifact
type ArtifactKind string

const (
	KindSummary   ArtifactKind = "summary"
	KindKeyPoints ArtifactKind = "key_points"
)

// partner returns the kind whose expiry is kept in step with k
func (k ArtifactKind) partner() (ArtifactKind, bool) {
	switch k {
	case KindSummary:
		return KindKeyPoints, true
	case KindKeyPoints:
		return KindSummary, true
	}
	return "", false
}

// Fingerprint returns the SHA-256 hex digest of content
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func cacheKey(kind ArtifactKind, fingerprint string) string {
	return string(kind) + ":" + fingerprint
}

// ArtifactCache memoises generated artifacts by content fingerprint
type ArtifactCache struct {
	store  repositories.ArtifactStore
	clock  clock.Clock
	ttl    time.Duration
	logger *zap.Logger
	group  singleflight.Group
}

// NewArtifactCache creates a cache over store with the given TTL
func NewArtifactCache(store repositories.ArtifactStore, clk clock.Clock, ttl time.Duration, logger *zap.Logger) *ArtifactCache {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ArtifactCache{store: store, clock: clk, ttl: ttl, logger: logger}
}

// Lookup returns a valid cached artifact without generating
func (c *ArtifactCache) Lookup(ctx context.Context, kind ArtifactKind, content string) (string, bool) {
	a, ok := c.lookup(ctx, cacheKey(kind, Fingerprint(content)))
	return a.Value, ok
}

func (c *ArtifactCache) lookup(ctx context.Context, key string) (entities.CachedArtifact, bool) {
	a, ok, err := c.store.Get(ctx, key)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return entities.CachedArtifact{}, false
	}
	if !ok || !a.ValidAt(c.clock.Now()) {
		return entities.CachedArtifact{}, false
	}
	return a, true
}

// GetOrGenerate returns the cached artifact for (kind, content) or calls fn,
// stores its result and returns it. Concurrent misses on one key share a
// single fn call. Failed generations are not cached.
func (c *ArtifactCache) GetOrGenerate(ctx context.Context, kind ArtifactKind, content string, fn func(ctx context.Context) (string, error)) (string, error) {
	fp := Fingerprint(content)
	key := cacheKey(kind, fp)

	if a, ok := c.lookup(ctx, key); ok {
		return a.Value, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if a, ok := c.lookup(ctx, key); ok {
			return a.Value, nil
		}

		value, err := fn(ctx)
		if err != nil {
			return "", err
		}

		artifact := entities.CachedArtifact{Value: value, ExpiresAt: c.clock.Now().Add(c.ttl)}
		if err := c.store.Set(ctx, key, artifact); err != nil {
			if c.logger != nil {
				c.logger.Warn("⚠️ Cache write failed", zap.String("key", key), zap.Error(err))
			}
			return value, nil
		}
		c.syncPartner(ctx, kind, fp, artifact)
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// syncPartner moves the summary and key-points entries of one fingerprint
// to the later of their two expiries
func (c *ArtifactCache) syncPartner(ctx context.Context, kind ArtifactKind, fp string, written entities.CachedArtifact) {
	other, ok := kind.partner()
	if !ok {
		return
	}
	otherKey := cacheKey(other, fp)
	partner, ok := c.lookup(ctx, otherKey)
	if !ok {
		return
	}

	expiry := written.ExpiresAt
	if partner.ExpiresAt.After(expiry) {
		expiry = partner.ExpiresAt
	}

	if !partner.ExpiresAt.Equal(expiry) {
		partner.ExpiresAt = expiry
		if err := c.store.Set(ctx, otherKey, partner); err != nil && c.logger != nil {
			c.logger.Warn("⚠️ Cache sync failed", zap.String("key", otherKey), zap.Error(err))
		}
	}
	if !written.ExpiresAt.Equal(expiry) {
		written.ExpiresAt = expiry
		key := cacheKey(kind, fp)
		if err := c.store.Set(ctx, key, written); err != nil && c.logger != nil {
			c.logger.Warn("⚠️ Cache sync failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// CountValid returns the number of entries valid right now
func (c *ArtifactCache) CountValid(ctx context.Context) (int, error) {
	n, err := c.store.CountValid(ctx, c.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}
