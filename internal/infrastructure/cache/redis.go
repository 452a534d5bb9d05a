package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/redis/go-redis/v9"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.GetRedisAddr(), err)
	}
	return client, nil
}

// RedisStore keeps artifacts in Redis as JSON documents carrying their own expiry
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

// NewRedisStore creates a store whose keys are namespaced by prefix
func NewRedisStore(client redis.UniversalClient, prefix string, clk clock.Clock) *RedisStore {
	if clk == nil {
		clk = clock.New()
	}
	return &RedisStore{client: client, prefix: prefix, clock: clk}
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Set writes the artifact and lets Redis evict it once it has expired
func (s *RedisStore) Set(ctx context.Context, key string, artifact entities.CachedArtifact) error {
	ttl := artifact.ExpiresAt.Sub(s.clock.Now())
	if ttl <= 0 {
		return s.client.Del(ctx, s.key(key)).Err()
	}

	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := s.client.Set(ctx, s.key(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store artifact %s: %w", key, err)
	}
	return nil
}

// Get returns the stored artifact if present
func (s *RedisStore) Get(ctx context.Context, key string) (entities.CachedArtifact, bool, error) {
	raw, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.CachedArtifact{}, false, nil
	}
	if err != nil {
		return entities.CachedArtifact{}, false, fmt.Errorf("failed to read artifact %s: %w", key, err)
	}

	var artifact entities.CachedArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return entities.CachedArtifact{}, false, fmt.Errorf("failed to decode artifact %s: %w", key, err)
	}
	return artifact, true, nil
}

// CountValid scans the namespace and counts artifacts still valid at now
func (s *RedisStore) CountValid(ctx context.Context, now time.Time) (int, error) {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan artifacts: %w", err)
		}

		if len(keys) > 0 {
			values, err := s.client.MGet(ctx, keys...).Result()
			if err != nil {
				return 0, fmt.Errorf("failed to read artifacts: %w", err)
			}
			for _, v := range values {
				str, ok := v.(string)
				if !ok {
					continue
				}
				var artifact entities.CachedArtifact
				if err := json.Unmarshal([]byte(str), &artifact); err != nil {
					continue
				}
				if artifact.ValidAt(now) {
					count++
				}
			}
		}

		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
