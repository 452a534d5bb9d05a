package repositories

import (
	"context"
	"time"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// ArtifactStore is the backing store of the artifact cache. Each entry is
// written as one value so readers never observe an artifact without its expiry.
type ArtifactStore interface {
	Get(ctx context.Context, key string) (entities.CachedArtifact, bool, error)
	Set(ctx context.Context, key string, artifact entities.CachedArtifact) error
	CountValid(ctx context.Context, now time.Time) (int, error)
}
