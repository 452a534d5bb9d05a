package repositories

import (
	"context"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// VectorIndex stores transcript chunks per video and searches them by similarity.
// Build must publish atomically: Exists reports false until every chunk is searchable.
type VectorIndex interface {
	Exists(ctx context.Context, videoID string) (bool, error)
	Build(ctx context.Context, videoID string, chunks []entities.Chunk) error
	// Search returns at most k passages, best first, ties broken by ordinal.
	// Returns entities.ErrIndexNotFound when no index exists for videoID.
	Search(ctx context.Context, videoID, query string, k int) ([]entities.Passage, error)
}

// Embedder turns texts into vectors of a fixed size
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}
