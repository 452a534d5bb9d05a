package vectorstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
)

// MemoryIndex keeps every video's index in process memory
type MemoryIndex struct {
	embedder repositories.Embedder
	mu       sync.RWMutex
	indexes  map[string]*snapshot
}

// NewMemoryIndex creates an empty in-memory index
func NewMemoryIndex(embedder repositories.Embedder) *MemoryIndex {
	return &MemoryIndex{
		embedder: embedder,
		indexes:  make(map[string]*snapshot),
	}
}

// Exists reports whether videoID has been built
func (m *MemoryIndex) Exists(_ context.Context, videoID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.indexes[videoID]
	return ok, nil
}

// Build embeds the chunks and publishes the index in one map assignment
func (m *MemoryIndex) Build(ctx context.Context, videoID string, chunks []entities.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index for %s", videoID)
	}
	vectors, err := embedChunks(func(texts []string) ([][]float32, error) {
		return m.embedder.Embed(ctx, texts)
	}, chunks)
	if err != nil {
		return err
	}

	snap := &snapshot{VideoID: videoID, Chunks: chunks, Vectors: vectors}

	m.mu.Lock()
	m.indexes[videoID] = snap
	m.mu.Unlock()
	return nil
}

// Search ranks the video's chunks against query
func (m *MemoryIndex) Search(ctx context.Context, videoID, query string, k int) ([]entities.Passage, error) {
	m.mu.RLock()
	snap, ok := m.indexes[videoID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", videoID, entities.ErrIndexNotFound)
	}
	if k <= 0 {
		return nil, nil
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return snap.search(vectors[0], k), nil
}
