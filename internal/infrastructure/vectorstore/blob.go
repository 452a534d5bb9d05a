package vectorstore

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sync"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
	"github.com/johnquangdev/ytbuddy/internal/infrastructure/storage"
)

// BlobStore is the object store a BlobIndex persists snapshots to.
// Put must make the whole blob visible at once.
type BlobStore interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// BlobIndex persists one gob snapshot per video and keeps loaded ones in memory
type BlobIndex struct {
	store    BlobStore
	embedder repositories.Embedder
	mu       sync.RWMutex
	loaded   map[string]*snapshot
}

// NewBlobIndex creates an index backed by store
func NewBlobIndex(store BlobStore, embedder repositories.Embedder) *BlobIndex {
	return &BlobIndex{
		store:    store,
		embedder: embedder,
		loaded:   make(map[string]*snapshot),
	}
}

func blobName(videoID string) string {
	return "indexes/" + videoID + ".gob"
}

// Exists checks the in-memory copy first, then the store
func (b *BlobIndex) Exists(ctx context.Context, videoID string) (bool, error) {
	b.mu.RLock()
	_, ok := b.loaded[videoID]
	b.mu.RUnlock()
	if ok {
		return true, nil
	}
	return b.store.Exists(ctx, blobName(videoID))
}

// Build embeds the chunks, writes the snapshot and caches it
func (b *BlobIndex) Build(ctx context.Context, videoID string, chunks []entities.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index for %s", videoID)
	}
	vectors, err := embedChunks(func(texts []string) ([][]float32, error) {
		return b.embedder.Embed(ctx, texts)
	}, chunks)
	if err != nil {
		return err
	}

	snap := &snapshot{VideoID: videoID, Chunks: chunks, Vectors: vectors}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := b.store.Put(ctx, blobName(videoID), buf.Bytes()); err != nil {
		return err
	}

	b.mu.Lock()
	b.loaded[videoID] = snap
	b.mu.Unlock()
	return nil
}

// Search loads the snapshot if needed and ranks its chunks against query
func (b *BlobIndex) Search(ctx context.Context, videoID, query string, k int) ([]entities.Passage, error) {
	snap, err := b.load(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	vectors, err := b.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return snap.search(vectors[0], k), nil
}

func (b *BlobIndex) load(ctx context.Context, videoID string) (*snapshot, error) {
	b.mu.RLock()
	snap, ok := b.loaded[videoID]
	b.mu.RUnlock()
	if ok {
		return snap, nil
	}

	data, err := b.store.Get(ctx, blobName(videoID))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%s: %w", videoID, entities.ErrIndexNotFound)
	}
	if err != nil {
		return nil, err
	}

	snap = &snapshot{}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(snap); err != nil {
		return nil, fmt.Errorf("failed to decode index for %s: %w", videoID, err)
	}
	if len(snap.Chunks) != len(snap.Vectors) {
		return nil, fmt.Errorf("corrupt index for %s: %d chunks, %d vectors", videoID, len(snap.Chunks), len(snap.Vectors))
	}

	b.mu.Lock()
	b.loaded[videoID] = snap
	b.mu.Unlock()
	return snap, nil
}
