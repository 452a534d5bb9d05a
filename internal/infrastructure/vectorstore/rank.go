// Package vectorstore holds the transcript index backends: an in-process map,
// gob snapshots in a blob store, Postgres with pgvector, and Milvus.
package vectorstore

import (
	"fmt"
	"math"
	"sort"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// snapshot is one video's chunks with their embeddings, aligned by position
type snapshot struct {
	VideoID string
	Chunks  []entities.Chunk
	Vectors [][]float32
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// rank orders passages best first with ties broken by ordinal, and keeps k
func rank(passages []entities.Passage, k int) []entities.Passage {
	sort.SliceStable(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		return passages[i].Ordinal < passages[j].Ordinal
	})
	if k < len(passages) {
		passages = passages[:k]
	}
	return passages
}

func (s *snapshot) search(query []float32, k int) []entities.Passage {
	passages := make([]entities.Passage, len(s.Chunks))
	for i, c := range s.Chunks {
		passages[i] = entities.Passage{Chunk: c, Score: cosine(query, s.Vectors[i])}
	}
	return rank(passages, k)
}

func chunkTexts(chunks []entities.Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}

func embedChunks(embed func([]string) ([][]float32, error), chunks []entities.Chunk) ([][]float32, error) {
	vectors, err := embed(chunkTexts(chunks))
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	return vectors, nil
}
