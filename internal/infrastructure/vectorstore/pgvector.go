package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
)

// PgVectorIndex stores chunk embeddings in Postgres using the pgvector extension.
// A video counts as indexed once its row in transcript_indexes is committed,
// which happens in the same transaction as its chunks.
type PgVectorIndex struct {
	pool     *pgxpool.Pool
	embedder repositories.Embedder
}

// NewPgVectorIndex connects to dsn and makes sure the schema exists
func NewPgVectorIndex(ctx context.Context, dsn string, embedder repositories.Embedder) (*PgVectorIndex, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	idx := &PgVectorIndex{pool: pool, embedder: embedder}
	if err := idx.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (p *PgVectorIndex) ensureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	chunks := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS transcript_chunks (
			video_id    VARCHAR(16) NOT NULL,
			chunk_index INT NOT NULL,
			text        TEXT NOT NULL,
			embedding   vector(%d) NOT NULL,
			PRIMARY KEY (video_id, chunk_index)
		)`, p.embedder.Dimensions())
	if _, err := p.pool.Exec(ctx, chunks); err != nil {
		return fmt.Errorf("failed to create transcript_chunks table: %w", err)
	}

	indexes := `
		CREATE TABLE IF NOT EXISTS transcript_indexes (
			video_id    VARCHAR(16) PRIMARY KEY,
			chunk_count INT NOT NULL,
			built_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`
	if _, err := p.pool.Exec(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create transcript_indexes table: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (p *PgVectorIndex) Close() {
	p.pool.Close()
}

// Exists reports whether a committed index exists for videoID
func (p *PgVectorIndex) Exists(ctx context.Context, videoID string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM transcript_indexes WHERE video_id = $1)", videoID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check index for %s: %w", videoID, err)
	}
	return exists, nil
}

// Build replaces the video's chunks and marks it indexed in one transaction
func (p *PgVectorIndex) Build(ctx context.Context, videoID string, chunks []entities.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index for %s", videoID)
	}
	vectors, err := embedChunks(func(texts []string) ([][]float32, error) {
		return p.embedder.Embed(ctx, texts)
	}, chunks)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM transcript_chunks WHERE video_id = $1", videoID); err != nil {
			return fmt.Errorf("failed to clear chunks: %w", err)
		}

		batch := &pgx.Batch{}
		for i, c := range chunks {
			batch.Queue(
				"INSERT INTO transcript_chunks (video_id, chunk_index, text, embedding) VALUES ($1, $2, $3, $4)",
				videoID, c.Ordinal, c.Text, pgvector.NewVector(vectors[i]),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert chunks: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO transcript_indexes (video_id, chunk_count, built_at) VALUES ($1, $2, NOW())
			ON CONFLICT (video_id) DO UPDATE SET chunk_count = EXCLUDED.chunk_count, built_at = EXCLUDED.built_at`,
			videoID, len(chunks),
		)
		if err != nil {
			return fmt.Errorf("failed to mark index: %w", err)
		}
		return nil
	})
}

// Search orders the video's chunks by cosine distance to the query
func (p *PgVectorIndex) Search(ctx context.Context, videoID, query string, k int) ([]entities.Passage, error) {
	exists, err := p.Exists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", videoID, entities.ErrIndexNotFound)
	}
	if k <= 0 {
		return nil, nil
	}

	vectors, err := p.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	vec := pgvector.NewVector(vectors[0])

	rows, err := p.pool.Query(ctx, `
		SELECT chunk_index, text, 1 - (embedding <=> $1) AS similarity
		FROM transcript_chunks
		WHERE video_id = $2
		ORDER BY embedding <=> $1, chunk_index
		LIMIT $3`, vec, videoID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var passages []entities.Passage
	for rows.Next() {
		var (
			ordinal    int
			text       string
			similarity float64
		)
		if err := rows.Scan(&ordinal, &text, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		passages = append(passages, entities.Passage{
			Chunk: entities.Chunk{VideoID: videoID, Ordinal: ordinal, Text: text},
			Score: similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rank(passages, k), nil
}
