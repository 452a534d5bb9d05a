package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
	"github.com/johnquangdev/ytbuddy/internal/usecase/transcript"
	"github.com/johnquangdev/ytbuddy/pkg/textsplit"
)

// DefaultTopK is the number of passages retrieved per question
const DefaultTopK = 4

// DefaultMaxTranscriptLength is the longest transcript, in characters, that gets indexed
const DefaultMaxTranscriptLength = 100000

// IndexManager makes sure a searchable index exists for a video.
// Once built, an index is reused as is even if the transcript later changes.
type IndexManager struct {
	index       repositories.VectorIndex
	transcripts transcript.Provider
	splitter    textsplit.Splitter
	topK        int
	maxLength   int
	group       singleflight.Group
	logger      *zap.Logger
}

// NewIndexManager creates an index manager. topK <= 0 means DefaultTopK.
func NewIndexManager(index repositories.VectorIndex, transcripts transcript.Provider, splitter textsplit.Splitter, topK int, logger *zap.Logger) *IndexManager {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &IndexManager{
		index:       index,
		transcripts: transcripts,
		splitter:    splitter,
		topK:        topK,
		maxLength:   DefaultMaxTranscriptLength,
		logger:      logger,
	}
}

// SetMaxTranscriptLength caps the characters of an indexable transcript.
// n <= 0 restores DefaultMaxTranscriptLength.
func (m *IndexManager) SetMaxTranscriptLength(n int) {
	if n <= 0 {
		n = DefaultMaxTranscriptLength
	}
	m.maxLength = n
}

// Exists reports whether videoID already has an index
func (m *IndexManager) Exists(ctx context.Context, videoID string) (bool, error) {
	return m.index.Exists(ctx, videoID)
}

// EnsureIndex returns a handle to the index of videoID, fetching and indexing
// the transcript on first use. Concurrent first calls share one build.
// Fails with entities.ErrNoTranscriptAvailable, or entities.ErrIndexBuild when
// the build fails or the transcript is over the length cap.
func (m *IndexManager) EnsureIndex(ctx context.Context, videoID string) (entities.IndexHandle, error) {
	return m.ensure(ctx, videoID, func(ctx context.Context) (string, error) {
		t, err := m.transcripts.Fetch(ctx, videoID)
		if err != nil {
			if errors.Is(err, entities.ErrNoTranscriptAvailable) {
				return "", err
			}
			return "", fmt.Errorf("%w: %v", entities.ErrNoTranscriptAvailable, err)
		}
		return t.Text, nil
	})
}

// IndexTranscript indexes already fetched text unless an index exists
func (m *IndexManager) IndexTranscript(ctx context.Context, t entities.TranscriptText) (entities.IndexHandle, error) {
	return m.ensure(ctx, t.VideoID, func(context.Context) (string, error) {
		return t.Text, nil
	})
}

func (m *IndexManager) ensure(ctx context.Context, videoID string, text func(context.Context) (string, error)) (entities.IndexHandle, error) {
	handle := entities.IndexHandle{VideoID: videoID}

	exists, err := m.index.Exists(ctx, videoID)
	if err != nil {
		return handle, fmt.Errorf("%w: check %s: %v", entities.ErrIndexBuild, videoID, err)
	}
	if exists {
		return handle, nil
	}

	_, err, shared := m.group.Do(videoID, func() (interface{}, error) {
		// another caller may have finished a build between the check and here
		if ok, err := m.index.Exists(ctx, videoID); err == nil && ok {
			return nil, nil
		}

		body, err := text(ctx)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(body) == "" {
			return nil, fmt.Errorf("%w: empty transcript for %s", entities.ErrNoTranscriptAvailable, videoID)
		}
		if n := utf8.RuneCountInString(body); n > m.maxLength {
			return nil, fmt.Errorf("%w: transcript of %s has %d characters, limit is %d", entities.ErrIndexBuild, videoID, n, m.maxLength)
		}

		pieces := m.splitter.Split(body)
		chunks := make([]entities.Chunk, len(pieces))
		for i, p := range pieces {
			chunks[i] = entities.Chunk{VideoID: videoID, Ordinal: i, Text: p}
		}

		if err := m.index.Build(ctx, videoID, chunks); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", entities.ErrIndexBuild, videoID, err)
		}

		if m.logger != nil {
			m.logger.Info("✅ Transcript indexed",
				zap.String("video_id", videoID),
				zap.Int("chunks", len(chunks)),
			)
		}
		return nil, nil
	})
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("⚠️ Index not ready",
				zap.String("video_id", videoID),
				zap.Bool("shared", shared),
				zap.Error(err),
			)
		}
		return handle, err
	}
	return handle, nil
}

// Retrieve returns up to k passages for question, best first. k <= 0 uses the default.
func (m *IndexManager) Retrieve(ctx context.Context, handle entities.IndexHandle, question string, k int) ([]entities.Passage, error) {
	if k <= 0 {
		k = m.topK
	}
	passages, err := m.index.Search(ctx, handle.VideoID, question, k)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", handle.VideoID, err)
	}
	return passages, nil
}
