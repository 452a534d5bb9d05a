package transcript

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
)

// Provider fetches the transcript of a video
type Provider interface {
	Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error)
}

// Chain tries its sources in order and returns the first non-empty transcript.
// Transcripts obtained from a remote source are saved to the repository.
type Chain struct {
	sources []repositories.TranscriptSource
	repo    repositories.TranscriptRepository
	logger  *zap.Logger
}

// NewChain creates a chain. repo may be nil when persistence is disabled.
func NewChain(repo repositories.TranscriptRepository, logger *zap.Logger, sources ...repositories.TranscriptSource) *Chain {
	return &Chain{sources: sources, repo: repo, logger: logger}
}

// Fetch returns entities.ErrNoTranscriptAvailable when every source fails
func (c *Chain) Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error) {
	var failures []string

	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return entities.TranscriptText{}, err
		}

		t, err := src.Fetch(ctx, videoID)
		if err == nil && strings.TrimSpace(t.Text) == "" {
			err = errors.New("empty transcript")
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", src.Name(), err))
			if c.logger != nil {
				c.logger.Debug("Transcript source failed",
					zap.String("video_id", videoID),
					zap.String("source", src.Name()),
					zap.Error(err),
				)
			}
			continue
		}

		t.VideoID = videoID
		if t.Source == "" {
			t.Source = src.Name()
		}
		if t.Source != entities.SourceRepository {
			c.store(ctx, t)
		}
		return t, nil
	}

	if c.logger != nil {
		c.logger.Warn("⚠️ No transcript available",
			zap.String("video_id", videoID),
			zap.Strings("failures", failures),
		)
	}
	return entities.TranscriptText{}, fmt.Errorf("%w for %s: %s", entities.ErrNoTranscriptAvailable, videoID, strings.Join(failures, "; "))
}

func (c *Chain) store(ctx context.Context, t entities.TranscriptText) {
	if c.repo == nil {
		return
	}
	if err := c.repo.Save(ctx, entities.NewTranscript(t)); err != nil && c.logger != nil {
		c.logger.Warn("⚠️ Failed to store transcript",
			zap.String("video_id", t.VideoID),
			zap.String("source", t.Source),
			zap.Error(err),
		)
	}
}

// RepositorySource serves previously stored transcripts
type RepositorySource struct {
	repo repositories.TranscriptRepository
}

// NewRepositorySource wraps repo as a transcript source
func NewRepositorySource(repo repositories.TranscriptRepository) *RepositorySource {
	return &RepositorySource{repo: repo}
}

// Name implements repositories.TranscriptSource
func (s *RepositorySource) Name() string {
	return entities.SourceRepository
}

// Fetch implements repositories.TranscriptSource
func (s *RepositorySource) Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error) {
	row, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		return entities.TranscriptText{}, err
	}
	return row.AsText(), nil
}
