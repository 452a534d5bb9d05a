package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/internal/domain/repositories"
	"github.com/johnquangdev/ytbuddy/internal/usecase/ai"
	"github.com/johnquangdev/ytbuddy/internal/usecase/transcript"
	"github.com/johnquangdev/ytbuddy/pkg/validator"
	"github.com/johnquangdev/ytbuddy/pkg/youtubeurl"
)

// Indexer prepares transcript indexes. *qa.IndexManager implements it.
type Indexer interface {
	Exists(ctx context.Context, videoID string) (bool, error)
	IndexTranscript(ctx context.Context, t entities.TranscriptText) (entities.IndexHandle, error)
}

// Service analyzes videos and reports what is prepared for them
type Service interface {
	Analyze(ctx context.Context, rawURL string) (*entities.Analysis, error)
	Status(ctx context.Context, videoID string) (*entities.VideoStatus, error)
}

type videoService struct {
	transcripts transcript.Provider
	summarizer  ai.Service
	indexes     Indexer
	repo        repositories.TranscriptRepository
	clock       clock.Clock
	logger      *zap.Logger
}

// NewVideoService creates the video service. repo may be nil.
func NewVideoService(
	transcripts transcript.Provider,
	summarizer ai.Service,
	indexes Indexer,
	repo repositories.TranscriptRepository,
	clk clock.Clock,
	logger *zap.Logger,
) Service {
	if clk == nil {
		clk = clock.New()
	}
	return &videoService{
		transcripts: transcripts,
		summarizer:  summarizer,
		indexes:     indexes,
		repo:        repo,
		clock:       clk,
		logger:      logger,
	}
}

// Analyze fetches the transcript of the video at rawURL, summarizes it and
// prepares its index. Index failures are logged and reported as Indexed=false;
// a canceled request fails the whole analysis.
func (s *videoService) Analyze(ctx context.Context, rawURL string) (*entities.Analysis, error) {
	videoID, err := youtubeurl.ExtractVideoID(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrInvalidInput, err)
	}

	if s.logger != nil {
		s.logger.Info("🎬 Analyzing video", zap.String("video_id", videoID))
	}

	t, err := s.transcripts.Fetch(ctx, videoID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch transcript %s: %w", videoID, ctxErr)
		}
		if !errors.Is(err, entities.ErrNoTranscriptAvailable) {
			err = fmt.Errorf("%w: %v", entities.ErrNoTranscriptAvailable, err)
		}
		return nil, err
	}

	var (
		summary   string
		keyPoints []string
		indexed   bool
	)

	// Generation degrades to placeholders and indexing is optional, so only
	// cancellation of the request fails the group.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary = s.summarizer.Summarize(gctx, t.Text)
		return ctx.Err()
	})
	g.Go(func() error {
		keyPoints = s.summarizer.KeyPoints(gctx, t.Text)
		return ctx.Err()
	})
	g.Go(func() error {
		if _, err := s.indexes.IndexTranscript(gctx, t); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if s.logger != nil {
				s.logger.Warn("⚠️ Indexing failed (non-critical)", zap.String("video_id", videoID), zap.Error(err))
			}
			return nil
		}
		indexed = true
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", videoID, err)
	}

	if s.repo != nil {
		if err := s.repo.SaveAnalysis(ctx, videoID, summary, keyPoints); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to store analysis", zap.String("video_id", videoID), zap.Error(err))
		}
	}

	if s.logger != nil {
		s.logger.Info("✅ Video analyzed",
			zap.String("video_id", videoID),
			zap.String("source", t.Source),
			zap.Int("key_points", len(keyPoints)),
			zap.Bool("indexed", indexed),
		)
	}

	return &entities.Analysis{
		VideoID:     videoID,
		Summary:     summary,
		KeyPoints:   keyPoints,
		Language:    t.Language,
		Transcript:  t.Text,
		Indexed:     indexed,
		GeneratedAt: s.clock.Now(),
	}, nil
}

// Status reports the index, stored transcript and cached summary of videoID
func (s *videoService) Status(ctx context.Context, videoID string) (*entities.VideoStatus, error) {
	if !validator.IsVideoID(videoID) {
		return nil, fmt.Errorf("%w: invalid video id", entities.ErrInvalidInput)
	}

	status := &entities.VideoStatus{VideoID: videoID}

	indexed, err := s.indexes.Exists(ctx, videoID)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to check index", zap.String("video_id", videoID), zap.Error(err))
		}
	}
	status.Indexed = indexed

	if s.repo == nil {
		return status, nil
	}

	row, err := s.repo.GetByVideoID(ctx, videoID)
	switch {
	case errors.Is(err, entities.ErrTranscriptNotFound):
		return status, nil
	case err != nil:
		return nil, fmt.Errorf("%w: load transcript %s: %v", entities.ErrStorage, videoID, err)
	}

	status.TranscriptStored = true
	status.TranscriptSource = row.Source
	status.TranscriptLength = len([]rune(row.Text))
	status.SummaryCached = s.summarizer.SummaryCached(ctx, row.Text)
	return status, nil
}
