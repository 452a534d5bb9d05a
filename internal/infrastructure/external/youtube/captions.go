package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	yt "github.com/kkdai/youtube/v2"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/pkg/config"
)

// CaptionSource fetches the caption track YouTube serves for a video
type CaptionSource struct {
	client    *yt.Client
	languages []string
	timeout   time.Duration
	attempts  uint64
	logger    *zap.Logger
}

// NewCaptionSource creates a caption source. Languages are tried in order.
func NewCaptionSource(cfg *config.TranscriptConfig, logger *zap.Logger) *CaptionSource {
	s := &CaptionSource{
		client:    &yt.Client{},
		languages: []string{"en", "hi"},
		timeout:   30 * time.Second,
		attempts:  3,
		logger:    logger,
	}
	if cfg != nil {
		if len(cfg.Languages) > 0 {
			s.languages = cfg.Languages
		}
		if cfg.Timeout > 0 {
			s.timeout = cfg.Timeout
		}
	}
	return s
}

// Name implements repositories.TranscriptSource
func (s *CaptionSource) Name() string {
	return entities.SourceYouTube
}

// Fetch returns the first non-empty caption transcript in the configured languages
func (s *CaptionSource) Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var video *yt.Video
	err := backoff.Retry(func() error {
		v, err := s.client.GetVideoContext(ctx, videoID)
		if err != nil {
			if errors.Is(err, yt.ErrVideoPrivate) || errors.Is(err, yt.ErrNotPlayableInEmbed) {
				return backoff.Permanent(err)
			}
			return err
		}
		video = v
		return nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.attempts-1), ctx))
	if err != nil {
		return entities.TranscriptText{}, fmt.Errorf("load video %s: %w", videoID, err)
	}

	var lastErr error
	for _, lang := range s.languages {
		segments, err := s.client.GetTranscriptCtx(ctx, video, lang)
		if err != nil {
			lastErr = err
			if s.logger != nil {
				s.logger.Debug("No captions in language",
					zap.String("video_id", videoID),
					zap.String("language", lang),
					zap.Error(err),
				)
			}
			continue
		}

		text := JoinSegments(segments)
		if text == "" {
			lastErr = fmt.Errorf("empty %s captions", lang)
			continue
		}

		if s.logger != nil {
			s.logger.Info("✅ Captions fetched",
				zap.String("video_id", videoID),
				zap.String("language", lang),
				zap.Int("segments", len(segments)),
			)
		}
		return entities.TranscriptText{
			VideoID:  videoID,
			Text:     text,
			Language: lang,
			Source:   entities.SourceYouTube,
		}, nil
	}

	if lastErr == nil {
		lastErr = errors.New("no caption languages configured")
	}
	return entities.TranscriptText{}, fmt.Errorf("no %s captions for %s: %w", strings.Join(s.languages, "/"), videoID, lastErr)
}

// JoinSegments concatenates caption segments with single spaces
func JoinSegments(segments yt.VideoTranscript) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.Join(strings.Fields(seg.Text), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
