package assemblyai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// VideoIDPlaceholder is replaced by the video id in the audio URL template
const VideoIDPlaceholder = "{video_id}"

// ErrNotConfigured is returned when no audio URL template is set
var ErrNotConfigured = errors.New("speech-to-text source not configured")

// Transcriber turns an audio URL into text. pkg/ai.AssemblyAIClient implements it.
type Transcriber interface {
	TranscribeURL(ctx context.Context, audioURL string) (text string, language string, err error)
}

// Source transcribes a video's audio when no captions exist
type Source struct {
	transcriber Transcriber
	urlTemplate string
	logger      *zap.Logger
}

// NewSource creates the speech-to-text source
func NewSource(transcriber Transcriber, urlTemplate string, logger *zap.Logger) *Source {
	return &Source{transcriber: transcriber, urlTemplate: urlTemplate, logger: logger}
}

// Name implements repositories.TranscriptSource
func (s *Source) Name() string {
	return entities.SourceAssemblyAI
}

// AudioURL expands the template for videoID
func (s *Source) AudioURL(videoID string) (string, error) {
	if strings.TrimSpace(s.urlTemplate) == "" {
		return "", ErrNotConfigured
	}
	return strings.ReplaceAll(s.urlTemplate, VideoIDPlaceholder, videoID), nil
}

// Fetch implements repositories.TranscriptSource
func (s *Source) Fetch(ctx context.Context, videoID string) (entities.TranscriptText, error) {
	audioURL, err := s.AudioURL(videoID)
	if err != nil {
		return entities.TranscriptText{}, err
	}

	if s.logger != nil {
		s.logger.Info("🎙️ Transcribing audio", zap.String("video_id", videoID))
	}

	text, lang, err := s.transcriber.TranscribeURL(ctx, audioURL)
	if err != nil {
		return entities.TranscriptText{}, fmt.Errorf("transcribe %s: %w", videoID, err)
	}

	return entities.TranscriptText{
		VideoID:  videoID,
		Text:     text,
		Language: lang,
		Source:   entities.SourceAssemblyAI,
	}, nil
}
