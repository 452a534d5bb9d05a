package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	maxTranscriptRunes  = 8000
	minTranscriptLength = 50

	summaryUnavailable   = "Summary not available for this video."
	keyPointsUnavailable = "Key points not available for very short videos."
	summaryFailed        = "Error generating summary."
	keyPointsFailed      = "Error generating key points."
)

const summaryPrompt = `Summarize the following YouTube video transcript clearly and naturally.

Guidelines:
1. Focus on meaningful content only (ignore filler words and repetition).
2. Capture the main ideas and flow of the video.
3. Keep it concise (2-3 paragraphs) but complete.

Transcript:
%s`

const keyPointsPrompt = `Extract the 5 most important key points from this YouTube transcript.

Guidelines:
1. Present each as a clear, concise bullet (1-2 lines).
2. Focus only on the most significant facts, events, or ideas.
3. Remove filler words and unrelated content.

Transcript:
%s`

// Service produces cached summaries and key points of transcripts
type Service interface {
	Summarize(ctx context.Context, transcript string) string
	KeyPoints(ctx context.Context, transcript string) []string
	SummaryCached(ctx context.Context, transcript string) bool
}

type aiService struct {
	gateway *Gateway
	cache   *ArtifactCache
	parser  *Parser
	logger  *zap.Logger
}

// NewAIService constructs the summary service
func NewAIService(gateway *Gateway, cache *ArtifactCache, logger *zap.Logger) Service {
	return &aiService{
		gateway: gateway,
		cache:   cache,
		parser:  NewParser(),
		logger:  logger,
	}
}

// truncate keeps the first maxTranscriptRunes runes
func truncate(transcript string) string {
	runes := []rune(transcript)
	if len(runes) <= maxTranscriptRunes {
		return transcript
	}
	return string(runes[:maxTranscriptRunes])
}

// Summarize never fails: short transcripts and generation errors map to fixed texts
func (s *aiService) Summarize(ctx context.Context, transcript string) string {
	if len(strings.TrimSpace(transcript)) < minTranscriptLength {
		return summaryUnavailable
	}
	text := truncate(transcript)

	summary, err := s.cache.GetOrGenerate(ctx, KindSummary, text, func(ctx context.Context) (string, error) {
		out, err := s.gateway.Generate(ctx, fmt.Sprintf(summaryPrompt, text))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Summarization failed", zap.Int("text_length", len(text)), zap.Error(err))
		}
		return summaryFailed
	}
	return summary
}

// KeyPoints never fails: short transcripts and generation errors map to fixed texts
func (s *aiService) KeyPoints(ctx context.Context, transcript string) []string {
	if len(strings.TrimSpace(transcript)) < minTranscriptLength {
		return []string{keyPointsUnavailable}
	}
	text := truncate(transcript)

	encoded, err := s.cache.GetOrGenerate(ctx, KindKeyPoints, text, func(ctx context.Context) (string, error) {
		out, err := s.gateway.Generate(ctx, fmt.Sprintf(keyPointsPrompt, text))
		if err != nil {
			return "", err
		}
		b, err := json.Marshal(s.parser.ParseKeyPoints(out))
		if err != nil {
			return "", err
		}
		return string(b), nil
	})
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Key point extraction failed", zap.Int("text_length", len(text)), zap.Error(err))
		}
		return []string{keyPointsFailed}
	}

	var points []string
	if err := json.Unmarshal([]byte(encoded), &points); err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Cached key points unreadable", zap.Error(err))
		}
		return []string{keyPointsFailed}
	}
	return points
}

// SummaryCached reports whether a valid summary is cached for transcript
func (s *aiService) SummaryCached(ctx context.Context, transcript string) bool {
	_, ok := s.cache.Lookup(ctx, KindSummary, truncate(transcript))
	return ok
}
