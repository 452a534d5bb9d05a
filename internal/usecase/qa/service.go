package qa

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
	"github.com/johnquangdev/ytbuddy/pkg/validator"
)

// MaxQuestionLength is the longest accepted question, in characters
const MaxQuestionLength = 500

// Service answers questions about videos
type Service interface {
	AnswerQuestion(ctx context.Context, videoID, question string) (*entities.AnswerResult, error)
}

type qaService struct {
	composer *Composer
	clock    clock.Clock
	logger   *zap.Logger
}

// NewQAService creates the question answering service
func NewQAService(composer *Composer, clk clock.Clock, logger *zap.Logger) Service {
	if clk == nil {
		clk = clock.New()
	}
	return &qaService{composer: composer, clock: clk, logger: logger}
}

// ValidateQuestion checks the inputs of AnswerQuestion.
// Errors wrap entities.ErrInvalidInput.
func ValidateQuestion(videoID, question string) error {
	if !validator.IsVideoID(videoID) {
		return fmt.Errorf("%w: video id must be 11 characters of letters, digits, '-' or '_'", entities.ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("%w: question is required", entities.ErrInvalidInput)
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return fmt.Errorf("%w: question exceeds %d characters", entities.ErrInvalidInput, MaxQuestionLength)
	}
	return nil
}

// AnswerQuestion classifies the question and composes the answer.
// The only error is entities.ErrInvalidInput.
func (s *qaService) AnswerQuestion(ctx context.Context, videoID, question string) (*entities.AnswerResult, error) {
	if err := ValidateQuestion(videoID, question); err != nil {
		return nil, err
	}

	mode := Classify(question)
	if s.logger != nil {
		s.logger.Info("❓ Answering question",
			zap.String("video_id", videoID),
			zap.String("mode", string(mode)),
			zap.Int("question_length", utf8.RuneCountInString(question)),
		)
	}

	c := s.composer.Compose(ctx, mode, videoID, question)

	if s.logger != nil {
		s.logger.Info("✅ Question answered",
			zap.String("video_id", videoID),
			zap.String("mode", string(mode)),
			zap.String("outcome", string(c.Outcome)),
		)
	}

	return &entities.AnswerResult{
		VideoID:     videoID,
		Mode:        mode,
		Text:        c.Text,
		Outcome:     c.Outcome,
		GeneratedAt: s.clock.Now(),
	}, nil
}
