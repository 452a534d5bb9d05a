package qa

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/ytbuddy/internal/domain/entities"
)

// Generator produces text for a prompt. *ai.Gateway implements it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Indexer is the part of IndexManager the composer needs
type Indexer interface {
	EnsureIndex(ctx context.Context, videoID string) (entities.IndexHandle, error)
	Retrieve(ctx context.Context, handle entities.IndexHandle, question string, k int) ([]entities.Passage, error)
}

// Composition is a formatted answer and the branch that produced it
type Composition struct {
	Text    string
	Outcome entities.Outcome
}

// Composer runs the retrieval and generation flow of one answer mode.
// It never fails: every error becomes a fixed answer text.
type Composer struct {
	generator Generator
	indexes   Indexer
	topK      int
	logger    *zap.Logger
}

// NewComposer creates a composer
func NewComposer(generator Generator, indexes Indexer, topK int, logger *zap.Logger) *Composer {
	return &Composer{generator: generator, indexes: indexes, topK: topK, logger: logger}
}

// Compose answers question about videoID in the given mode
func (c *Composer) Compose(ctx context.Context, mode entities.AnswerMode, videoID, question string) Composition {
	switch mode {
	case entities.ModeGeneral:
		return c.general(ctx, videoID, question)
	case entities.ModeHybrid:
		return c.hybrid(ctx, videoID, question)
	default:
		return c.grounded(ctx, videoID, question)
	}
}

func (c *Composer) general(ctx context.Context, videoID, question string) Composition {
	out, err := c.generator.Generate(ctx, buildGeneralPrompt(question))
	if err != nil {
		c.logFailure("general answer failed", videoID, entities.ModeGeneral, err)
		return Composition{Text: textGeneralFailure, Outcome: entities.OutcomeFailed}
	}
	return Composition{
		Text:    markerGeneral + " " + stripMarker(out, markerGeneral),
		Outcome: entities.OutcomeAnswered,
	}
}

// transcriptAnswer runs the grounded flow up to the raw answer text.
// A non-nil Composition means the flow ended early with a fixed answer.
func (c *Composer) transcriptAnswer(ctx context.Context, mode entities.AnswerMode, videoID, question string) (string, *Composition) {
	handle, err := c.indexes.EnsureIndex(ctx, videoID)
	if err != nil {
		if errors.Is(err, entities.ErrNoTranscriptAvailable) {
			return "", &Composition{Text: textNoTranscript, Outcome: entities.OutcomeNoTranscript}
		}
		c.logFailure("index unavailable", videoID, mode, err)
		return "", &Composition{Text: textIndexFailure, Outcome: entities.OutcomeFailed}
	}

	passages, err := c.indexes.Retrieve(ctx, handle, question, c.topK)
	if err != nil {
		c.logFailure("retrieval failed", videoID, mode, err)
		return "", &Composition{Text: textGroundedFailure, Outcome: entities.OutcomeFailed}
	}

	out, err := c.generator.Generate(ctx, buildGroundedPrompt(question, passages))
	if err != nil {
		c.logFailure("grounded answer failed", videoID, mode, err)
		return "", &Composition{Text: textGroundedFailure, Outcome: entities.OutcomeFailed}
	}

	answer := stripMarker(out, markerTranscript)
	if answer == "" {
		answer = textNoAnswer
	}
	return answer, nil
}

func (c *Composer) grounded(ctx context.Context, videoID, question string) Composition {
	answer, early := c.transcriptAnswer(ctx, entities.ModeGrounded, videoID, question)
	if early != nil {
		return *early
	}

	if isLowConfidence(answer) {
		return Composition{
			Text:    markerTranscript + " " + textLowConfidence + answer,
			Outcome: entities.OutcomeLowConfidence,
		}
	}
	return Composition{Text: markerTranscript + " " + answer, Outcome: entities.OutcomeAnswered}
}

func (c *Composer) hybrid(ctx context.Context, videoID, question string) Composition {
	answer, early := c.transcriptAnswer(ctx, entities.ModeHybrid, videoID, question)
	if early != nil {
		return *early
	}

	grounded := markerTranscript + " " + answer
	if !lacksAnswer(answer) {
		return Composition{Text: grounded, Outcome: entities.OutcomeAnswered}
	}

	general, err := c.generator.Generate(ctx, buildSupplementPrompt(question))
	general = strings.TrimSpace(general)
	if err != nil || general == "" {
		if err != nil {
			c.logFailure("supplement failed", videoID, entities.ModeHybrid, err)
		}
		return Composition{Text: grounded, Outcome: entities.OutcomeLowConfidence}
	}

	return Composition{
		Text:    grounded + "\n\n" + markerBeyond + " " + stripMarker(general, markerBeyond),
		Outcome: entities.OutcomeSupplemented,
	}
}

func (c *Composer) logFailure(msg, videoID string, mode entities.AnswerMode, err error) {
	if c.logger == nil {
		return
	}
	if errors.Is(err, entities.ErrQuotaExceeded) {
		c.logger.Error("🚫 "+msg+": quota exceeded",
			zap.String("video_id", videoID),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return
	}
	c.logger.Warn("⚠️ "+msg,
		zap.String("video_id", videoID),
		zap.String("mode", string(mode)),
		zap.Error(err),
	)
}
